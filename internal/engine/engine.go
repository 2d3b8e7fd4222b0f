package engine

import (
	"context"
	"sort"
	"time"

	"github.com/rmarques/stocklens/internal/domain"
	"github.com/rmarques/stocklens/internal/repository"
)

// Engine computes inventory analytics on top of a read-only repository.
// It owns no mutable state: every operation recomputes from the store,
// so concurrent calls are safe and repeated calls over the same data
// return the same result.
type Engine struct {
	repo repository.InventoryRepository
	now  func() time.Time
}

func New(repo repository.InventoryRepository) *Engine {
	return &Engine{repo: repo, now: time.Now}
}

// WithClock overrides the time source. Tests pin it to a fixed instant.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// activeProducts loads the catalog an analysis works on. An empty
// catalog is a data-availability failure, not an empty analysis;
// stock-level filtering happens inside each analysis loop.
func (e *Engine) activeProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := e.repo.FetchProducts(ctx, filter)
	if err != nil {
		return nil, dataUnavailable("fetch products", err)
	}
	if len(products) == 0 {
		return nil, dataUnavailable("product catalog is empty", nil)
	}
	return products, nil
}

func (e *Engine) salesSince(ctx context.Context, from time.Time) ([]domain.SaleRecord, error) {
	sales, err := e.repo.FetchSales(ctx, 0, from, e.now())
	if err != nil {
		return nil, dataUnavailable("fetch sales", err)
	}
	return sales, nil
}

func (e *Engine) pendingOrders(ctx context.Context, productID int64) ([]domain.PurchaseOrder, error) {
	orders, err := e.repo.FetchPurchaseOrders(ctx, domain.POStatusPending, productID)
	if err != nil {
		return nil, dataUnavailable("fetch pending purchase orders", err)
	}
	return orders, nil
}

// demandStats accumulates per-product sale figures over one window so
// the detectors do a single sales scan instead of per-product reads.
type demandStats struct {
	Quantity   float64
	SalesCount int
	LastSaleAt time.Time
}

// aggregateDemand folds completed sales into per-product stats.
func aggregateDemand(sales []domain.SaleRecord) map[int64]demandStats {
	stats := make(map[int64]demandStats, len(sales))
	for _, sale := range sales {
		if !sale.Completed() {
			continue
		}
		s := stats[sale.ProductID]
		s.Quantity += sale.Quantity
		s.SalesCount++
		if sale.SoldAt.After(s.LastSaleAt) {
			s.LastSaleAt = sale.SoldAt
		}
		stats[sale.ProductID] = s
	}
	return stats
}

// aggregatePending rolls pending orders into per-product figures. The
// delay flag follows the oldest order containing the product.
func (e *Engine) aggregatePending(orders []domain.PurchaseOrder, delayThresholdDays int) map[int64]domain.PendingAggregate {
	now := e.now()
	agg := make(map[int64]domain.PendingAggregate)
	for _, order := range orders {
		age := daysBetween(order.OrderDate, now)
		for _, item := range order.Items {
			a := agg[item.ProductID]
			a.PendingQuantity += item.Quantity
			a.OrderCount++
			if age > a.OldestOrderAgeDays {
				a.OldestOrderAgeDays = age
			}
			agg[item.ProductID] = a
		}
	}
	for id, a := range agg {
		a.IsDelayed = a.OldestOrderAgeDays > delayThresholdDays
		agg[id] = a
	}
	return agg
}

// daysBetween returns whole days from `from` to `to`, never negative.
func daysBetween(from, to time.Time) int {
	if !from.Before(to) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

// sortProducts gives analyses a stable iteration order.
func sortProducts(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
