package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rmarques/stocklens/internal/domain"
	"github.com/rmarques/stocklens/internal/repository"
)

// InventoryRepository is an in-memory implementation of the read facade.
// It backs the engine tests and the CLI demo dataset; access is guarded so
// concurrent analytics calls behave like they do against a real store.
type InventoryRepository struct {
	mu        sync.RWMutex
	products  []domain.Product
	sales     []domain.SaleRecord
	orders    []domain.PurchaseOrder
	movements []domain.StockMovement
}

var _ repository.InventoryRepository = (*InventoryRepository)(nil)

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

// AddProducts registers catalog entries.
func (r *InventoryRepository) AddProducts(products ...domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, products...)
}

// AddSales registers sold line items.
func (r *InventoryRepository) AddSales(sales ...domain.SaleRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = append(r.sales, sales...)
}

// AddPurchaseOrders registers purchase orders with their items.
func (r *InventoryRepository) AddPurchaseOrders(orders ...domain.PurchaseOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, orders...)
}

// AddMovements registers stock ledger entries.
func (r *InventoryRepository) AddMovements(movements ...domain.StockMovement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, movements...)
}

func (r *InventoryRepository) FetchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Product
	for _, p := range r.products {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *InventoryRepository) FetchSales(ctx context.Context, productID int64, from, to time.Time) ([]domain.SaleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.SaleRecord
	for _, s := range r.sales {
		if productID != 0 && s.ProductID != productID {
			continue
		}
		if !from.IsZero() && s.SoldAt.Before(from) {
			continue
		}
		if s.SoldAt.After(to) {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SoldAt.Before(result[j].SoldAt) })
	return result, nil
}

func (r *InventoryRepository) FetchPurchaseOrders(ctx context.Context, status string, productID int64) ([]domain.PurchaseOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.PurchaseOrder
	for _, po := range r.orders {
		if status != "" && po.Status != status {
			continue
		}
		if productID != 0 && !orderContains(po, productID) {
			continue
		}
		result = append(result, po)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].ID < result[j].ID
		}
		return result[i].OrderDate.Before(result[j].OrderDate)
	})
	return result, nil
}

func (r *InventoryRepository) FetchStockMovements(ctx context.Context, productID int64) ([]domain.StockMovement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.StockMovement
	for _, m := range r.movements {
		if productID != 0 && m.ProductID != productID {
			continue
		}
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (r *InventoryRepository) LatestSuppliers(ctx context.Context, productIDs []int64) (map[int64]domain.SupplierRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}

	latest := make(map[int64]time.Time)
	result := make(map[int64]domain.SupplierRef)
	for _, po := range r.orders {
		for _, item := range po.Items {
			if !wanted[item.ProductID] {
				continue
			}
			if seen, ok := latest[item.ProductID]; ok && !po.OrderDate.After(seen) {
				continue
			}
			latest[item.ProductID] = po.OrderDate
			result[item.ProductID] = domain.SupplierRef{ID: po.SupplierID, Name: po.SupplierName}
		}
	}
	return result, nil
}

func orderContains(po domain.PurchaseOrder, productID int64) bool {
	for _, item := range po.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
