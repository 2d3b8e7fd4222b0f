package engine

import (
	"context"
	"sort"
	"time"

	"github.com/rmarques/stocklens/internal/domain"
)

// DetectStockouts finds products that already ran out while demand
// existed: current stock at or below zero with at least one completed
// sale inside the lookback window. The lost-revenue figure is a linear
// extrapolation of the in-window velocity over the outage.
func (e *Engine) DetectStockouts(ctx context.Context, params StockoutParams) ([]domain.StockoutRecord, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	products, err := e.activeProducts(ctx, domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	sortProducts(products)

	from := e.now().AddDate(0, 0, -params.LookbackDays)
	sales, err := e.salesSince(ctx, from)
	if err != nil {
		return nil, err
	}
	demand := aggregateDemand(sales)

	movements, err := e.repo.FetchStockMovements(ctx, 0)
	if err != nil {
		return nil, dataUnavailable("fetch stock movements", err)
	}
	ruptureAt := ruptureDates(movements)

	records := make([]domain.StockoutRecord, 0, len(products))
	for _, p := range products {
		if p.CurrentStock > 0 {
			continue
		}
		stats, ok := demand[p.ID]
		if !ok || stats.SalesCount == 0 {
			continue
		}
		avgDaily := stats.Quantity / float64(params.LookbackDays)

		// Fall back to the last sale when the ledger never recorded
		// the crossing to zero.
		outSince := stats.LastSaleAt
		if at, ok := ruptureAt[p.ID]; ok {
			outSince = at
		}
		daysOut := daysBetween(outSince, e.now())

		lastSale := stats.LastSaleAt
		records = append(records, domain.StockoutRecord{
			ProductID:      p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			Category:       p.Category,
			CurrentStock:   p.CurrentStock,
			SalesCount:     stats.SalesCount,
			LastSaleAt:     &lastSale,
			QuantitySold:   stats.Quantity,
			AvgDailyDemand: avgDaily,
			DaysOutOfStock: daysOut,
			LostRevenue:    avgDaily * float64(daysOut) * p.SalePrice.InexactFloat64(),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].QuantitySold != records[j].QuantitySold {
			return records[i].QuantitySold > records[j].QuantitySold
		}
		return records[i].ProductID < records[j].ProductID
	})
	return records, nil
}

// ruptureDates extracts, per product, when stock last crossed to zero or
// below according to the movement ledger.
func ruptureDates(movements []domain.StockMovement) map[int64]time.Time {
	out := make(map[int64]time.Time)
	for _, m := range movements {
		if m.StockAfter <= 0 {
			if m.OccurredAt.After(out[m.ProductID]) {
				out[m.ProductID] = m.OccurredAt
			}
		} else {
			// Stock recovered; an earlier crossing no longer counts.
			delete(out, m.ProductID)
		}
	}
	return out
}
