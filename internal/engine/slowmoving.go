package engine

import (
	"context"
	"sort"
	"time"

	"github.com/rmarques/stocklens/internal/domain"
)

// AnalyzeSlowMovingStock finds dead stock: in-stock products with no
// completed sale for at least the threshold. Products that never sold
// at all are flagged separately. Highest tied-up value first.
func (e *Engine) AnalyzeSlowMovingStock(ctx context.Context, params SlowMovingParams) ([]domain.SlowMovingRecord, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	products, err := e.activeProducts(ctx, domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	sortProducts(products)

	// Full sale history: the last sale can lie anywhere in the past.
	sales, err := e.salesSince(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	demand := aggregateDemand(sales)

	movements, err := e.repo.FetchStockMovements(ctx, 0)
	if err != nil {
		return nil, dataUnavailable("fetch stock movements", err)
	}
	lastPurchase := lastMovementDates(movements, domain.MovementPurchase)

	now := e.now()
	records := make([]domain.SlowMovingRecord, 0)
	for _, p := range products {
		if p.CurrentStock <= 0 {
			continue
		}
		stats, sold := demand[p.ID]

		var lastSaleAt *time.Time
		daysWithout := 0
		if sold {
			t := stats.LastSaleAt
			lastSaleAt = &t
			daysWithout = daysBetween(t, now)
			if daysWithout < params.ThresholdDays {
				continue
			}
		}

		rec := domain.SlowMovingRecord{
			ProductID:       p.ID,
			SKU:             p.SKU,
			Name:            p.Name,
			Category:        p.Category,
			CurrentStock:    p.CurrentStock,
			StockValue:      p.CurrentStock * p.CostPrice.InexactFloat64(),
			LastSaleAt:      lastSaleAt,
			DaysWithoutSale: daysWithout,
			NeverSold:       !sold,
			Recommendation:  slowMovingRecommendation(sold, daysWithout),
		}
		if at, ok := lastPurchase[p.ID]; ok {
			t := at
			rec.LastPurchaseAt = &t
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].StockValue != records[j].StockValue {
			return records[i].StockValue > records[j].StockValue
		}
		return records[i].ProductID < records[j].ProductID
	})
	return records, nil
}

func slowMovingRecommendation(sold bool, daysWithout int) string {
	switch {
	case !sold || daysWithout > 90:
		return "URGENT: consider a discount, promotion or returning stock to the supplier."
	case daysWithout > 60:
		return "IMPORTANT: apply a discount to move the stock."
	default:
		return "MONITOR: track sales and consider a light promotion."
	}
}

// lastMovementDates extracts the most recent movement of one type per product.
func lastMovementDates(movements []domain.StockMovement, movementType string) map[int64]time.Time {
	out := make(map[int64]time.Time)
	for _, m := range movements {
		if m.Type != movementType {
			continue
		}
		if m.OccurredAt.After(out[m.ProductID]) {
			out[m.ProductID] = m.OccurredAt
		}
	}
	return out
}
