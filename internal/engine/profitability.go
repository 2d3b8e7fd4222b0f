package engine

import (
	"context"
	"sort"

	"github.com/rmarques/stocklens/internal/domain"
)

// AnalyzeProfitability reports gross margin per product over the window,
// using each sale's actual unit price against the catalog cost price.
// Best margins first.
func (e *Engine) AnalyzeProfitability(ctx context.Context, params ProfitabilityParams) ([]domain.ProfitabilityRecord, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	products, err := e.activeProducts(ctx, domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	sortProducts(products)

	from := e.now().AddDate(0, 0, -params.PeriodDays)
	sales, err := e.salesSince(ctx, from)
	if err != nil {
		return nil, err
	}

	type saleTotals struct {
		revenue  float64
		quantity float64
	}
	totals := make(map[int64]*saleTotals)
	for _, s := range sales {
		if !s.Completed() {
			continue
		}
		t, ok := totals[s.ProductID]
		if !ok {
			t = &saleTotals{}
			totals[s.ProductID] = t
		}
		t.revenue += s.Quantity * s.UnitPrice.InexactFloat64()
		t.quantity += s.Quantity
	}

	records := make([]domain.ProfitabilityRecord, 0, len(totals))
	for _, p := range products {
		t, ok := totals[p.ID]
		if !ok || t.revenue == 0 {
			continue
		}

		cost := t.quantity * p.CostPrice.InexactFloat64()
		profit := t.revenue - cost
		margin := profit / t.revenue * 100

		rating, recommendation := profitabilityRating(margin)
		records = append(records, domain.ProfitabilityRecord{
			ProductID:      p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			Category:       p.Category,
			UnitsSold:      t.quantity,
			Revenue:        t.revenue,
			Cost:           cost,
			GrossProfit:    profit,
			MarginPct:      margin,
			Rating:         rating,
			Recommendation: recommendation,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].MarginPct != records[j].MarginPct {
			return records[i].MarginPct > records[j].MarginPct
		}
		return records[i].ProductID < records[j].ProductID
	})
	return records, nil
}

func profitabilityRating(marginPct float64) (string, string) {
	switch {
	case marginPct >= 40:
		return "HIGH", "Strong margin. Protect pricing and availability."
	case marginPct >= 25:
		return "MEDIUM", "Healthy margin. Watch cost changes."
	case marginPct >= 10:
		return "LOW", "Thin margin. Review pricing or negotiate cost."
	default:
		return "POOR", "Margin below sustainability. Reprice or consider delisting."
	}
}
