package engine

import (
	"context"
	"sort"

	"github.com/rmarques/stocklens/internal/domain"
)

// ClassifyABC runs a Pareto classification over products with completed
// sales in the window: class A up to 80% of the cumulative metric, B up
// to 95%, C for the tail.
func (e *Engine) ClassifyABC(ctx context.Context, params ABCParams) (*domain.ABCResult, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	products, err := e.activeProducts(ctx, domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	sortProducts(products)
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

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

	entries := make([]domain.ABCEntry, 0, len(totals))
	var totalMetric float64
	for id, t := range totals {
		p, ok := byID[id]
		if !ok {
			continue
		}
		var value float64
		switch params.Metric {
		case ABCMetricProfit:
			value = t.revenue - t.quantity*p.CostPrice.InexactFloat64()
		case ABCMetricQuantity:
			value = t.quantity
		default:
			value = t.revenue
		}
		totalMetric += value
		entries = append(entries, domain.ABCEntry{
			ProductID:   p.ID,
			SKU:         p.SKU,
			Name:        p.Name,
			Category:    p.Category,
			MetricValue: value,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].MetricValue != entries[j].MetricValue {
			return entries[i].MetricValue > entries[j].MetricValue
		}
		return entries[i].ProductID < entries[j].ProductID
	})

	summary := map[string]domain.ABCClassSummary{}
	var cumulative float64
	for i := range entries {
		var pct float64
		if totalMetric > 0 {
			pct = entries[i].MetricValue / totalMetric * 100
		}
		cumulative += pct
		entries[i].PctOfTotal = pct
		entries[i].CumulativePct = cumulative

		switch {
		case cumulative <= 80:
			entries[i].Class = domain.ABCClassA
		case cumulative <= 95:
			entries[i].Class = domain.ABCClassB
		default:
			entries[i].Class = domain.ABCClassC
		}

		s := summary[entries[i].Class]
		s.Count++
		s.TotalValue += entries[i].MetricValue
		s.Pct += pct
		summary[entries[i].Class] = s
	}

	return &domain.ABCResult{
		Metric:  params.Metric,
		Entries: entries,
		Summary: summary,
	}, nil
}
