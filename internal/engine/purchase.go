package engine

import (
	"context"
	"math"
	"sort"

	"github.com/rmarques/stocklens/internal/domain"
)

// SuggestPurchaseOrders recommends an order quantity per product:
// forecast demand plus a safety buffer, net of current stock and pending
// replenishment. Products whose on-hand stock already covers the
// requirement are skipped; products covered only by pending orders stay
// in the list at low priority so a cancelled delivery is not invisible.
func (e *Engine) SuggestPurchaseOrders(ctx context.Context, params SuggestionParams) ([]domain.SuggestionRecord, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	products, err := e.activeProducts(ctx, domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	sortProducts(products)

	from := e.now().AddDate(0, 0, -params.HistoryDays)
	sales, err := e.salesSince(ctx, from)
	if err != nil {
		return nil, err
	}
	demand := aggregateDemand(sales)

	orders, err := e.pendingOrders(ctx, 0)
	if err != nil {
		return nil, err
	}
	pending := e.aggregatePending(orders, params.DelayThresholdDays)

	suggestions := make([]domain.SuggestionRecord, 0)
	for _, p := range products {
		stats := demand[p.ID]
		avgDaily := stats.Quantity / float64(params.HistoryDays)
		if avgDaily == 0 {
			continue
		}

		stock := p.AvailableStock()
		forecast := avgDaily * float64(params.ForecastDays)
		required := forecast * (1 + params.SafetyBufferRatio)
		// Stock alone covers the requirement: nothing to suggest and
		// nothing to watch.
		if stock >= required {
			continue
		}

		agg := pending[p.ID]
		available := stock + agg.PendingQuantity
		sufficient := available >= required
		suggested := int(math.Ceil(math.Max(0, required-available)))

		daysUntil := stock / avgDaily
		priority := domain.PriorityMedium
		switch {
		case daysUntil <= float64(params.UrgencyDays) && !sufficient:
			priority = domain.PriorityHigh
		case sufficient:
			priority = domain.PriorityLow
		}

		unitCost := p.CostPrice.InexactFloat64()
		suggestions = append(suggestions, domain.SuggestionRecord{
			ProductID:         p.ID,
			SKU:               p.SKU,
			Name:              p.Name,
			Category:          p.Category,
			CurrentStock:      p.CurrentStock,
			AvgDailyDemand:    avgDaily,
			ForecastedDemand:  forecast,
			RequiredQuantity:  required,
			DaysUntilStockout: daysUntil,
			Pending:           agg,
			IsSufficient:      sufficient,
			SuggestedQuantity: suggested,
			UnitCost:          unitCost,
			OrderValue:        float64(suggested) * unitCost,
			Priority:          priority,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		pi, pj := suggestions[i].Priority.Rank(), suggestions[j].Priority.Rank()
		if pi != pj {
			return pi < pj
		}
		if suggestions[i].OrderValue != suggestions[j].OrderValue {
			return suggestions[i].OrderValue > suggestions[j].OrderValue
		}
		return suggestions[i].ProductID < suggestions[j].ProductID
	})
	return suggestions, nil
}

// GroupBySupplier partitions suggestions by each product's most recent
// supplier so one consolidated order can go out per supplier. It is a
// pure reshaping of its input: no demand is recomputed. Suggestions for
// products that were never purchased land in an "unassigned" group with
// supplier id 0.
func (e *Engine) GroupBySupplier(ctx context.Context, suggestions []domain.SuggestionRecord) ([]domain.SupplierGroup, error) {
	ids := make([]int64, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.ProductID)
	}
	suppliers, err := e.repo.LatestSuppliers(ctx, ids)
	if err != nil {
		return nil, dataUnavailable("resolve suppliers", err)
	}

	groups := make(map[int64]*domain.SupplierGroup)
	for _, s := range suggestions {
		ref, ok := suppliers[s.ProductID]
		if !ok {
			ref = domain.SupplierRef{ID: 0, Name: "Unassigned"}
		}
		g, ok := groups[ref.ID]
		if !ok {
			g = &domain.SupplierGroup{SupplierID: ref.ID, SupplierName: ref.Name}
			groups[ref.ID] = g
		}
		g.Items = append(g.Items, domain.SupplierGroupItem{
			ProductID:  s.ProductID,
			SKU:        s.SKU,
			Name:       s.Name,
			Quantity:   s.SuggestedQuantity,
			UnitCost:   s.UnitCost,
			OrderValue: s.OrderValue,
			Priority:   s.Priority,
		})
		g.ProductCount++
		g.TotalOrderValue += s.OrderValue
		if s.Priority == domain.PriorityHigh {
			g.HighPriorityItems++
		}
	}

	out := make([]domain.SupplierGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HighPriorityItems != out[j].HighPriorityItems {
			return out[i].HighPriorityItems > out[j].HighPriorityItems
		}
		if out[i].TotalOrderValue != out[j].TotalOrderValue {
			return out[i].TotalOrderValue > out[j].TotalOrderValue
		}
		return out[i].SupplierID < out[j].SupplierID
	})
	return out, nil
}
