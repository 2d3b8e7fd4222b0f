package engine

import (
	"context"
	"sort"

	"github.com/rmarques/stocklens/internal/domain"
)

// AnalyzePurchaseToSaleTime measures how long products sit in inventory
// between a received delivery and the first completed sale after it.
// Slowest movers first.
func (e *Engine) AnalyzePurchaseToSaleTime(ctx context.Context, params TurnoverParams) ([]domain.TurnoverRecord, error) {
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
	orders, err := e.repo.FetchPurchaseOrders(ctx, domain.POStatusReceived, 0)
	if err != nil {
		return nil, dataUnavailable("fetch received purchase orders", err)
	}

	sales, err := e.salesSince(ctx, from)
	if err != nil {
		return nil, err
	}

	// Sale dates per product, ascending, so a binary-search style scan
	// can find the first sale after each delivery.
	saleDates := make(map[int64][]int64)
	for _, s := range sales {
		if s.Completed() {
			saleDates[s.ProductID] = append(saleDates[s.ProductID], s.SoldAt.Unix())
		}
	}
	for id := range saleDates {
		sort.Slice(saleDates[id], func(i, j int) bool { return saleDates[id][i] < saleDates[id][j] })
	}

	type productStats struct {
		purchases int
		days      []float64
		unsold    int
	}
	stats := make(map[int64]*productStats)
	for _, order := range orders {
		if order.ReceivedDate == nil || order.OrderDate.Before(from) {
			continue
		}
		received := order.ReceivedDate.Unix()
		for _, item := range order.Items {
			st, ok := stats[item.ProductID]
			if !ok {
				st = &productStats{}
				stats[item.ProductID] = st
			}
			st.purchases++

			dates := saleDates[item.ProductID]
			idx := sort.Search(len(dates), func(i int) bool { return dates[i] >= received })
			if idx == len(dates) {
				st.unsold++
				continue
			}
			st.days = append(st.days, float64(dates[idx]-received)/86400)
		}
	}

	records := make([]domain.TurnoverRecord, 0, len(stats))
	for id, st := range stats {
		p, ok := byID[id]
		if !ok || len(st.days) == 0 {
			continue
		}

		var sum float64
		minDays, maxDays := st.days[0], st.days[0]
		for _, d := range st.days {
			sum += d
			if d < minDays {
				minDays = d
			}
			if d > maxDays {
				maxDays = d
			}
		}
		avg := sum / float64(len(st.days))

		rating, recommendation := turnoverRating(avg)
		records = append(records, domain.TurnoverRecord{
			ProductID:      p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			Category:       p.Category,
			PurchaseCount:  st.purchases,
			AvgDaysToSale:  avg,
			MinDaysToSale:  minDays,
			MaxDaysToSale:  maxDays,
			UnsoldCount:    st.unsold,
			CurrentStock:   p.CurrentStock,
			Rating:         rating,
			Recommendation: recommendation,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].AvgDaysToSale != records[j].AvgDaysToSale {
			return records[i].AvgDaysToSale > records[j].AvgDaysToSale
		}
		return records[i].ProductID < records[j].ProductID
	})
	return records, nil
}

func turnoverRating(avgDays float64) (string, string) {
	switch {
	case avgDays <= 7:
		return domain.TurnoverFast, "Excellent turnover. Maintain current inventory levels."
	case avgDays <= 21:
		return domain.TurnoverMedium, "Good turnover. Monitor for optimization opportunities."
	default:
		return domain.TurnoverSlow, "Slow turnover. Consider reducing order quantities or frequency."
	}
}
