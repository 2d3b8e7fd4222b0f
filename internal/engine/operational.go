package engine

import (
	"context"
	"sort"
	"time"

	"github.com/rmarques/stocklens/internal/domain"
)

// DetectOperationalIssues finds in-stock products whose sales collapsed
// against their own history. Stock exists and demand existed, so the
// product is likely stuck in the depot or missing from the shelf rather
// than out of favor. Recently discontinued products are ruled out by
// requiring a delivery within the last 30 days.
func (e *Engine) DetectOperationalIssues(ctx context.Context, params OperationalParams) ([]domain.OperationalIssueRecord, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	products, err := e.activeProducts(ctx, domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	sortProducts(products)

	now := e.now()
	recentStart := now.AddDate(0, 0, -params.RecentDays)
	historicalStart := recentStart.AddDate(0, 0, -params.HistoricalDays)

	sales, err := e.salesSince(ctx, historicalStart)
	if err != nil {
		return nil, err
	}

	historicalQty := make(map[int64]float64)
	recentQty := make(map[int64]float64)
	for _, s := range sales {
		if !s.Completed() {
			continue
		}
		if s.SoldAt.Before(recentStart) {
			historicalQty[s.ProductID] += s.Quantity
		} else {
			recentQty[s.ProductID] += s.Quantity
		}
	}

	lastReceived, err := e.lastReceiptDates(ctx)
	if err != nil {
		return nil, err
	}

	issues := make([]domain.OperationalIssueRecord, 0)
	for _, p := range products {
		if p.CurrentStock <= 0 {
			continue
		}
		historicalDaily := historicalQty[p.ID] / float64(params.HistoricalDays)
		// Too little history to tell a collapse from noise.
		if historicalDaily < 0.5 {
			continue
		}

		recentDaily := recentQty[p.ID] / float64(params.RecentDays)
		dropPct := (historicalDaily - recentDaily) / historicalDaily * 100
		if dropPct < params.DropThresholdPct {
			continue
		}

		receivedAt, ok := lastReceived[p.ID]
		if !ok || daysBetween(receivedAt, now) > 30 {
			continue
		}

		expected := historicalDaily * float64(params.RecentDays)
		actual := recentQty[p.ID]
		lost := expected - actual
		severity := classifyRisk(analysisOperational, riskSignals{dropPct: dropPct})

		at := receivedAt
		issues = append(issues, domain.OperationalIssueRecord{
			ProductID:            p.ID,
			SKU:                  p.SKU,
			Name:                 p.Name,
			Category:             p.Category,
			CurrentStock:         p.CurrentStock,
			HistoricalDailySales: historicalDaily,
			RecentDailySales:     recentDaily,
			DropPct:              dropPct,
			ExpectedRecentSales:  expected,
			ActualRecentSales:    actual,
			LostSales:            lost,
			LastReceivedAt:       &at,
			PotentialLostRevenue: lost * p.SalePrice.InexactFloat64(),
			Severity:             severity,
			Recommendation:       operationalRecommendation(severity),
		})
	}

	sort.Slice(issues, func(i, j int) bool {
		ri, rj := issues[i].Severity.Rank(), issues[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		if issues[i].DropPct != issues[j].DropPct {
			return issues[i].DropPct > issues[j].DropPct
		}
		return issues[i].ProductID < issues[j].ProductID
	})
	return issues, nil
}

// lastReceiptDates resolves the most recent received delivery per product.
func (e *Engine) lastReceiptDates(ctx context.Context) (map[int64]time.Time, error) {
	orders, err := e.repo.FetchPurchaseOrders(ctx, domain.POStatusReceived, 0)
	if err != nil {
		return nil, dataUnavailable("fetch received purchase orders", err)
	}
	out := make(map[int64]time.Time)
	for _, order := range orders {
		if order.ReceivedDate == nil {
			continue
		}
		received := *order.ReceivedDate
		for _, item := range order.Items {
			if received.After(out[item.ProductID]) {
				out[item.ProductID] = received
			}
		}
	}
	return out, nil
}

func operationalRecommendation(severity domain.RiskLevel) string {
	switch severity {
	case domain.RiskCritical:
		return "URGENT: check shelf and online availability. Stock is likely stuck in the depot."
	case domain.RiskHigh:
		return "IMPORTANT: verify product visibility and accessibility to customers."
	default:
		return "MONITOR: sales well below normal. Check merchandising and display."
	}
}
