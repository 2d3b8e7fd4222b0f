package engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rmarques/stocklens/internal/domain"
)

// Health score deductions per alert severity.
const (
	criticalDeduction = 15
	warningDeduction  = 5
)

// BuildDashboard runs every detector, merges their findings into one
// ordered alert list and condenses the state of the catalog into a
// single 0-100 health score. The underlying analyses are independent
// reads, so they fan out concurrently.
func (e *Engine) BuildDashboard(ctx context.Context, params DashboardParams) (*domain.Dashboard, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	var (
		risks       []domain.RiskRecord
		ruptures    []domain.StockoutRecord
		slowMoving  []domain.SlowMovingRecord
		losses      []domain.LossRecord
		suggestions []domain.SuggestionRecord
		products    []domain.Product
		weekSales   []domain.SaleRecord
		monthSales  []domain.SaleRecord
		movements   []domain.StockMovement
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		risks, err = e.DetectImminentRisk(gctx, RiskParams{
			ForecastDays:       params.ForecastDays,
			HistoryDays:        params.HistoryDays,
			MinDaysThreshold:   params.MinDaysThreshold,
			DelayThresholdDays: params.DelayThresholdDays,
		})
		return err
	})
	g.Go(func() (err error) {
		ruptures, err = e.DetectStockouts(gctx, StockoutParams{LookbackDays: params.LookbackDays})
		return err
	})
	g.Go(func() (err error) {
		slowMoving, err = e.AnalyzeSlowMovingStock(gctx, SlowMovingParams{ThresholdDays: params.SlowMovingDays})
		return err
	})
	g.Go(func() (err error) {
		losses, err = e.DetectStockLosses(gctx, LossParams{TolerancePct: params.LossTolerancePct})
		return err
	})
	g.Go(func() (err error) {
		suggestions, err = e.SuggestPurchaseOrders(gctx, SuggestionParams{
			ForecastDays:       params.ForecastDays,
			HistoryDays:        params.HistoryDays,
			SafetyBufferRatio:  params.SafetyBufferRatio,
			DelayThresholdDays: params.DelayThresholdDays,
		})
		return err
	})
	g.Go(func() (err error) {
		products, err = e.activeProducts(gctx, domain.ProductFilter{ActiveOnly: true})
		return err
	})
	g.Go(func() (err error) {
		weekSales, err = e.salesSince(gctx, e.now().AddDate(0, 0, -7))
		return err
	})
	g.Go(func() (err error) {
		monthSales, err = e.salesSince(gctx, e.now().AddDate(0, 0, -30))
		return err
	})
	g.Go(func() (err error) {
		movements, err = e.repo.FetchStockMovements(gctx, 0)
		if err != nil {
			return dataUnavailable("fetch stock movements", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Product, len(products))
	var withStock int
	var stockValue float64
	for _, p := range products {
		byID[p.ID] = p
		if p.CurrentStock > 0 {
			withStock++
		}
		stockValue += p.AvailableStock() * p.CostPrice.InexactFloat64()
	}

	alerts := e.collectAlerts(params, risks, ruptures, slowMoving, losses, suggestions, weekSales, movements, byID)

	score := 100
	var criticalCount, warningCount int
	for _, a := range alerts {
		switch a.Severity {
		case domain.SeverityCritical:
			criticalCount++
		case domain.SeverityWarning:
			warningCount++
		}
	}
	score -= criticalCount * criticalDeduction
	score -= warningCount * warningDeduction
	if score < 0 {
		score = 0
	}

	var monthRevenue float64
	for _, s := range monthSales {
		if s.Completed() {
			monthRevenue += s.Quantity * s.UnitPrice.InexactFloat64()
		}
	}

	return &domain.Dashboard{
		GeneratedAt:  e.now(),
		HealthScore:  score,
		HealthStatus: domain.HealthStatusFor(score),
		Summary: domain.DashboardSummary{
			TotalProducts:     len(products),
			ProductsWithStock: withStock,
			TotalStockValue:   stockValue,
			AlertCount:        criticalCount + warningCount,
		},
		Alerts: alerts,
		Metrics: domain.DashboardMetrics{
			TotalProducts:      len(products),
			ProductsWithStock:  withStock,
			ProductsOutOfStock: len(products) - withStock,
			TotalStockValue:    stockValue,
			SalesLast30Days:    monthRevenue,
			StockoutCount:      len(ruptures),
			SlowMovingCount:    len(slowMoving),
			SuggestionCount:    len(suggestions),
		},
	}, nil
}

// collectAlerts assembles the ordered alert list: preventive risks first,
// then reactive ruptures, dead stock, ledger discrepancies, low-stock
// warnings, recorded losses and finally the purchase roll-up.
func (e *Engine) collectAlerts(
	params DashboardParams,
	risks []domain.RiskRecord,
	ruptures []domain.StockoutRecord,
	slowMoving []domain.SlowMovingRecord,
	losses []domain.LossRecord,
	suggestions []domain.SuggestionRecord,
	weekSales []domain.SaleRecord,
	movements []domain.StockMovement,
	byID map[int64]domain.Product,
) []domain.Alert {
	alerts := make([]domain.Alert, 0)

	var included int
	for _, r := range risks {
		if r.RiskLevel != domain.RiskCritical && r.RiskLevel != domain.RiskHigh {
			continue
		}
		if included == params.TopAlerts {
			break
		}
		included++
		coverage := "Insufficient"
		if r.IsSufficient {
			coverage = "Sufficient"
		}
		alerts = append(alerts, domain.Alert{
			Type:        domain.AlertImminentStockout,
			Severity:    domain.SeverityCritical,
			RiskLevel:   r.RiskLevel,
			ProductID:   r.ProductID,
			ProductName: r.Name,
			Message:     fmt.Sprintf("%s will run out in %.1f days", r.Name, r.DaysUntilStockout),
			Detail:      fmt.Sprintf("Pending orders: %s. Gap: %.0f units", coverage, r.GapQuantity),
			Action:      r.Recommendation,
		})
	}

	for i, r := range ruptures {
		if i == params.TopAlerts {
			break
		}
		alerts = append(alerts, domain.Alert{
			Type:        domain.AlertStockRupture,
			Severity:    domain.SeverityCritical,
			RiskLevel:   domain.RiskCritical,
			ProductID:   r.ProductID,
			ProductName: r.Name,
			Message:     fmt.Sprintf("%s is out of stock with recent demand (%d sales)", r.Name, r.SalesCount),
			Detail:      fmt.Sprintf("Estimated lost revenue: %.2f", r.LostRevenue),
			Action:      "Purchase immediately to avoid further losses",
		})
	}

	var urgentSlow int
	for _, s := range slowMoving {
		if !strings.HasPrefix(s.Recommendation, "URGENT") {
			continue
		}
		if urgentSlow == 3 {
			break
		}
		urgentSlow++
		alerts = append(alerts, domain.Alert{
			Type:        domain.AlertSlowMoving,
			Severity:    domain.SeverityWarning,
			RiskLevel:   domain.RiskHigh,
			ProductID:   s.ProductID,
			ProductName: s.Name,
			Message:     fmt.Sprintf("%s has not sold for %d days", s.Name, s.DaysWithoutSale),
			Detail:      fmt.Sprintf("Capital tied up: %.2f", s.StockValue),
			Action:      "Apply a discount or promotion, or return stock to the supplier",
		})
	}

	for i, l := range losses {
		if i == 3 {
			break
		}
		alerts = append(alerts, domain.Alert{
			Type:        domain.AlertStockLoss,
			Severity:    domain.SeverityCritical,
			RiskLevel:   l.Severity,
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Message:     fmt.Sprintf("%s shows a stock discrepancy of %.1f%%", l.Name, l.DiscrepancyPct),
			Detail:      fmt.Sprintf("Estimated loss value: %.2f", l.EstimatedLossValue),
			Action:      l.Recommendation,
		})
	}

	alerts = append(alerts, e.lowStockAlerts(weekSales, byID)...)

	if lossCount, lossValue := e.recordedLosses(movements, byID); lossCount > 0 {
		alerts = append(alerts, domain.Alert{
			Type:     domain.AlertRecordedLosses,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("%d loss events recorded in the last 30 days", lossCount),
			Detail:   fmt.Sprintf("Total value lost: %.2f", lossValue),
			Action:   "Review security and handling procedures",
		})
	}

	var urgent int
	var urgentValue float64
	for _, s := range suggestions {
		if s.Priority == domain.PriorityHigh {
			urgent++
			urgentValue += s.OrderValue
		}
	}
	if urgent > 0 {
		alerts = append(alerts, domain.Alert{
			Type:     domain.AlertPurchaseNeeded,
			Severity: domain.SeverityInfo,
			Message:  fmt.Sprintf("%d products need urgent replenishment", urgent),
			Detail:   fmt.Sprintf("Total order value: %.2f", urgentValue),
			Action:   "Review and create purchase orders",
		})
	}

	return alerts
}

// lowStockAlerts flags in-stock products holding less than a week of
// coverage against last week's velocity.
func (e *Engine) lowStockAlerts(weekSales []domain.SaleRecord, byID map[int64]domain.Product) []domain.Alert {
	demand := aggregateDemand(weekSales)

	ids := make([]int64, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sortIDs(ids)

	alerts := make([]domain.Alert, 0)
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || p.CurrentStock <= 0 {
			continue
		}
		daily := demand[id].Quantity / 7
		if daily == 0 {
			continue
		}
		daysOfStock := p.CurrentStock / daily
		if daysOfStock >= 7 {
			continue
		}
		alerts = append(alerts, domain.Alert{
			Type:        domain.AlertLowStockDemand,
			Severity:    domain.SeverityWarning,
			RiskLevel:   domain.RiskMedium,
			ProductID:   p.ID,
			ProductName: p.Name,
			Message:     fmt.Sprintf("%s is low on stock for its demand", p.Name),
			Detail:      fmt.Sprintf("Only %.1f days of stock remaining (current: %.0f units)", daysOfStock, p.CurrentStock),
			Action:      "Replenish stock urgently",
		})
	}
	return alerts
}

// recordedLosses totals explicit LOSS movements in the last 30 days,
// valued at catalog cost.
func (e *Engine) recordedLosses(movements []domain.StockMovement, byID map[int64]domain.Product) (int, float64) {
	cutoff := e.now().AddDate(0, 0, -30)
	var count int
	var value float64
	for _, m := range movements {
		if m.Type != domain.MovementLoss || m.OccurredAt.Before(cutoff) {
			continue
		}
		count++
		qty := m.Quantity
		if qty < 0 {
			qty = -qty
		}
		if p, ok := byID[m.ProductID]; ok {
			value += qty * p.CostPrice.InexactFloat64()
		}
	}
	return count, value
}
