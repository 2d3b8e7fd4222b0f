package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarques/stocklens/internal/domain"
	"github.com/rmarques/stocklens/internal/engine"
)

func TestBuildDashboard(t *testing.T) {
	e, repo := newTestEngine(t)

	repo.AddProducts(
		product(1, "Espresso Beans", 0, 12, 6), // ran out three days ago
		product(2, "Ceramic Mugs", 100, 15, 2), // never sold
	)
	repo.AddSales(completedSale(1, 20, 12, daysAgo(3)))
	repo.AddMovements(
		movement(1, domain.MovementPurchase, 20, 20, daysAgo(10)),
		movement(1, domain.MovementSale, -20, 0, daysAgo(3)),
	)

	dash, err := e.BuildDashboard(context.Background(), engine.DashboardParams{})
	require.NoError(t, err)

	assert.Equal(t, testNow, dash.GeneratedAt)

	// One critical rupture and one dead-stock warning; the purchase
	// roll-up is informational and costs nothing.
	require.Len(t, dash.Alerts, 3)
	assert.Equal(t, domain.AlertStockRupture, dash.Alerts[0].Type)
	assert.Equal(t, domain.SeverityCritical, dash.Alerts[0].Severity)
	assert.Equal(t, int64(1), dash.Alerts[0].ProductID)
	assert.Equal(t, domain.AlertSlowMoving, dash.Alerts[1].Type)
	assert.Equal(t, domain.SeverityWarning, dash.Alerts[1].Severity)
	assert.Equal(t, int64(2), dash.Alerts[1].ProductID)
	assert.Equal(t, domain.AlertPurchaseNeeded, dash.Alerts[2].Type)
	assert.Equal(t, domain.SeverityInfo, dash.Alerts[2].Severity)

	assert.Equal(t, 80, dash.HealthScore)
	assert.Equal(t, domain.HealthExcellent, dash.HealthStatus)

	assert.Equal(t, 2, dash.Summary.TotalProducts)
	assert.Equal(t, 1, dash.Summary.ProductsWithStock)
	assert.Equal(t, 2, dash.Summary.AlertCount)
	assert.InDelta(t, 200.0, dash.Summary.TotalStockValue, 1e-9)

	assert.Equal(t, 1, dash.Metrics.ProductsOutOfStock)
	assert.InDelta(t, 240.0, dash.Metrics.SalesLast30Days, 1e-9)
	assert.Equal(t, 1, dash.Metrics.StockoutCount)
	assert.Equal(t, 1, dash.Metrics.SlowMovingCount)
	assert.Equal(t, 1, dash.Metrics.SuggestionCount)
}

func TestBuildDashboard_LowStockAndRecordedLosses(t *testing.T) {
	e, repo := newTestEngine(t)

	// Selling a unit a day with three days of cover left.
	repo.AddProducts(product(1, "Espresso Beans", 3, 12, 6))
	repo.AddSales(
		completedSale(1, 7, 12, daysAgo(2)),
	)
	repo.AddMovements(
		movement(1, domain.MovementPurchase, 10, 10, daysAgo(20)),
		movement(1, domain.MovementLoss, -7, 3, daysAgo(4)),
	)

	dash, err := e.BuildDashboard(context.Background(), engine.DashboardParams{})
	require.NoError(t, err)

	var types []string
	for _, a := range dash.Alerts {
		types = append(types, a.Type)
	}
	assert.Contains(t, types, domain.AlertLowStockDemand)
	assert.Contains(t, types, domain.AlertRecordedLosses)
}

func TestBuildDashboard_TopAlertsCapsRuptures(t *testing.T) {
	e, repo := newTestEngine(t)

	repo.AddProducts(
		product(1, "Espresso Beans", 0, 12, 6),
		product(2, "Paper Cups", 0, 3, 1),
	)
	repo.AddSales(
		completedSale(1, 30, 12, daysAgo(2)),
		completedSale(2, 10, 3, daysAgo(4)),
	)

	dash, err := e.BuildDashboard(context.Background(), engine.DashboardParams{TopAlerts: 1})
	require.NoError(t, err)

	var ruptures int
	for _, a := range dash.Alerts {
		if a.Type == domain.AlertStockRupture {
			ruptures++
		}
	}
	assert.Equal(t, 1, ruptures)
	// The cap trims the alert list, not the underlying metric.
	assert.Equal(t, 2, dash.Metrics.StockoutCount)
}

func TestBuildDashboard_HealthFloorsAtZero(t *testing.T) {
	e, repo := newTestEngine(t)

	for id := int64(1); id <= 10; id++ {
		repo.AddProducts(product(id, "Product", 0, 10, 5))
		repo.AddSales(completedSale(id, 10, 10, daysAgo(2)))
	}

	dash, err := e.BuildDashboard(context.Background(), engine.DashboardParams{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, dash.HealthScore, 0)
	assert.Equal(t, domain.HealthPoor, dash.HealthStatus)
}

func TestBuildDashboard_InvalidParams(t *testing.T) {
	e, repo := newTestEngine(t)
	repo.AddProducts(product(1, "Espresso Beans", 10, 12, 6))

	_, err := e.BuildDashboard(context.Background(), engine.DashboardParams{TopAlerts: -1})
	require.ErrorIs(t, err, engine.ErrInvalidParameter)
}
