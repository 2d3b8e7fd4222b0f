package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarques/stocklens/internal/domain"
	"github.com/rmarques/stocklens/internal/engine"
)

func riskParams() engine.RiskParams {
	return engine.RiskParams{
		ForecastDays:       30,
		HistoryDays:        30,
		MinDaysThreshold:   7,
		DelayThresholdDays: 7,
	}
}

func TestDetectImminentRisk_Ladder(t *testing.T) {
	e, repo := newTestEngine(t)

	repo.AddProducts(
		product(1, "Espresso Beans", 15, 12, 6),   // no pending, depletes in 3 days
		product(2, "Filter Paper", 20, 8, 3),      // delayed pending, still short
		product(3, "Oat Milk", 6, 5, 2),           // delayed pending that covers demand
		product(4, "Sugar Sticks", 25, 4, 1),      // fresh pending that covers demand
		product(5, "Paper Cups", 20, 6, 2),        // fresh pending, still short
		product(6, "Decaf Blend", 50, 10, 5),      // no demand at all
		product(7, "Loose Leaf Tea", 400, 9, 4),   // depletion far beyond the horizon
		product(8, "Chai Syrup", 0, 7, 3),         // already out of stock
	)
	inactive := product(9, "Retired Grinder", 5, 99, 50)
	inactive.IsActive = false
	repo.AddProducts(inactive)

	repo.AddSales(
		completedSale(1, 150, 12, daysAgo(5)),
		cancelledSale(1, 999, daysAgo(4)),
		completedSale(2, 120, 8, daysAgo(10)),
		completedSale(3, 60, 5, daysAgo(8)),
		completedSale(4, 150, 4, daysAgo(6)),
		completedSale(5, 120, 6, daysAgo(9)),
		completedSale(7, 30, 9, daysAgo(4)),
		completedSale(8, 60, 7, daysAgo(3)),
		completedSale(9, 60, 99, daysAgo(3)),
	)

	repo.AddPurchaseOrders(
		pendingOrder(101, 10, "Beanline", daysAgo(12), orderItem(2, 30, 3)),
		pendingOrder(102, 10, "Beanline", daysAgo(10), orderItem(3, 60, 2)),
		pendingOrder(103, 11, "PackCo", daysAgo(2), orderItem(4, 200, 1)),
		pendingOrder(104, 11, "PackCo", daysAgo(3), orderItem(5, 50, 2)),
	)

	records, err := e.DetectImminentRisk(context.Background(), riskParams())
	require.NoError(t, err)
	require.Len(t, records, 5)

	// Most severe first, ties broken by depletion horizon then product id.
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ProductID)
	}
	assert.Equal(t, []int64{1, 3, 2, 5, 4}, ids)

	byID := make(map[int64]domain.RiskRecord, len(records))
	for _, r := range records {
		byID[r.ProductID] = r
	}

	critical := byID[1]
	assert.Equal(t, domain.RiskCritical, critical.RiskLevel)
	assert.InDelta(t, 5.0, critical.AvgDailyDemand, 1e-9)
	assert.InDelta(t, 3.0, critical.DaysUntilStockout, 1e-9)
	assert.InDelta(t, 150.0, critical.ForecastedDemand, 1e-9)
	assert.False(t, critical.IsSufficient)
	assert.InDelta(t, 135.0, critical.GapQuantity, 1e-9)
	assert.InDelta(t, 135.0*12, critical.PotentialLostRevenue, 1e-6)
	assert.Contains(t, critical.Recommendation, "No pending orders")

	delayedShort := byID[2]
	assert.Equal(t, domain.RiskHigh, delayedShort.RiskLevel)
	assert.True(t, delayedShort.Pending.IsDelayed)
	assert.False(t, delayedShort.IsSufficient)
	assert.InDelta(t, 70.0, delayedShort.GapQuantity, 1e-9)
	assert.Contains(t, delayedShort.Recommendation, "Order 70 more units")

	// Coverage exists but the order is late and depletion is inside the
	// critical horizon: delay escalates, it never demotes.
	delayedCovered := byID[3]
	assert.Equal(t, domain.RiskHigh, delayedCovered.RiskLevel)
	assert.True(t, delayedCovered.IsSufficient)
	assert.InDelta(t, 0.0, delayedCovered.GapQuantity, 1e-9)
	assert.Zero(t, delayedCovered.PotentialLostRevenue)
	assert.Contains(t, delayedCovered.Recommendation, "Follow up with the supplier")

	short := byID[5]
	assert.Equal(t, domain.RiskMedium, short.RiskLevel)
	assert.False(t, short.Pending.IsDelayed)
	assert.InDelta(t, 50.0, short.GapQuantity, 1e-9)

	covered := byID[4]
	assert.Equal(t, domain.RiskLow, covered.RiskLevel)
	assert.True(t, covered.IsSufficient)
	assert.InDelta(t, 0.0, covered.GapQuantity, 1e-9)
	assert.Equal(t, "Pending orders cover the forecast. Monitor until delivery.", covered.Recommendation)
}

func TestDetectImminentRisk_InsufficientPendingStaysCritical(t *testing.T) {
	e, repo := newTestEngine(t)

	// A fresh order exists but covers only a third of the forecast;
	// its existence must not soften the depletion verdict.
	repo.AddProducts(product(1, "Espresso Beans", 10, 12, 6))
	repo.AddSales(completedSale(1, 150, 12, daysAgo(5)))
	repo.AddPurchaseOrders(pendingOrder(101, 10, "Beanline", daysAgo(2), orderItem(1, 50, 6)))

	records, err := e.DetectImminentRisk(context.Background(), riskParams())
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.InDelta(t, 2.0, r.DaysUntilStockout, 1e-9)
	assert.InDelta(t, 50.0, r.Pending.PendingQuantity, 1e-9)
	assert.False(t, r.Pending.IsDelayed)
	assert.False(t, r.IsSufficient)
	assert.InDelta(t, 90.0, r.GapQuantity, 1e-9)
	assert.Equal(t, domain.RiskCritical, r.RiskLevel)
}

func TestDetectImminentRisk_GapGrowsWithForecastHorizon(t *testing.T) {
	e, repo := newTestEngine(t)

	repo.AddProducts(product(1, "Espresso Beans", 9, 12, 6))
	repo.AddSales(completedSale(1, 90, 12, daysAgo(5)))
	repo.AddPurchaseOrders(pendingOrder(101, 10, "Beanline", daysAgo(2), orderItem(1, 30, 6)))

	prev := -1.0
	for _, forecastDays := range []int{5, 10, 13, 30, 60, 120} {
		params := riskParams()
		params.ForecastDays = forecastDays

		records, err := e.DetectImminentRisk(context.Background(), params)
		require.NoError(t, err)
		require.Len(t, records, 1)

		gap := records[0].GapQuantity
		assert.GreaterOrEqual(t, gap, prev, "forecast_days=%d", forecastDays)
		prev = gap
	}
}

func TestDetectImminentRisk_GapNeverNegative(t *testing.T) {
	e, repo := newTestEngine(t)
	repo.AddProducts(product(1, "Sugar Sticks", 25, 4, 1))
	repo.AddSales(completedSale(1, 150, 4, daysAgo(6)))
	repo.AddPurchaseOrders(pendingOrder(101, 11, "PackCo", daysAgo(2), orderItem(1, 500, 1)))

	records, err := e.DetectImminentRisk(context.Background(), riskParams())
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.True(t, r.IsSufficient)
	assert.GreaterOrEqual(t, r.GapQuantity, 0.0)
	assert.Zero(t, r.PotentialLostRevenue)
}

func TestDetectImminentRisk_Deterministic(t *testing.T) {
	e, repo := newTestEngine(t)
	repo.AddProducts(
		product(1, "Espresso Beans", 15, 12, 6),
		product(2, "Filter Paper", 20, 8, 3),
	)
	repo.AddSales(
		completedSale(1, 150, 12, daysAgo(5)),
		completedSale(2, 120, 8, daysAgo(10)),
	)

	first, err := e.DetectImminentRisk(context.Background(), riskParams())
	require.NoError(t, err)
	second, err := e.DetectImminentRisk(context.Background(), riskParams())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDetectImminentRisk_InvalidParams(t *testing.T) {
	e, repo := newTestEngine(t)
	repo.AddProducts(product(1, "Espresso Beans", 15, 12, 6))

	params := riskParams()
	params.HistoryDays = -1
	_, err := e.DetectImminentRisk(context.Background(), params)
	require.ErrorIs(t, err, engine.ErrInvalidParameter)
}

func TestDetectImminentRisk_EmptyCatalog(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.DetectImminentRisk(context.Background(), riskParams())
	require.ErrorIs(t, err, engine.ErrDataUnavailable)
}
