package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarques/stocklens/internal/domain"
	"github.com/rmarques/stocklens/internal/engine"
)

func suggestionParams() engine.SuggestionParams {
	return engine.SuggestionParams{
		ForecastDays:       30,
		HistoryDays:        30,
		SafetyBufferRatio:  0.2,
		UrgencyDays:        7,
		DelayThresholdDays: 7,
	}
}

func TestSuggestPurchaseOrders(t *testing.T) {
	e, repo := newTestEngine(t)

	repo.AddProducts(
		product(1, "Espresso Beans", 10, 12, 4),  // urgent and short
		product(2, "Filter Paper", 45, 8, 3),     // short but not urgent
		product(3, "Oat Milk", 30, 5, 2),         // covered by pending only
		product(4, "Sugar Sticks", 120, 4, 1),    // stock alone covers demand
		product(5, "Decaf Blend", 50, 10, 5),     // no demand
	)

	repo.AddSales(
		completedSale(1, 90, 12, daysAgo(5)),
		completedSale(2, 91, 8, daysAgo(8)),
		completedSale(3, 90, 5, daysAgo(4)),
		completedSale(4, 90, 4, daysAgo(6)),
	)

	repo.AddPurchaseOrders(
		pendingOrder(101, 10, "Beanline", daysAgo(2), orderItem(3, 100, 2)),
	)

	suggestions, err := e.SuggestPurchaseOrders(context.Background(), suggestionParams())
	require.NoError(t, err)
	require.Len(t, suggestions, 3)

	urgent := suggestions[0]
	assert.Equal(t, int64(1), urgent.ProductID)
	assert.Equal(t, domain.PriorityHigh, urgent.Priority)
	assert.InDelta(t, 3.0, urgent.AvgDailyDemand, 1e-9)
	assert.InDelta(t, 108.0, urgent.RequiredQuantity, 1e-9)
	assert.Equal(t, 98, urgent.SuggestedQuantity)
	assert.InDelta(t, 98*4.0, urgent.OrderValue, 1e-9)
	assert.False(t, urgent.IsSufficient)

	// Requirement lands on a fraction; the quantity always rounds up.
	short := suggestions[1]
	assert.Equal(t, int64(2), short.ProductID)
	assert.Equal(t, domain.PriorityMedium, short.Priority)
	assert.Equal(t, 65, short.SuggestedQuantity)

	// Pending coverage keeps the product visible at low priority with
	// nothing to order, so a cancelled delivery still surfaces later.
	covered := suggestions[2]
	assert.Equal(t, int64(3), covered.ProductID)
	assert.Equal(t, domain.PriorityLow, covered.Priority)
	assert.True(t, covered.IsSufficient)
	assert.Zero(t, covered.SuggestedQuantity)
	assert.Zero(t, covered.OrderValue)
}

func TestSuggestPurchaseOrders_OrderValueBreaksTies(t *testing.T) {
	e, repo := newTestEngine(t)

	// Both products are MEDIUM: short on stock but not urgent. The
	// bigger order goes first regardless of which depletes sooner.
	repo.AddProducts(
		product(1, "Paper Cups", 20, 2, 1),
		product(2, "Roastery Grinder", 18, 250, 100),
	)
	repo.AddSales(
		completedSale(1, 60, 2, daysAgo(10)),
		completedSale(2, 60, 250, daysAgo(12)),
	)

	suggestions, err := e.SuggestPurchaseOrders(context.Background(), suggestionParams())
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	assert.Equal(t, domain.PriorityMedium, suggestions[0].Priority)
	assert.Equal(t, domain.PriorityMedium, suggestions[1].Priority)
	assert.Equal(t, int64(2), suggestions[0].ProductID)
	assert.InDelta(t, 5400.0, suggestions[0].OrderValue, 1e-9)
	assert.Equal(t, int64(1), suggestions[1].ProductID)
	assert.InDelta(t, 52.0, suggestions[1].OrderValue, 1e-9)
	assert.Greater(t, suggestions[0].OrderValue, suggestions[1].OrderValue)
}

func TestSuggestPurchaseOrders_ZeroBufferMeansDefault(t *testing.T) {
	e, repo := newTestEngine(t)
	repo.AddProducts(product(1, "Espresso Beans", 10, 12, 4))
	repo.AddSales(completedSale(1, 90, 12, daysAgo(5)))

	params := suggestionParams()
	params.SafetyBufferRatio = 0

	suggestions, err := e.SuggestPurchaseOrders(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	// Forecast is 90; the default 20% buffer still applies.
	assert.InDelta(t, 108.0, suggestions[0].RequiredQuantity, 1e-9)
	assert.Equal(t, 98, suggestions[0].SuggestedQuantity)
}

func TestSuggestPurchaseOrders_InvalidBuffer(t *testing.T) {
	e, repo := newTestEngine(t)
	repo.AddProducts(product(1, "Espresso Beans", 10, 12, 4))

	params := suggestionParams()
	params.SafetyBufferRatio = -0.5
	_, err := e.SuggestPurchaseOrders(context.Background(), params)
	require.ErrorIs(t, err, engine.ErrInvalidParameter)
}

func TestGroupBySupplier(t *testing.T) {
	e, repo := newTestEngine(t)

	// Orders exist only to resolve each product's most recent supplier.
	repo.AddPurchaseOrders(
		receivedOrder(90, 20, "OldCo", daysAgo(40), daysAgo(35), orderItem(1, 50, 4)),
		pendingOrder(101, 10, "Beanline", daysAgo(2), orderItem(1, 30, 4)),
		receivedOrder(91, 10, "Beanline", daysAgo(30), daysAgo(25), orderItem(3, 60, 2)),
	)

	suggestions := []domain.SuggestionRecord{
		{ProductID: 1, SKU: "SKU-100", Name: "Espresso Beans", SuggestedQuantity: 98, UnitCost: 4, OrderValue: 392, Priority: domain.PriorityHigh},
		{ProductID: 2, SKU: "SKU-200", Name: "Filter Paper", SuggestedQuantity: 65, UnitCost: 3, OrderValue: 195, Priority: domain.PriorityMedium},
		{ProductID: 3, SKU: "SKU-300", Name: "Oat Milk", SuggestedQuantity: 0, UnitCost: 2, OrderValue: 0, Priority: domain.PriorityLow},
	}

	groups, err := e.GroupBySupplier(context.Background(), suggestions)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	beanline := groups[0]
	assert.Equal(t, int64(10), beanline.SupplierID)
	assert.Equal(t, "Beanline", beanline.SupplierName)
	assert.Equal(t, 2, beanline.ProductCount)
	assert.Equal(t, 1, beanline.HighPriorityItems)
	assert.InDelta(t, 392.0, beanline.TotalOrderValue, 1e-9)

	unassigned := groups[1]
	assert.Equal(t, int64(0), unassigned.SupplierID)
	assert.Equal(t, "Unassigned", unassigned.SupplierName)
	assert.Equal(t, 1, unassigned.ProductCount)
	assert.Zero(t, unassigned.HighPriorityItems)
}

func TestGroupBySupplier_NoSuggestions(t *testing.T) {
	e, _ := newTestEngine(t)
	groups, err := e.GroupBySupplier(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
