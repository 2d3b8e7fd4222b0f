package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarques/stocklens/internal/engine"
)

func TestAnalyzeProfitability(t *testing.T) {
	e, repo := newTestEngine(t)

	repo.AddProducts(
		product(1, "Espresso Beans", 30, 10, 5),   // 50% margin
		product(2, "Filter Paper", 45, 10, 7),     // 30% margin
		product(3, "Oat Milk", 20, 10, 8.5),       // 15% margin
		product(4, "Paper Cups", 60, 10, 9.8),     // 2% margin
		product(5, "Decaf Blend", 50, 10, 5),      // nothing sold
	)

	repo.AddSales(
		completedSale(1, 10, 10, daysAgo(5)),
		completedSale(2, 10, 10, daysAgo(8)),
		completedSale(3, 10, 10, daysAgo(3)),
		completedSale(4, 10, 10, daysAgo(6)),
	)

	records, err := e.AnalyzeProfitability(context.Background(), engine.ProfitabilityParams{PeriodDays: 30})
	require.NoError(t, err)
	require.Len(t, records, 4)

	// Best margins first.
	assert.Equal(t, int64(1), records[0].ProductID)
	assert.Equal(t, "HIGH", records[0].Rating)
	assert.InDelta(t, 50.0, records[0].MarginPct, 1e-9)
	assert.InDelta(t, 100.0, records[0].Revenue, 1e-9)
	assert.InDelta(t, 50.0, records[0].GrossProfit, 1e-9)

	assert.Equal(t, "MEDIUM", records[1].Rating)
	assert.Equal(t, "LOW", records[2].Rating)
	assert.Equal(t, "POOR", records[3].Rating)
}

func TestAnalyzeProfitability_UsesActualSalePrice(t *testing.T) {
	e, repo := newTestEngine(t)
	repo.AddProducts(product(1, "Espresso Beans", 30, 10, 5))

	// Discounted sale: the margin follows the price charged, not the
	// catalog price.
	repo.AddSales(completedSale(1, 10, 6, daysAgo(4)))

	records, err := e.AnalyzeProfitability(context.Background(), engine.ProfitabilityParams{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 60.0, records[0].Revenue, 1e-9)
	assert.InDelta(t, 10.0, records[0].GrossProfit, 1e-9)
	assert.Equal(t, "LOW", records[0].Rating)
}

func TestAnalyzeProfitability_InvalidPeriod(t *testing.T) {
	e, repo := newTestEngine(t)
	repo.AddProducts(product(1, "Espresso Beans", 30, 10, 5))

	_, err := e.AnalyzeProfitability(context.Background(), engine.ProfitabilityParams{PeriodDays: -5})
	require.ErrorIs(t, err, engine.ErrInvalidParameter)
}
