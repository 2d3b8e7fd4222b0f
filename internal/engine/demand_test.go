package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarques/stocklens/internal/engine"
)

func TestEstimateDailyDemand(t *testing.T) {
	e, repo := newTestEngine(t)

	repo.AddSales(
		completedSale(1, 30, 10, daysAgo(5)),
		completedSale(1, 30, 10, daysAgo(12)),
		cancelledSale(1, 500, daysAgo(3)),
		completedSale(1, 30, 10, daysAgo(45)), // outside the window
		completedSale(2, 99, 10, daysAgo(2)),  // different product
	)

	avg, err := e.EstimateDailyDemand(context.Background(), 1, 30)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, avg, 1e-9)
}

func TestEstimateDailyDemand_NoSales(t *testing.T) {
	e, _ := newTestEngine(t)

	avg, err := e.EstimateDailyDemand(context.Background(), 7, 30)
	require.NoError(t, err)
	assert.Zero(t, avg)
}

func TestEstimateDailyDemand_InvalidWindow(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.EstimateDailyDemand(context.Background(), 1, 0)
	require.ErrorIs(t, err, engine.ErrInvalidParameter)
}
