package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarques/stocklens/internal/domain"
	"github.com/rmarques/stocklens/internal/export"
)

func TestSuggestionsCSV(t *testing.T) {
	suggestions := []domain.SuggestionRecord{
		{
			ProductID:         1,
			SKU:               "SKU-100",
			Name:              "Espresso Beans",
			Category:          "Coffee",
			CurrentStock:      10,
			AvgDailyDemand:    3,
			ForecastedDemand:  90,
			RequiredQuantity:  108,
			Pending:           domain.PendingAggregate{PendingQuantity: 0},
			SuggestedQuantity: 98,
			UnitCost:          4,
			OrderValue:        392,
			Priority:          domain.PriorityHigh,
		},
	}

	payload, err := export.SuggestionsCSV(suggestions)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "product_id", rows[0][0])
	assert.Equal(t, "priority", rows[0][len(rows[0])-1])

	row := rows[1]
	assert.Equal(t, "1", row[0])
	assert.Equal(t, "Espresso Beans", row[2])
	assert.Equal(t, "108.00", row[7])
	assert.Equal(t, "98", row[9])
	assert.Equal(t, "HIGH", row[12])
}

func TestRisksCSV_QuotesFreeText(t *testing.T) {
	risks := []domain.RiskRecord{
		{
			ProductID:      2,
			Name:           "Filter Paper",
			RiskLevel:      domain.RiskHigh,
			Recommendation: "Pending orders cover only part of the forecast. Order 70 more units.",
		},
	}

	payload, err := export.RisksCSV(risks)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "HIGH", rows[1][11])
	assert.Equal(t, "Pending orders cover only part of the forecast. Order 70 more units.", rows[1][13])
}

func TestStockoutsCSV_Empty(t *testing.T) {
	payload, err := export.StockoutsCSV(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
	assert.Equal(t, "lost_revenue_estimate", rows[0][len(rows[0])-1])
}
