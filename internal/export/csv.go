package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rmarques/stocklens/internal/domain"
)

// CSV renderings of the analysis outputs, for spreadsheet hand-off to
// purchasing. Column order is part of the report contract; append-only.

func SuggestionsCSV(suggestions []domain.SuggestionRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"product_id", "sku", "name", "category", "current_stock",
		"avg_daily_demand", "forecasted_demand", "required_quantity",
		"pending_quantity", "suggested_quantity", "unit_cost",
		"order_value", "priority",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("error writing csv header: %w", err)
	}

	for _, s := range suggestions {
		row := []string{
			strconv.FormatInt(s.ProductID, 10),
			s.SKU,
			s.Name,
			s.Category,
			formatFloat(s.CurrentStock),
			formatFloat(s.AvgDailyDemand),
			formatFloat(s.ForecastedDemand),
			formatFloat(s.RequiredQuantity),
			formatFloat(s.Pending.PendingQuantity),
			strconv.Itoa(s.SuggestedQuantity),
			formatFloat(s.UnitCost),
			formatFloat(s.OrderValue),
			string(s.Priority),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("error writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

func RisksCSV(risks []domain.RiskRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"product_id", "sku", "name", "category", "current_stock",
		"avg_daily_demand", "days_until_stockout", "forecasted_demand",
		"pending_quantity", "is_sufficient", "gap_quantity", "risk_level",
		"potential_lost_revenue", "recommendation",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("error writing csv header: %w", err)
	}

	for _, r := range risks {
		row := []string{
			strconv.FormatInt(r.ProductID, 10),
			r.SKU,
			r.Name,
			r.Category,
			formatFloat(r.CurrentStock),
			formatFloat(r.AvgDailyDemand),
			formatFloat(r.DaysUntilStockout),
			formatFloat(r.ForecastedDemand),
			formatFloat(r.Pending.PendingQuantity),
			strconv.FormatBool(r.IsSufficient),
			formatFloat(r.GapQuantity),
			string(r.RiskLevel),
			formatFloat(r.PotentialLostRevenue),
			r.Recommendation,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("error writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

func StockoutsCSV(records []domain.StockoutRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"product_id", "sku", "name", "category", "current_stock",
		"recent_sales_count", "total_quantity_sold", "avg_daily_demand",
		"days_out_of_stock", "lost_revenue_estimate",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("error writing csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ProductID, 10),
			r.SKU,
			r.Name,
			r.Category,
			formatFloat(r.CurrentStock),
			strconv.Itoa(r.SalesCount),
			formatFloat(r.QuantitySold),
			formatFloat(r.AvgDailyDemand),
			strconv.Itoa(r.DaysOutOfStock),
			formatFloat(r.LostRevenue),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("error writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
