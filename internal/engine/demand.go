package engine

import (
	"context"
)

// EstimateDailyDemand returns the average units sold per day for one
// product over the trailing window. Only completed sales count. A product
// with no qualifying sales yields 0; callers decide what a zero means
// (the detectors exclude such products rather than dividing by it).
func (e *Engine) EstimateDailyDemand(ctx context.Context, productID int64, historyDays int) (float64, error) {
	if historyDays <= 0 {
		return 0, invalidParamf("history window days must be positive, got %d", historyDays)
	}

	from := e.now().AddDate(0, 0, -historyDays)
	sales, err := e.repo.FetchSales(ctx, productID, from, e.now())
	if err != nil {
		return 0, dataUnavailable("fetch sales", err)
	}

	var total float64
	for _, sale := range sales {
		if sale.Completed() {
			total += sale.Quantity
		}
	}
	return total / float64(historyDays), nil
}
