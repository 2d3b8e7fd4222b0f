package engine

import (
	"context"
	"sort"

	"github.com/rmarques/stocklens/internal/domain"
)

// SummarizePendingOrders reports every purchase order still awaiting
// delivery, optionally scoped to orders containing one product. Oldest
// orders come first so delayed deliveries surface at the top.
func (e *Engine) SummarizePendingOrders(ctx context.Context, params PendingOrderParams) ([]domain.PendingOrderSummary, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	orders, err := e.pendingOrders(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	summaries := make([]domain.PendingOrderSummary, 0, len(orders))
	for _, order := range orders {
		daysPending := daysBetween(order.OrderDate, now)
		summary := domain.PendingOrderSummary{
			PurchaseOrderID: order.ID,
			OrderNumber:     order.OrderNumber,
			SupplierID:      order.SupplierID,
			SupplierName:    order.SupplierName,
			OrderDate:       order.OrderDate,
			DaysPending:     daysPending,
			IsDelayed:       daysPending > params.DelayThresholdDays,
			Lines:           make([]domain.PendingOrderLine, 0, len(order.Items)),
			TotalValue:      order.TotalValue(),
		}
		for _, item := range order.Items {
			unitPrice := item.UnitPrice.InexactFloat64()
			summary.Lines = append(summary.Lines, domain.PendingOrderLine{
				ProductID: item.ProductID,
				SKU:       item.SKU,
				Name:      item.ProductName,
				Quantity:  item.Quantity,
				UnitPrice: unitPrice,
				Subtotal:  item.Quantity * unitPrice,
			})
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].DaysPending != summaries[j].DaysPending {
			return summaries[i].DaysPending > summaries[j].DaysPending
		}
		return summaries[i].PurchaseOrderID < summaries[j].PurchaseOrderID
	})
	return summaries, nil
}

// PendingByProduct returns the per-product roll-up the risk detector and
// the suggestion engine consume.
func (e *Engine) PendingByProduct(ctx context.Context, delayThresholdDays int) (map[int64]domain.PendingAggregate, error) {
	if delayThresholdDays <= 0 {
		return nil, invalidParamf("delay threshold days must be positive, got %d", delayThresholdDays)
	}
	orders, err := e.pendingOrders(ctx, 0)
	if err != nil {
		return nil, err
	}
	return e.aggregatePending(orders, delayThresholdDays), nil
}
