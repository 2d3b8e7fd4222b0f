package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmarques/stocklens/internal/domain"
	"github.com/rmarques/stocklens/internal/engine"
	"github.com/rmarques/stocklens/internal/repository/memory"
)

// All tests run against a pinned clock so window math is exact.
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*engine.Engine, *memory.InventoryRepository) {
	t.Helper()
	repo := memory.NewInventoryRepository()
	e := engine.New(repo).WithClock(func() time.Time { return testNow })
	return e, repo
}

func daysAgo(days int) time.Time {
	return testNow.AddDate(0, 0, -days)
}

func price(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func product(id int64, name string, stock, salePrice, costPrice float64) domain.Product {
	return domain.Product{
		ID:           id,
		SKU:          skuFor(id),
		Name:         name,
		Category:     "General",
		SalePrice:    price(salePrice),
		CostPrice:    price(costPrice),
		CurrentStock: stock,
		IsActive:     true,
	}
}

func skuFor(id int64) string {
	return "SKU-" + string(rune('0'+id%10)) + "00"
}

func completedSale(productID int64, qty float64, unitPrice float64, soldAt time.Time) domain.SaleRecord {
	return domain.SaleRecord{
		OrderID:   productID * 1000,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: price(unitPrice),
		SoldAt:    soldAt,
		Status:    domain.SaleStatusCompleted,
	}
}

func cancelledSale(productID int64, qty float64, soldAt time.Time) domain.SaleRecord {
	return domain.SaleRecord{
		OrderID:   productID*1000 + 1,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: price(10),
		SoldAt:    soldAt,
		Status:    domain.SaleStatusCancelled,
	}
}

func pendingOrder(id int64, supplierID int64, supplierName string, orderedAt time.Time, items ...domain.PurchaseOrderItem) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		ID:           id,
		OrderNumber:  orderNumber(id),
		SupplierID:   supplierID,
		SupplierName: supplierName,
		OrderDate:    orderedAt,
		Status:       domain.POStatusPending,
		Items:        items,
	}
}

func receivedOrder(id int64, supplierID int64, supplierName string, orderedAt, receivedAt time.Time, items ...domain.PurchaseOrderItem) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		ID:           id,
		OrderNumber:  orderNumber(id),
		SupplierID:   supplierID,
		SupplierName: supplierName,
		OrderDate:    orderedAt,
		ReceivedDate: &receivedAt,
		Status:       domain.POStatusReceived,
		Items:        items,
	}
}

func orderNumber(id int64) string {
	return "PO-" + string(rune('0'+id%10)) + "00"
}

func orderItem(productID int64, qty, unitPrice float64) domain.PurchaseOrderItem {
	return domain.PurchaseOrderItem{
		ProductID: productID,
		SKU:       skuFor(productID),
		Quantity:  qty,
		UnitPrice: price(unitPrice),
	}
}

func movement(productID int64, movementType string, qty, stockAfter float64, at time.Time) domain.StockMovement {
	return domain.StockMovement{
		ProductID:  productID,
		Type:       movementType,
		Quantity:   qty,
		StockAfter: stockAfter,
		OccurredAt: at,
	}
}
