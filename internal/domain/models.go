package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as stored by the transactional system.
// The analytics engine only ever reads products.
type Product struct {
	ID           int64           `json:"id" db:"id"`
	SKU          string          `json:"sku" db:"sku"`
	Name         string          `json:"name" db:"name"`
	Category     string          `json:"category" db:"category"`
	SalePrice    decimal.Decimal `json:"sale_price" db:"sale_price"`
	CostPrice    decimal.Decimal `json:"cost_price" db:"cost_price"`
	CurrentStock float64         `json:"current_stock" db:"current_stock"`
	IsActive     bool            `json:"is_active" db:"is_active"`
}

// AvailableStock returns the stock level usable for ratio math.
// Negative stock (oversold) counts as zero.
func (p Product) AvailableStock() float64 {
	if p.CurrentStock < 0 {
		return 0
	}
	return p.CurrentStock
}

// SaleRecord is one sold line item joined with its order header.
type SaleRecord struct {
	OrderID   int64           `json:"order_id" db:"order_id"`
	ProductID int64           `json:"product_id" db:"product_id"`
	Quantity  float64         `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	SoldAt    time.Time       `json:"sold_at" db:"sold_at"`
	Status    string          `json:"status" db:"status"`
}

// Completed reports whether the sale counts toward demand.
func (s SaleRecord) Completed() bool {
	return s.Status == SaleStatusCompleted
}

// PurchaseOrder is a replenishment order placed with a supplier.
type PurchaseOrder struct {
	ID           int64               `json:"id" db:"id"`
	OrderNumber  string              `json:"order_number" db:"order_number"`
	SupplierID   int64               `json:"supplier_id" db:"supplier_id"`
	SupplierName string              `json:"supplier_name" db:"supplier_name"`
	OrderDate    time.Time           `json:"order_date" db:"order_date"`
	ReceivedDate *time.Time          `json:"received_date,omitempty" db:"received_date"`
	Status       string              `json:"status" db:"status"`
	Items        []PurchaseOrderItem `json:"items"`
}

// PurchaseOrderItem is one line of a purchase order.
type PurchaseOrderItem struct {
	PurchaseOrderID int64           `json:"purchase_order_id" db:"purchase_order_id"`
	ProductID       int64           `json:"product_id" db:"product_id"`
	SKU             string          `json:"sku" db:"sku"`
	ProductName     string          `json:"product_name" db:"product_name"`
	Quantity        float64         `json:"quantity" db:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// TotalValue sums quantity x unit price over all items.
func (po PurchaseOrder) TotalValue() float64 {
	var total float64
	for _, item := range po.Items {
		total += item.Quantity * item.UnitPrice.InexactFloat64()
	}
	return total
}

// StockMovement is one entry of the stock ledger. Quantity is signed:
// positive for inbound, negative for outbound.
type StockMovement struct {
	ProductID  int64     `json:"product_id" db:"product_id"`
	Type       string    `json:"movement_type" db:"movement_type"`
	Quantity   float64   `json:"quantity" db:"quantity"`
	StockAfter float64   `json:"stock_after" db:"stock_after"`
	OccurredAt time.Time `json:"movement_date" db:"movement_date"`
}

// SupplierRef identifies a supplier without carrying contact details.
type SupplierRef struct {
	ID   int64  `json:"supplier_id" db:"supplier_id"`
	Name string `json:"supplier_name" db:"supplier_name"`
}

// ProductFilter narrows product reads at the data-access boundary.
type ProductFilter struct {
	ActiveOnly bool
}
