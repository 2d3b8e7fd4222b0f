package repository

import (
	"context"
	"time"

	"github.com/rmarques/stocklens/internal/domain"
)

// InventoryRepository is the read-only facade over the transactional store.
// The engine never writes through it. A productID of 0 means "all products";
// a zero `from` time means an open-ended start.
type InventoryRepository interface {
	// FetchProducts returns catalog entries matching the filter.
	FetchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)

	// FetchSales returns sold line items with sold_at in [from, to].
	FetchSales(ctx context.Context, productID int64, from, to time.Time) ([]domain.SaleRecord, error)

	// FetchPurchaseOrders returns orders (with items) in the given status,
	// optionally restricted to orders containing the product. An empty
	// status means all statuses.
	FetchPurchaseOrders(ctx context.Context, status string, productID int64) ([]domain.PurchaseOrder, error)

	// FetchStockMovements returns the movement ledger ordered by date.
	FetchStockMovements(ctx context.Context, productID int64) ([]domain.StockMovement, error)

	// LatestSuppliers resolves, per product, the supplier of the most
	// recent purchase order containing it. Products never purchased are
	// absent from the result.
	LatestSuppliers(ctx context.Context, productIDs []int64) (map[int64]domain.SupplierRef, error)
}
