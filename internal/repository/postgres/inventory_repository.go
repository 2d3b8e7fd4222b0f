package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rmarques/stocklens/internal/domain"
	"github.com/rmarques/stocklens/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

// NewInventoryRepository returns the sqlx-backed read-only facade over the
// transactional schema (product, sale_order, purchase_order, stock_movement).
func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) FetchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := `
		SELECT
			id, sku, name, COALESCE(category, '') AS category,
			sale_price, cost_price, current_stock, is_active
		FROM product
		WHERE 1=1
	`

	if filter.ActiveOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY id"

	var products []domain.Product
	err := r.db.withRead(ctx, func() error {
		return r.db.SelectContext(ctx, &products, query)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching products: %w", err)
	}

	return products, nil
}

func (r *inventoryRepository) FetchSales(ctx context.Context, productID int64, from, to time.Time) ([]domain.SaleRecord, error) {
	query := `
		SELECT
			so.id AS order_id, soi.product_id, soi.quantity, soi.unit_price,
			so.sale_date AS sold_at, so.status
		FROM sale_order_item soi
		JOIN sale_order so ON so.id = soi.sale_order_id
		WHERE so.sale_date <= $1
	`

	args := []interface{}{to}
	argCounter := 2

	if !from.IsZero() {
		query += fmt.Sprintf(" AND so.sale_date >= $%d", argCounter)
		args = append(args, from)
		argCounter++
	}
	if productID != 0 {
		query += fmt.Sprintf(" AND soi.product_id = $%d", argCounter)
		args = append(args, productID)
	}
	query += " ORDER BY so.sale_date, so.id"

	var sales []domain.SaleRecord
	err := r.db.withRead(ctx, func() error {
		return r.db.SelectContext(ctx, &sales, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching sales: %w", err)
	}

	return sales, nil
}

func (r *inventoryRepository) FetchPurchaseOrders(ctx context.Context, status string, productID int64) ([]domain.PurchaseOrder, error) {
	query := `
		SELECT
			po.id, po.order_number, po.supplier_id, s.name AS supplier_name,
			po.order_date, po.received_date, po.status
		FROM purchase_order po
		JOIN supplier s ON s.id = po.supplier_id
		WHERE 1=1
	`

	var args []interface{}
	argCounter := 1

	if status != "" {
		query += fmt.Sprintf(" AND po.status = $%d", argCounter)
		args = append(args, status)
		argCounter++
	}
	if productID != 0 {
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM purchase_order_item poi
			WHERE poi.purchase_order_id = po.id AND poi.product_id = $%d
		)`, argCounter)
		args = append(args, productID)
	}
	query += " ORDER BY po.order_date, po.id"

	var orders []domain.PurchaseOrder
	err := r.db.withRead(ctx, func() error {
		return r.db.SelectContext(ctx, &orders, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching purchase orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	orderIDs := make([]int64, 0, len(orders))
	index := make(map[int64]*domain.PurchaseOrder, len(orders))
	for i := range orders {
		orderIDs = append(orderIDs, orders[i].ID)
		index[orders[i].ID] = &orders[i]
	}

	itemsQuery := `
		SELECT
			poi.purchase_order_id, poi.product_id, p.sku,
			p.name AS product_name, poi.quantity, poi.unit_price
		FROM purchase_order_item poi
		JOIN product p ON p.id = poi.product_id
		WHERE poi.purchase_order_id = ANY($1)
		ORDER BY poi.purchase_order_id, poi.product_id
	`

	var items []domain.PurchaseOrderItem
	err = r.db.withRead(ctx, func() error {
		return r.db.SelectContext(ctx, &items, itemsQuery, pq.Array(orderIDs))
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching purchase order items: %w", err)
	}

	for _, item := range items {
		if order, ok := index[item.PurchaseOrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	return orders, nil
}

func (r *inventoryRepository) FetchStockMovements(ctx context.Context, productID int64) ([]domain.StockMovement, error) {
	query := `
		SELECT product_id, movement_type, quantity, stock_after, movement_date
		FROM stock_movement
		WHERE 1=1
	`

	var args []interface{}
	if productID != 0 {
		query += " AND product_id = $1"
		args = append(args, productID)
	}
	query += " ORDER BY movement_date, id"

	var movements []domain.StockMovement
	err := r.db.withRead(ctx, func() error {
		return r.db.SelectContext(ctx, &movements, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching stock movements: %w", err)
	}

	return movements, nil
}

func (r *inventoryRepository) LatestSuppliers(ctx context.Context, productIDs []int64) (map[int64]domain.SupplierRef, error) {
	if len(productIDs) == 0 {
		return map[int64]domain.SupplierRef{}, nil
	}

	query := `
		SELECT DISTINCT ON (poi.product_id)
			poi.product_id, s.id AS supplier_id, s.name AS supplier_name
		FROM purchase_order_item poi
		JOIN purchase_order po ON po.id = poi.purchase_order_id
		JOIN supplier s ON s.id = po.supplier_id
		WHERE poi.product_id = ANY($1)
		ORDER BY poi.product_id, po.order_date DESC, po.id DESC
	`

	type supplierRow struct {
		ProductID    int64  `db:"product_id"`
		SupplierID   int64  `db:"supplier_id"`
		SupplierName string `db:"supplier_name"`
	}

	var rows []supplierRow
	err := r.db.withRead(ctx, func() error {
		return r.db.SelectContext(ctx, &rows, query, pq.Array(productIDs))
	})
	if err != nil {
		return nil, fmt.Errorf("error resolving latest suppliers: %w", err)
	}

	result := make(map[int64]domain.SupplierRef, len(rows))
	for _, row := range rows {
		result[row.ProductID] = domain.SupplierRef{ID: row.SupplierID, Name: row.SupplierName}
	}

	return result, nil
}
