package domain

import "time"

// Derived analysis records. All of these are computed per invocation and
// never written back to the transactional store.

// StockoutRecord describes a product that already ran out while demand existed.
type StockoutRecord struct {
	ProductID      int64      `json:"product_id"`
	SKU            string     `json:"sku"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	CurrentStock   float64    `json:"current_stock"`
	SalesCount     int        `json:"recent_sales_count"`
	LastSaleAt     *time.Time `json:"last_sale_at,omitempty"`
	QuantitySold   float64    `json:"total_quantity_sold"`
	AvgDailyDemand float64    `json:"avg_daily_demand"`
	DaysOutOfStock int        `json:"days_out_of_stock"`
	LostRevenue    float64    `json:"lost_revenue_estimate"`
}

// PendingOrderLine is one product line inside a pending purchase order summary.
type PendingOrderLine struct {
	ProductID int64   `json:"product_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"product_name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// PendingOrderSummary is the per-order view produced by the reconciler.
type PendingOrderSummary struct {
	PurchaseOrderID int64              `json:"purchase_order_id"`
	OrderNumber     string             `json:"order_number"`
	SupplierID      int64              `json:"supplier_id"`
	SupplierName    string             `json:"supplier_name"`
	OrderDate       time.Time          `json:"order_date"`
	DaysPending     int                `json:"days_pending"`
	IsDelayed       bool               `json:"is_delayed"`
	Lines           []PendingOrderLine `json:"products"`
	TotalValue      float64            `json:"total_value"`
}

// PendingAggregate rolls all pending orders for one product into the
// figures the risk detector and suggestion engine consume.
type PendingAggregate struct {
	PendingQuantity    float64 `json:"total_quantity"`
	OrderCount         int     `json:"order_count"`
	OldestOrderAgeDays int     `json:"oldest_order_days"`
	IsDelayed          bool    `json:"is_delayed"`
}

// RiskRecord is the preventive detector's output for one product.
type RiskRecord struct {
	ProductID            int64            `json:"product_id"`
	SKU                  string           `json:"sku"`
	Name                 string           `json:"name"`
	Category             string           `json:"category"`
	CurrentStock         float64          `json:"current_stock"`
	AvgDailyDemand       float64          `json:"avg_daily_demand"`
	DaysUntilStockout    float64          `json:"days_until_stockout"`
	ForecastedDemand     float64          `json:"forecasted_demand"`
	Pending              PendingAggregate `json:"pending_orders"`
	IsSufficient         bool             `json:"is_sufficient"`
	GapQuantity          float64          `json:"gap_quantity"`
	RiskLevel            RiskLevel        `json:"risk_level"`
	Recommendation       string           `json:"recommendation"`
	PotentialLostRevenue float64          `json:"potential_lost_revenue"`
	UnitSalePrice        float64          `json:"unit_sale_price"`
}

// SuggestionRecord is one recommended purchase.
type SuggestionRecord struct {
	ProductID         int64            `json:"product_id"`
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	Category          string           `json:"category"`
	CurrentStock      float64          `json:"current_stock"`
	AvgDailyDemand    float64          `json:"avg_daily_demand"`
	ForecastedDemand  float64          `json:"forecasted_demand"`
	RequiredQuantity  float64          `json:"required_quantity"`
	DaysUntilStockout float64          `json:"days_until_stockout"`
	Pending           PendingAggregate `json:"pending_orders"`
	IsSufficient      bool             `json:"is_sufficient"`
	SuggestedQuantity int              `json:"suggested_quantity"`
	UnitCost          float64          `json:"unit_cost"`
	OrderValue        float64          `json:"order_value"`
	Priority          Priority         `json:"priority"`
}

// SupplierGroupItem is one suggestion inside a consolidated supplier order.
type SupplierGroupItem struct {
	ProductID  int64    `json:"product_id"`
	SKU        string   `json:"sku"`
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	UnitCost   float64  `json:"unit_cost"`
	OrderValue float64  `json:"order_value"`
	Priority   Priority `json:"priority"`
}

// SupplierGroup consolidates suggestions per supplier.
type SupplierGroup struct {
	SupplierID        int64               `json:"supplier_id"`
	SupplierName      string              `json:"supplier_name"`
	ProductCount      int                 `json:"products_count"`
	Items             []SupplierGroupItem `json:"products"`
	TotalOrderValue   float64             `json:"total_order_value"`
	HighPriorityItems int                 `json:"high_priority_items"`
}

// SlowMovingRecord describes stock that stopped selling.
type SlowMovingRecord struct {
	ProductID       int64      `json:"product_id"`
	SKU             string     `json:"sku"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	CurrentStock    float64    `json:"current_stock"`
	StockValue      float64    `json:"stock_value"`
	LastSaleAt      *time.Time `json:"last_sale_date,omitempty"`
	DaysWithoutSale int        `json:"days_without_sale"`
	NeverSold       bool       `json:"never_sold"`
	LastPurchaseAt  *time.Time `json:"last_purchase_date,omitempty"`
	Recommendation  string     `json:"recommendation"`
}

// LossRecord flags a discrepancy between the movement ledger and recorded stock.
type LossRecord struct {
	ProductID          int64      `json:"product_id"`
	SKU                string     `json:"sku"`
	Name               string     `json:"name"`
	CurrentStock       float64    `json:"current_stock"`
	ExpectedStock      float64    `json:"expected_stock"`
	Discrepancy        float64    `json:"discrepancy"`
	DiscrepancyPct     float64    `json:"discrepancy_percentage"`
	EstimatedLossValue float64    `json:"estimated_loss_value"`
	LossMovementCount  int        `json:"loss_movements"`
	LastMovementAt     *time.Time `json:"last_movement_date,omitempty"`
	Severity           RiskLevel  `json:"severity"`
	Recommendation     string     `json:"recommendation"`
}

// TurnoverRecord measures purchase-to-first-sale time per product.
type TurnoverRecord struct {
	ProductID      int64   `json:"product_id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	PurchaseCount  int     `json:"purchases_count"`
	AvgDaysToSale  float64 `json:"avg_days_to_sale"`
	MinDaysToSale  float64 `json:"min_days_to_sale"`
	MaxDaysToSale  float64 `json:"max_days_to_sale"`
	UnsoldCount    int     `json:"still_unsold_count"`
	CurrentStock   float64 `json:"current_stock"`
	Rating         string  `json:"turnover_rating"`
	Recommendation string  `json:"recommendation"`
}

// ABCEntry is one product in a Pareto classification.
type ABCEntry struct {
	ProductID     int64   `json:"product_id"`
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	MetricValue   float64 `json:"metric_value"`
	PctOfTotal    float64 `json:"percentage_of_total"`
	CumulativePct float64 `json:"cumulative_percentage"`
	Class         string  `json:"abc_class"`
}

// ABCClassSummary aggregates one class of an ABC analysis.
type ABCClassSummary struct {
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
	Pct        float64 `json:"percentage"`
}

// ABCResult is a full ABC / Pareto classification.
type ABCResult struct {
	Metric  string                     `json:"metric"`
	Entries []ABCEntry                 `json:"classification"`
	Summary map[string]ABCClassSummary `json:"summary"`
}

// ProfitabilityRecord reports margin per product over a window.
type ProfitabilityRecord struct {
	ProductID      int64   `json:"product_id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	UnitsSold      float64 `json:"units_sold"`
	Revenue        float64 `json:"total_revenue"`
	Cost           float64 `json:"total_cost"`
	GrossProfit    float64 `json:"gross_profit"`
	MarginPct      float64 `json:"profit_margin_pct"`
	Rating         string  `json:"profitability_rating"`
	Recommendation string  `json:"recommendation"`
}

// OperationalIssueRecord flags in-stock products whose sales collapsed,
// pointing at shelf-availability problems rather than demand loss.
type OperationalIssueRecord struct {
	ProductID            int64      `json:"product_id"`
	SKU                  string     `json:"sku"`
	Name                 string     `json:"name"`
	Category             string     `json:"category"`
	CurrentStock         float64    `json:"current_stock"`
	HistoricalDailySales float64    `json:"historical_daily_sales"`
	RecentDailySales     float64    `json:"recent_daily_sales"`
	DropPct              float64    `json:"sales_drop_percentage"`
	ExpectedRecentSales  float64    `json:"expected_sales_recent"`
	ActualRecentSales    float64    `json:"actual_sales_recent"`
	LostSales            float64    `json:"lost_sales"`
	LastReceivedAt       *time.Time `json:"last_received_date,omitempty"`
	PotentialLostRevenue float64    `json:"potential_lost_revenue"`
	Severity             RiskLevel  `json:"issue_severity"`
	Recommendation       string     `json:"recommendation"`
}

// Alert is one entry of the consolidated dashboard list.
type Alert struct {
	Type        string        `json:"type"`
	Severity    AlertSeverity `json:"severity"`
	RiskLevel   RiskLevel     `json:"risk_level,omitempty"`
	ProductID   int64         `json:"product_id,omitempty"`
	ProductName string        `json:"product_name,omitempty"`
	Message     string        `json:"message"`
	Detail      string        `json:"detail"`
	Action      string        `json:"action"`
}

// DashboardSummary is the headline block of the dashboard.
type DashboardSummary struct {
	TotalProducts     int     `json:"total_products"`
	ProductsWithStock int     `json:"products_with_stock"`
	TotalStockValue   float64 `json:"total_stock_value"`
	AlertCount        int     `json:"alerts_count"`
}

// DashboardMetrics carries the key performance indicators.
type DashboardMetrics struct {
	TotalProducts       int     `json:"total_products"`
	ProductsWithStock   int     `json:"products_with_stock"`
	ProductsOutOfStock  int     `json:"products_out_of_stock"`
	TotalStockValue     float64 `json:"total_stock_value"`
	SalesLast30Days     float64 `json:"sales_last_30_days"`
	StockoutCount       int     `json:"stock_ruptures_count"`
	SlowMovingCount     int     `json:"slow_moving_count"`
	SuggestionCount     int     `json:"purchase_recommendations"`
}

// Dashboard is the consolidated alert/health view.
type Dashboard struct {
	GeneratedAt  time.Time        `json:"generated_at"`
	HealthScore  int              `json:"health_score"`
	HealthStatus string           `json:"health_status"`
	Summary      DashboardSummary `json:"summary"`
	Alerts       []Alert          `json:"alerts"`
	Metrics      DashboardMetrics `json:"metrics"`
}
