package domain

// Sale order statuses. Only completed sales count toward demand.
const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusCancelled = "CANCELLED"
)

// Purchase order statuses.
const (
	POStatusPending   = "PENDING"
	POStatusReceived  = "RECEIVED"
	POStatusCancelled = "CANCELLED"
)

// Stock movement types.
const (
	MovementPurchase   = "PURCHASE"
	MovementSale       = "SALE"
	MovementLoss       = "LOSS"
	MovementAdjustment = "ADJUSTMENT"
)

// RiskLevel classifies how urgent a detected condition is.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
)

// Rank orders risk levels for sorting, most severe first.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskCritical:
		return 0
	case RiskHigh:
		return 1
	case RiskMedium:
		return 2
	case RiskLow:
		return 3
	default:
		return 4
	}
}

// Priority orders purchase suggestions.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Rank orders priorities for sorting, most urgent first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// AlertSeverity drives health score deductions on the dashboard.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "CRITICAL"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityInfo     AlertSeverity = "INFO"
)

// Alert types emitted by the aggregator, in dashboard order.
const (
	AlertImminentStockout  = "IMMINENT_STOCKOUT"
	AlertStockRupture      = "STOCK_RUPTURE"
	AlertSlowMoving        = "SLOW_MOVING"
	AlertStockLoss         = "STOCK_LOSS"
	AlertLowStockDemand    = "LOW_STOCK_HIGH_DEMAND"
	AlertRecordedLosses    = "RECORDED_LOSSES"
	AlertPurchaseNeeded    = "PURCHASE_NEEDED"
)

// Health statuses derived from the dashboard health score.
const (
	HealthExcellent = "EXCELLENT"
	HealthGood      = "GOOD"
	HealthFair      = "FAIR"
	HealthPoor      = "POOR"
)

// HealthStatusFor maps a 0-100 health score onto a label.
func HealthStatusFor(score int) string {
	switch {
	case score >= 80:
		return HealthExcellent
	case score >= 60:
		return HealthGood
	case score >= 40:
		return HealthFair
	default:
		return HealthPoor
	}
}

// Turnover ratings.
const (
	TurnoverFast   = "FAST"
	TurnoverMedium = "MEDIUM"
	TurnoverSlow   = "SLOW"
)

// ABC classes.
const (
	ABCClassA = "A"
	ABCClassB = "B"
	ABCClassC = "C"
)
