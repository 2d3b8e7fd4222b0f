package engine

// Documented parameter defaults. Thresholds travel with each call so that
// behavior stays reproducible under test; nothing here is process-global.
const (
	DefaultLookbackDays       = 14
	DefaultForecastDays       = 30
	DefaultHistoryDays        = 90
	DefaultMinDaysThreshold   = 7
	DefaultDelayThresholdDays = 7
	DefaultSafetyBufferRatio  = 0.2
	DefaultUrgencyDays        = 7
	DefaultSlowMovingDays     = 30
	DefaultLossTolerancePct   = 5.0
	DefaultTurnoverPeriodDays = 90
	DefaultABCPeriodDays      = 30
	DefaultRecentPeriodDays   = 14
	DefaultHistoricalDays     = 60
	DefaultDropThresholdPct   = 70.0
	DefaultTopAlerts          = 5
)

// StockoutParams configures the reactive detector.
type StockoutParams struct {
	LookbackDays int
}

func (p StockoutParams) withDefaults() StockoutParams {
	if p.LookbackDays == 0 {
		p.LookbackDays = DefaultLookbackDays
	}
	return p
}

func (p StockoutParams) validate() error {
	if p.LookbackDays <= 0 {
		return invalidParamf("lookback days must be positive, got %d", p.LookbackDays)
	}
	return nil
}

// PendingOrderParams configures the reconciler. ProductID 0 covers all products.
type PendingOrderParams struct {
	ProductID          int64
	DelayThresholdDays int
}

func (p PendingOrderParams) withDefaults() PendingOrderParams {
	if p.DelayThresholdDays == 0 {
		p.DelayThresholdDays = DefaultDelayThresholdDays
	}
	return p
}

func (p PendingOrderParams) validate() error {
	if p.DelayThresholdDays <= 0 {
		return invalidParamf("delay threshold days must be positive, got %d", p.DelayThresholdDays)
	}
	return nil
}

// RiskParams configures the preventive detector.
type RiskParams struct {
	ForecastDays       int
	HistoryDays        int
	MinDaysThreshold   int
	DelayThresholdDays int
}

func (p RiskParams) withDefaults() RiskParams {
	if p.ForecastDays == 0 {
		p.ForecastDays = DefaultForecastDays
	}
	if p.HistoryDays == 0 {
		p.HistoryDays = DefaultHistoryDays
	}
	if p.MinDaysThreshold == 0 {
		p.MinDaysThreshold = DefaultMinDaysThreshold
	}
	if p.DelayThresholdDays == 0 {
		p.DelayThresholdDays = DefaultDelayThresholdDays
	}
	return p
}

func (p RiskParams) validate() error {
	if p.ForecastDays <= 0 {
		return invalidParamf("forecast days must be positive, got %d", p.ForecastDays)
	}
	if p.HistoryDays <= 0 {
		return invalidParamf("history days must be positive, got %d", p.HistoryDays)
	}
	if p.MinDaysThreshold <= 0 {
		return invalidParamf("min days threshold must be positive, got %d", p.MinDaysThreshold)
	}
	if p.DelayThresholdDays <= 0 {
		return invalidParamf("delay threshold days must be positive, got %d", p.DelayThresholdDays)
	}
	return nil
}

// SuggestionParams configures the purchase suggestion engine.
//
// A zero SafetyBufferRatio means "use the default", like every other
// zero field here; the buffer cannot be switched off.
type SuggestionParams struct {
	ForecastDays       int
	HistoryDays        int
	SafetyBufferRatio  float64
	UrgencyDays        int
	DelayThresholdDays int
}

func (p SuggestionParams) withDefaults() SuggestionParams {
	if p.ForecastDays == 0 {
		p.ForecastDays = DefaultForecastDays
	}
	if p.HistoryDays == 0 {
		p.HistoryDays = DefaultHistoryDays
	}
	if p.SafetyBufferRatio == 0 {
		p.SafetyBufferRatio = DefaultSafetyBufferRatio
	}
	if p.UrgencyDays == 0 {
		p.UrgencyDays = DefaultUrgencyDays
	}
	if p.DelayThresholdDays == 0 {
		p.DelayThresholdDays = DefaultDelayThresholdDays
	}
	return p
}

func (p SuggestionParams) validate() error {
	if p.ForecastDays <= 0 {
		return invalidParamf("forecast days must be positive, got %d", p.ForecastDays)
	}
	if p.HistoryDays <= 0 {
		return invalidParamf("history days must be positive, got %d", p.HistoryDays)
	}
	if p.SafetyBufferRatio < 0 {
		return invalidParamf("safety buffer ratio must not be negative, got %g", p.SafetyBufferRatio)
	}
	if p.UrgencyDays <= 0 {
		return invalidParamf("urgency days must be positive, got %d", p.UrgencyDays)
	}
	if p.DelayThresholdDays <= 0 {
		return invalidParamf("delay threshold days must be positive, got %d", p.DelayThresholdDays)
	}
	return nil
}

// SlowMovingParams configures the dead-stock analyzer.
type SlowMovingParams struct {
	ThresholdDays int
}

func (p SlowMovingParams) withDefaults() SlowMovingParams {
	if p.ThresholdDays == 0 {
		p.ThresholdDays = DefaultSlowMovingDays
	}
	return p
}

func (p SlowMovingParams) validate() error {
	if p.ThresholdDays <= 0 {
		return invalidParamf("threshold days must be positive, got %d", p.ThresholdDays)
	}
	return nil
}

// LossParams configures the discrepancy analyzer.
type LossParams struct {
	TolerancePct float64
}

func (p LossParams) withDefaults() LossParams {
	if p.TolerancePct == 0 {
		p.TolerancePct = DefaultLossTolerancePct
	}
	return p
}

func (p LossParams) validate() error {
	if p.TolerancePct <= 0 {
		return invalidParamf("tolerance percentage must be positive, got %g", p.TolerancePct)
	}
	return nil
}

// TurnoverParams configures the purchase-to-sale analyzer.
type TurnoverParams struct {
	PeriodDays int
}

func (p TurnoverParams) withDefaults() TurnoverParams {
	if p.PeriodDays == 0 {
		p.PeriodDays = DefaultTurnoverPeriodDays
	}
	return p
}

func (p TurnoverParams) validate() error {
	if p.PeriodDays <= 0 {
		return invalidParamf("period days must be positive, got %d", p.PeriodDays)
	}
	return nil
}

// ABC metrics.
const (
	ABCMetricRevenue  = "revenue"
	ABCMetricProfit   = "profit"
	ABCMetricQuantity = "quantity"
)

// ABCParams configures the Pareto classifier.
type ABCParams struct {
	PeriodDays int
	Metric     string
}

func (p ABCParams) withDefaults() ABCParams {
	if p.PeriodDays == 0 {
		p.PeriodDays = DefaultABCPeriodDays
	}
	if p.Metric == "" {
		p.Metric = ABCMetricRevenue
	}
	return p
}

func (p ABCParams) validate() error {
	if p.PeriodDays <= 0 {
		return invalidParamf("period days must be positive, got %d", p.PeriodDays)
	}
	switch p.Metric {
	case ABCMetricRevenue, ABCMetricProfit, ABCMetricQuantity:
		return nil
	default:
		return invalidParamf("unknown abc metric %q", p.Metric)
	}
}

// ProfitabilityParams configures the margin analyzer.
type ProfitabilityParams struct {
	PeriodDays int
}

func (p ProfitabilityParams) withDefaults() ProfitabilityParams {
	if p.PeriodDays == 0 {
		p.PeriodDays = DefaultABCPeriodDays
	}
	return p
}

func (p ProfitabilityParams) validate() error {
	if p.PeriodDays <= 0 {
		return invalidParamf("period days must be positive, got %d", p.PeriodDays)
	}
	return nil
}

// OperationalParams configures the shelf-availability analyzer.
type OperationalParams struct {
	RecentDays       int
	HistoricalDays   int
	DropThresholdPct float64
}

func (p OperationalParams) withDefaults() OperationalParams {
	if p.RecentDays == 0 {
		p.RecentDays = DefaultRecentPeriodDays
	}
	if p.HistoricalDays == 0 {
		p.HistoricalDays = DefaultHistoricalDays
	}
	if p.DropThresholdPct == 0 {
		p.DropThresholdPct = DefaultDropThresholdPct
	}
	return p
}

func (p OperationalParams) validate() error {
	if p.RecentDays <= 0 {
		return invalidParamf("recent period days must be positive, got %d", p.RecentDays)
	}
	if p.HistoricalDays <= 0 {
		return invalidParamf("historical period days must be positive, got %d", p.HistoricalDays)
	}
	if p.DropThresholdPct <= 0 || p.DropThresholdPct > 100 {
		return invalidParamf("drop threshold percentage must be in (0, 100], got %g", p.DropThresholdPct)
	}
	return nil
}

// DashboardParams configures the alert aggregator. Zero values take the
// documented defaults of the underlying analyses.
type DashboardParams struct {
	LookbackDays       int
	ForecastDays       int
	HistoryDays        int
	MinDaysThreshold   int
	DelayThresholdDays int
	SafetyBufferRatio  float64
	SlowMovingDays     int
	LossTolerancePct   float64
	TopAlerts          int
}

func (p DashboardParams) withDefaults() DashboardParams {
	if p.LookbackDays == 0 {
		p.LookbackDays = DefaultLookbackDays
	}
	if p.ForecastDays == 0 {
		p.ForecastDays = DefaultForecastDays
	}
	if p.HistoryDays == 0 {
		p.HistoryDays = DefaultHistoryDays
	}
	if p.MinDaysThreshold == 0 {
		p.MinDaysThreshold = DefaultMinDaysThreshold
	}
	if p.DelayThresholdDays == 0 {
		p.DelayThresholdDays = DefaultDelayThresholdDays
	}
	if p.SafetyBufferRatio == 0 {
		p.SafetyBufferRatio = DefaultSafetyBufferRatio
	}
	if p.SlowMovingDays == 0 {
		p.SlowMovingDays = 60
	}
	if p.LossTolerancePct == 0 {
		p.LossTolerancePct = DefaultLossTolerancePct
	}
	if p.TopAlerts == 0 {
		p.TopAlerts = DefaultTopAlerts
	}
	return p
}

func (p DashboardParams) validate() error {
	if p.LookbackDays <= 0 || p.ForecastDays <= 0 || p.HistoryDays <= 0 ||
		p.MinDaysThreshold <= 0 || p.DelayThresholdDays <= 0 || p.SlowMovingDays <= 0 {
		return invalidParamf("dashboard windows and thresholds must be positive")
	}
	if p.SafetyBufferRatio < 0 {
		return invalidParamf("safety buffer ratio must not be negative, got %g", p.SafetyBufferRatio)
	}
	if p.LossTolerancePct <= 0 {
		return invalidParamf("loss tolerance percentage must be positive, got %g", p.LossTolerancePct)
	}
	if p.TopAlerts <= 0 {
		return invalidParamf("top alerts must be positive, got %d", p.TopAlerts)
	}
	return nil
}
