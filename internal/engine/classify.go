package engine

import (
	"fmt"

	"github.com/rmarques/stocklens/internal/domain"
)

// The reactive, preventive and operational analyses share one
// classification scheme so the dashboard and the individual tools can
// never disagree about the same product.

type analysisKind int

const (
	analysisReactive analysisKind = iota
	analysisPreventive
	analysisOperational
)

// criticalDepletionDays is the horizon below which depletion alone makes
// a product critical, unless replenishment already in flight covers the
// forecast window.
const criticalDepletionDays = 3.0

// riskSignals carries every input a ladder looks at. Preventive runs use
// the depletion/coverage fields, operational runs the drop percentage.
type riskSignals struct {
	daysUntilStockout float64
	isSufficient      bool
	isDelayed         bool
	dropPct           float64
}

// classifyRisk evaluates the ladder for one analysis kind, top-down; the
// first match wins. On the preventive ladder delay only escalates, it
// never demotes: a product inside the critical horizon with insufficient
// coverage stays CRITICAL whether or not an order is late.
func classifyRisk(kind analysisKind, sig riskSignals) domain.RiskLevel {
	switch kind {
	case analysisReactive:
		// Already out of stock with demand evidence. No tiers.
		return domain.RiskCritical
	case analysisOperational:
		switch {
		case sig.dropPct >= 90:
			return domain.RiskCritical
		case sig.dropPct >= 80:
			return domain.RiskHigh
		default:
			return domain.RiskMedium
		}
	default:
		switch {
		case sig.daysUntilStockout <= criticalDepletionDays && !sig.isSufficient:
			return domain.RiskCritical
		case sig.isDelayed && !sig.isSufficient:
			return domain.RiskHigh
		case sig.daysUntilStockout <= criticalDepletionDays && sig.isSufficient && sig.isDelayed:
			return domain.RiskHigh
		case !sig.isSufficient:
			return domain.RiskMedium
		default:
			return domain.RiskLow
		}
	}
}

// riskRecommendation turns the pending-order state into an action line.
func riskRecommendation(pending domain.PendingAggregate, isSufficient bool, gap float64) string {
	switch {
	case pending.PendingQuantity == 0:
		return fmt.Sprintf("No pending orders. Create a purchase order for %.0f units to cover forecast demand.", gap)
	case !isSufficient:
		return fmt.Sprintf("Pending orders cover only part of the forecast. Order %.0f more units.", gap)
	case pending.IsDelayed:
		return fmt.Sprintf("Pending orders cover the forecast but the oldest is %d days old. Follow up with the supplier.", pending.OldestOrderAgeDays)
	default:
		return "Pending orders cover the forecast. Monitor until delivery."
	}
}
