package engine

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rmarques/stocklens/internal/domain"
)

// DetectStockLosses reconciles the movement ledger against recorded
// stock. Expected stock is the signed sum of all movements; a gap larger
// than the tolerance points at theft, damage or recording errors.
func (e *Engine) DetectStockLosses(ctx context.Context, params LossParams) ([]domain.LossRecord, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	products, err := e.activeProducts(ctx, domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	sortProducts(products)

	movements, err := e.repo.FetchStockMovements(ctx, 0)
	if err != nil {
		return nil, dataUnavailable("fetch stock movements", err)
	}

	type ledgerState struct {
		expected     float64
		lossCount    int
		lastMovement time.Time
		seen         bool
	}
	ledger := make(map[int64]*ledgerState)
	for _, m := range movements {
		st, ok := ledger[m.ProductID]
		if !ok {
			st = &ledgerState{}
			ledger[m.ProductID] = st
		}
		st.seen = true
		st.expected += m.Quantity
		if m.Type == domain.MovementLoss {
			st.lossCount++
		}
		if m.OccurredAt.After(st.lastMovement) {
			st.lastMovement = m.OccurredAt
		}
	}

	records := make([]domain.LossRecord, 0)
	for _, p := range products {
		st, ok := ledger[p.ID]
		if !ok || !st.seen {
			continue
		}

		discrepancy := st.expected - p.CurrentStock
		var pct float64
		if st.expected != 0 {
			pct = math.Abs(discrepancy / st.expected * 100)
		}
		if pct <= params.TolerancePct {
			continue
		}

		severity := classifyDiscrepancy(pct)
		lastAt := st.lastMovement
		records = append(records, domain.LossRecord{
			ProductID:          p.ID,
			SKU:                p.SKU,
			Name:               p.Name,
			CurrentStock:       p.CurrentStock,
			ExpectedStock:      st.expected,
			Discrepancy:        discrepancy,
			DiscrepancyPct:     pct,
			EstimatedLossValue: math.Abs(discrepancy * p.CostPrice.InexactFloat64()),
			LossMovementCount:  st.lossCount,
			LastMovementAt:     &lastAt,
			Severity:           severity,
			Recommendation:     lossRecommendation(severity),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		ri, rj := records[i].Severity.Rank(), records[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		if records[i].EstimatedLossValue != records[j].EstimatedLossValue {
			return records[i].EstimatedLossValue > records[j].EstimatedLossValue
		}
		return records[i].ProductID < records[j].ProductID
	})
	return records, nil
}

func classifyDiscrepancy(pct float64) domain.RiskLevel {
	switch {
	case pct > 20:
		return domain.RiskCritical
	case pct > 10:
		return domain.RiskHigh
	default:
		return domain.RiskMedium
	}
}

func lossRecommendation(severity domain.RiskLevel) string {
	switch severity {
	case domain.RiskCritical:
		return "URGENT: perform a physical count and investigate immediately."
	case domain.RiskHigh:
		return "IMPORTANT: schedule a physical count and review security."
	default:
		return "MONITOR: review and correct inventory records."
	}
}
