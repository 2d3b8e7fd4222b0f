package engine

import (
	"context"
	"sort"

	"github.com/rmarques/stocklens/internal/domain"
)

// DetectImminentRisk forecasts depletion for every in-stock product,
// nets pending replenishment against forecast demand and classifies the
// result. Products with no measurable demand, or whose depletion lies
// beyond the threshold, are excluded rather than reported at some
// synthetic level.
func (e *Engine) DetectImminentRisk(ctx context.Context, params RiskParams) ([]domain.RiskRecord, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	products, err := e.activeProducts(ctx, domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	sortProducts(products)

	from := e.now().AddDate(0, 0, -params.HistoryDays)
	sales, err := e.salesSince(ctx, from)
	if err != nil {
		return nil, err
	}
	demand := aggregateDemand(sales)

	orders, err := e.pendingOrders(ctx, 0)
	if err != nil {
		return nil, err
	}
	pending := e.aggregatePending(orders, params.DelayThresholdDays)

	records := make([]domain.RiskRecord, 0)
	for _, p := range products {
		if p.CurrentStock <= 0 {
			continue
		}
		stats := demand[p.ID]
		avgDaily := stats.Quantity / float64(params.HistoryDays)
		if avgDaily == 0 {
			continue
		}

		stock := p.AvailableStock()
		daysUntil := stock / avgDaily
		if daysUntil > float64(params.MinDaysThreshold) {
			continue
		}

		forecast := avgDaily * float64(params.ForecastDays)
		agg := pending[p.ID]
		available := stock + agg.PendingQuantity
		sufficient := available >= forecast
		gap := forecast - available
		if gap < 0 {
			gap = 0
		}

		level := classifyRisk(analysisPreventive, riskSignals{
			daysUntilStockout: daysUntil,
			isSufficient:      sufficient,
			isDelayed:         agg.IsDelayed,
		})

		salePrice := p.SalePrice.InexactFloat64()
		var lostRevenue float64
		if gap > 0 {
			lostRevenue = gap * salePrice
		}

		records = append(records, domain.RiskRecord{
			ProductID:            p.ID,
			SKU:                  p.SKU,
			Name:                 p.Name,
			Category:             p.Category,
			CurrentStock:         p.CurrentStock,
			AvgDailyDemand:       avgDaily,
			DaysUntilStockout:    daysUntil,
			ForecastedDemand:     forecast,
			Pending:              agg,
			IsSufficient:         sufficient,
			GapQuantity:          gap,
			RiskLevel:            level,
			Recommendation:       riskRecommendation(agg, sufficient, gap),
			PotentialLostRevenue: lostRevenue,
			UnitSalePrice:        salePrice,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		ri, rj := records[i].RiskLevel.Rank(), records[j].RiskLevel.Rank()
		if ri != rj {
			return ri < rj
		}
		if records[i].DaysUntilStockout != records[j].DaysUntilStockout {
			return records[i].DaysUntilStockout < records[j].DaysUntilStockout
		}
		return records[i].ProductID < records[j].ProductID
	})
	return records, nil
}
