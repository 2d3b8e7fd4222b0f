package service

import (
	"context"
	"fmt"

	"github.com/rmarques/stocklens/internal/cache"
	"github.com/rmarques/stocklens/internal/domain"
	"github.com/rmarques/stocklens/internal/engine"
	"github.com/rmarques/stocklens/pkg/logger"
)

var log = logger.WithComponent("service")

// AnalyticsService fronts the engine for the transport layers. Results
// pass through untouched; the only behavior added here is the dashboard
// cache, since that call fans out into every detector at once.
type AnalyticsService struct {
	engine *engine.Engine
	cache  cache.DashboardCache
}

func NewAnalyticsService(eng *engine.Engine, cacheImpl cache.DashboardCache) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &AnalyticsService{engine: eng, cache: cacheImpl}
}

func (s *AnalyticsService) EstimateDailyDemand(ctx context.Context, productID int64, historyDays int) (float64, error) {
	return s.engine.EstimateDailyDemand(ctx, productID, historyDays)
}

func (s *AnalyticsService) DetectStockouts(ctx context.Context, params engine.StockoutParams) ([]domain.StockoutRecord, error) {
	return s.engine.DetectStockouts(ctx, params)
}

func (s *AnalyticsService) SummarizePendingOrders(ctx context.Context, params engine.PendingOrderParams) ([]domain.PendingOrderSummary, error) {
	return s.engine.SummarizePendingOrders(ctx, params)
}

func (s *AnalyticsService) DetectImminentRisk(ctx context.Context, params engine.RiskParams) ([]domain.RiskRecord, error) {
	return s.engine.DetectImminentRisk(ctx, params)
}

func (s *AnalyticsService) SuggestPurchaseOrders(ctx context.Context, params engine.SuggestionParams) ([]domain.SuggestionRecord, error) {
	return s.engine.SuggestPurchaseOrders(ctx, params)
}

func (s *AnalyticsService) GroupSuggestionsBySupplier(ctx context.Context, params engine.SuggestionParams) ([]domain.SupplierGroup, error) {
	suggestions, err := s.engine.SuggestPurchaseOrders(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.engine.GroupBySupplier(ctx, suggestions)
}

func (s *AnalyticsService) AnalyzeSlowMovingStock(ctx context.Context, params engine.SlowMovingParams) ([]domain.SlowMovingRecord, error) {
	return s.engine.AnalyzeSlowMovingStock(ctx, params)
}

func (s *AnalyticsService) DetectStockLosses(ctx context.Context, params engine.LossParams) ([]domain.LossRecord, error) {
	return s.engine.DetectStockLosses(ctx, params)
}

func (s *AnalyticsService) AnalyzePurchaseToSaleTime(ctx context.Context, params engine.TurnoverParams) ([]domain.TurnoverRecord, error) {
	return s.engine.AnalyzePurchaseToSaleTime(ctx, params)
}

func (s *AnalyticsService) ClassifyABC(ctx context.Context, params engine.ABCParams) (*domain.ABCResult, error) {
	return s.engine.ClassifyABC(ctx, params)
}

func (s *AnalyticsService) AnalyzeProfitability(ctx context.Context, params engine.ProfitabilityParams) ([]domain.ProfitabilityRecord, error) {
	return s.engine.AnalyzeProfitability(ctx, params)
}

func (s *AnalyticsService) DetectOperationalIssues(ctx context.Context, params engine.OperationalParams) ([]domain.OperationalIssueRecord, error) {
	return s.engine.DetectOperationalIssues(ctx, params)
}

func (s *AnalyticsService) BuildDashboard(ctx context.Context, params engine.DashboardParams) (*domain.Dashboard, error) {
	key := dashboardCacheKey(params)
	if dashboard, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: dashboard cache get failed")
	}

	dashboard, err := s.engine.BuildDashboard(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, dashboard); err != nil {
		log.Warn().Err(err).Msg("analytics: dashboard cache set failed")
	}

	return dashboard, nil
}

func (s *AnalyticsService) InvalidateDashboardCache(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

func dashboardCacheKey(params engine.DashboardParams) string {
	return fmt.Sprintf("lb=%d|fc=%d|hist=%d|min=%d|delay=%d|buf=%g|slow=%d|loss=%g|top=%d",
		params.LookbackDays, params.ForecastDays, params.HistoryDays,
		params.MinDaysThreshold, params.DelayThresholdDays, params.SafetyBufferRatio,
		params.SlowMovingDays, params.LossTolerancePct, params.TopAlerts)
}
