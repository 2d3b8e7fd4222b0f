package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rmarques/stocklens/internal/engine"
	"github.com/rmarques/stocklens/internal/export"
	"github.com/rmarques/stocklens/internal/service"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) GetDemand(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	historyDays := queryInt(c, "history_days", engine.DefaultHistoryDays)

	demand, err := h.service.EstimateDailyDemand(c.Request.Context(), productID, historyDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id":       productID,
		"history_days":     historyDays,
		"avg_daily_demand": demand,
	})
}

func (h *AnalyticsHandler) GetStockouts(c *gin.Context) {
	records, err := h.service.DetectStockouts(c.Request.Context(), engine.StockoutParams{
		LookbackDays: queryInt(c, "lookback_days", engine.DefaultLookbackDays),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "stockouts": records})
}

func (h *AnalyticsHandler) GetPendingOrders(c *gin.Context) {
	params := engine.PendingOrderParams{
		DelayThresholdDays: queryInt(c, "delay_threshold_days", engine.DefaultDelayThresholdDays),
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		params.ProductID = id
	}

	summaries, err := h.service.SummarizePendingOrders(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(summaries), "pending_orders": summaries})
}

func (h *AnalyticsHandler) GetImminentRisks(c *gin.Context) {
	records, err := h.service.DetectImminentRisk(c.Request.Context(), engine.RiskParams{
		ForecastDays:       queryInt(c, "forecast_days", engine.DefaultForecastDays),
		HistoryDays:        queryInt(c, "history_days", engine.DefaultHistoryDays),
		MinDaysThreshold:   queryInt(c, "min_days_threshold", engine.DefaultMinDaysThreshold),
		DelayThresholdDays: queryInt(c, "delay_threshold_days", engine.DefaultDelayThresholdDays),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "risks": records})
}

func (h *AnalyticsHandler) GetPurchaseSuggestions(c *gin.Context) {
	records, err := h.service.SuggestPurchaseOrders(c.Request.Context(), suggestionParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "suggestions": records})
}

func (h *AnalyticsHandler) GetSupplierGroups(c *gin.Context) {
	groups, err := h.service.GroupSuggestionsBySupplier(c.Request.Context(), suggestionParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(groups), "suppliers": groups})
}

func (h *AnalyticsHandler) GetSlowMoving(c *gin.Context) {
	records, err := h.service.AnalyzeSlowMovingStock(c.Request.Context(), engine.SlowMovingParams{
		ThresholdDays: queryInt(c, "threshold_days", engine.DefaultSlowMovingDays),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "slow_moving": records})
}

func (h *AnalyticsHandler) GetStockLosses(c *gin.Context) {
	records, err := h.service.DetectStockLosses(c.Request.Context(), engine.LossParams{
		TolerancePct: queryFloat(c, "tolerance_pct", engine.DefaultLossTolerancePct),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "losses": records})
}

func (h *AnalyticsHandler) GetTurnover(c *gin.Context) {
	records, err := h.service.AnalyzePurchaseToSaleTime(c.Request.Context(), engine.TurnoverParams{
		PeriodDays: queryInt(c, "period_days", engine.DefaultTurnoverPeriodDays),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "turnover": records})
}

func (h *AnalyticsHandler) GetABC(c *gin.Context) {
	result, err := h.service.ClassifyABC(c.Request.Context(), engine.ABCParams{
		PeriodDays: queryInt(c, "period_days", engine.DefaultABCPeriodDays),
		Metric:     c.DefaultQuery("metric", engine.ABCMetricRevenue),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandler) GetProfitability(c *gin.Context) {
	records, err := h.service.AnalyzeProfitability(c.Request.Context(), engine.ProfitabilityParams{
		PeriodDays: queryInt(c, "period_days", engine.DefaultABCPeriodDays),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "profitability": records})
}

func (h *AnalyticsHandler) GetOperationalIssues(c *gin.Context) {
	records, err := h.service.DetectOperationalIssues(c.Request.Context(), engine.OperationalParams{
		RecentDays:       queryInt(c, "recent_days", engine.DefaultRecentPeriodDays),
		HistoricalDays:   queryInt(c, "historical_days", engine.DefaultHistoricalDays),
		DropThresholdPct: queryFloat(c, "drop_threshold_pct", engine.DefaultDropThresholdPct),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "issues": records})
}

// ExportSuggestionsCSV renders the current purchase suggestions as a CSV
// attachment, for hand-off to purchasing without going through the CLI.
func (h *AnalyticsHandler) ExportSuggestionsCSV(c *gin.Context) {
	records, err := h.service.SuggestPurchaseOrders(c.Request.Context(), suggestionParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	payload, err := export.SuggestionsCSV(records)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=purchase_suggestions.csv")
	c.Data(http.StatusOK, "text/csv", payload)
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.BuildDashboard(c.Request.Context(), engine.DashboardParams{
		LookbackDays:       queryInt(c, "lookback_days", engine.DefaultLookbackDays),
		ForecastDays:       queryInt(c, "forecast_days", engine.DefaultForecastDays),
		HistoryDays:        queryInt(c, "history_days", engine.DefaultHistoryDays),
		MinDaysThreshold:   queryInt(c, "min_days_threshold", engine.DefaultMinDaysThreshold),
		DelayThresholdDays: queryInt(c, "delay_threshold_days", engine.DefaultDelayThresholdDays),
		TopAlerts:          queryInt(c, "top_alerts", engine.DefaultTopAlerts),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func suggestionParams(c *gin.Context) engine.SuggestionParams {
	return engine.SuggestionParams{
		ForecastDays:       queryInt(c, "forecast_days", engine.DefaultForecastDays),
		HistoryDays:        queryInt(c, "history_days", engine.DefaultHistoryDays),
		SafetyBufferRatio:  queryFloat(c, "safety_buffer_ratio", engine.DefaultSafetyBufferRatio),
		UrgencyDays:        queryInt(c, "urgency_days", engine.DefaultUrgencyDays),
		DelayThresholdDays: queryInt(c, "delay_threshold_days", engine.DefaultDelayThresholdDays),
	}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func queryFloat(c *gin.Context, name string, fallback float64) float64 {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

// respondError maps engine failure signals onto HTTP statuses: rejected
// parameters are the caller's fault, unavailable data is ours.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidParameter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrDataUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
