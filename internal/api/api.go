package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rmarques/stocklens/internal/api/handlers"
	"github.com/rmarques/stocklens/internal/api/middleware"
	"github.com/rmarques/stocklens/internal/service"
)

func NewRouter(analytics *service.AnalyticsService, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if analytics != nil {
		handler := handlers.NewAnalyticsHandler(analytics)
		analyticsGroup := apiGroup.Group("/analytics")
		{
			analyticsGroup.GET("/products/:id/demand", handler.GetDemand)
			analyticsGroup.GET("/stockouts", handler.GetStockouts)
			analyticsGroup.GET("/pending_orders", handler.GetPendingOrders)
			analyticsGroup.GET("/risks", handler.GetImminentRisks)
			analyticsGroup.GET("/suggestions", handler.GetPurchaseSuggestions)
			analyticsGroup.GET("/suggestions/by_supplier", handler.GetSupplierGroups)
			analyticsGroup.GET("/suggestions/export", handler.ExportSuggestionsCSV)
			analyticsGroup.GET("/slow_moving", handler.GetSlowMoving)
			analyticsGroup.GET("/losses", handler.GetStockLosses)
			analyticsGroup.GET("/turnover", handler.GetTurnover)
			analyticsGroup.GET("/abc", handler.GetABC)
			analyticsGroup.GET("/profitability", handler.GetProfitability)
			analyticsGroup.GET("/operational_issues", handler.GetOperationalIssues)
			analyticsGroup.GET("/dashboard", handler.GetDashboard)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
