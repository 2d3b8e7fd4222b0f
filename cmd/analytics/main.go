package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/rmarques/stocklens/internal/config"
	"github.com/rmarques/stocklens/internal/domain"
	"github.com/rmarques/stocklens/internal/engine"
	"github.com/rmarques/stocklens/internal/export"
	"github.com/rmarques/stocklens/internal/repository/postgres"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newEngine(c *cli.Context) (*engine.Engine, error) {
	db, err := postgres.NewDBFromURL(c.String("db-url"))
	if err != nil {
		return nil, err
	}
	return engine.New(postgres.NewInventoryRepository(db)), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "analytics",
		Usage: "Run inventory analyses against the transactional database",
		Commands: []*cli.Command{
			{
				Name:  "stockouts",
				Usage: "List products out of stock with recent demand",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{Name: "lookback-days", Value: engine.DefaultLookbackDays},
				},
				Action: func(c *cli.Context) error {
					eng, err := newEngine(c)
					if err != nil {
						return err
					}
					records, err := eng.DetectStockouts(c.Context, engine.StockoutParams{
						LookbackDays: c.Int("lookback-days"),
					})
					if err != nil {
						return err
					}
					return printJSON(records)
				},
			},
			{
				Name:  "risks",
				Usage: "List products at imminent risk of running out",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{Name: "forecast-days", Value: engine.DefaultForecastDays},
					&cli.IntFlag{Name: "history-days", Value: engine.DefaultHistoryDays},
					&cli.IntFlag{Name: "min-days-threshold", Value: engine.DefaultMinDaysThreshold},
				},
				Action: func(c *cli.Context) error {
					eng, err := newEngine(c)
					if err != nil {
						return err
					}
					records, err := eng.DetectImminentRisk(c.Context, engine.RiskParams{
						ForecastDays:     c.Int("forecast-days"),
						HistoryDays:      c.Int("history-days"),
						MinDaysThreshold: c.Int("min-days-threshold"),
					})
					if err != nil {
						return err
					}
					return printJSON(records)
				},
			},
			{
				Name:  "pending",
				Usage: "Summarize pending purchase orders",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.Int64Flag{Name: "product-id", Usage: "Restrict to one product"},
					&cli.IntFlag{Name: "delay-threshold-days", Value: engine.DefaultDelayThresholdDays},
				},
				Action: func(c *cli.Context) error {
					eng, err := newEngine(c)
					if err != nil {
						return err
					}
					summaries, err := eng.SummarizePendingOrders(c.Context, engine.PendingOrderParams{
						ProductID:          c.Int64("product-id"),
						DelayThresholdDays: c.Int("delay-threshold-days"),
					})
					if err != nil {
						return err
					}
					return printJSON(summaries)
				},
			},
			{
				Name:  "suggest",
				Usage: "Generate purchase suggestions, optionally grouped by supplier",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{Name: "forecast-days", Value: engine.DefaultForecastDays},
					&cli.Float64Flag{Name: "safety-buffer", Value: engine.DefaultSafetyBufferRatio},
					&cli.BoolFlag{Name: "by-supplier", Usage: "Group suggestions per supplier"},
				},
				Action: func(c *cli.Context) error {
					eng, err := newEngine(c)
					if err != nil {
						return err
					}
					suggestions, err := eng.SuggestPurchaseOrders(c.Context, engine.SuggestionParams{
						ForecastDays:      c.Int("forecast-days"),
						SafetyBufferRatio: c.Float64("safety-buffer"),
					})
					if err != nil {
						return err
					}
					if !c.Bool("by-supplier") {
						return printJSON(suggestions)
					}
					groups, err := eng.GroupBySupplier(c.Context, suggestions)
					if err != nil {
						return err
					}
					return printJSON(groups)
				},
			},
			{
				Name:  "dashboard",
				Usage: "Build the consolidated alert dashboard",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{Name: "top-alerts", Value: engine.DefaultTopAlerts},
				},
				Action: func(c *cli.Context) error {
					eng, err := newEngine(c)
					if err != nil {
						return err
					}
					dashboard, err := eng.BuildDashboard(c.Context, engine.DashboardParams{
						TopAlerts: c.Int("top-alerts"),
					})
					if err != nil {
						return err
					}
					return printJSON(dashboard)
				},
			},
			{
				Name:  "report",
				Usage: "Render an analysis as CSV, to a file or to object storage",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Report kind (suggestions, risks or stockouts)",
						Value: "suggestions",
					},
					&cli.StringFlag{Name: "out", Usage: "Output file (defaults to stdout)"},
					&cli.BoolFlag{Name: "upload", Usage: "Upload to the configured object storage"},
				},
				Action: runReport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runReport(c *cli.Context) error {
	eng, err := newEngine(c)
	if err != nil {
		return err
	}

	var payload []byte
	kind := c.String("kind")
	switch kind {
	case "suggestions":
		var suggestions []domain.SuggestionRecord
		suggestions, err = eng.SuggestPurchaseOrders(c.Context, engine.SuggestionParams{})
		if err == nil {
			payload, err = export.SuggestionsCSV(suggestions)
		}
	case "risks":
		var risks []domain.RiskRecord
		risks, err = eng.DetectImminentRisk(c.Context, engine.RiskParams{})
		if err == nil {
			payload, err = export.RisksCSV(risks)
		}
	case "stockouts":
		var stockouts []domain.StockoutRecord
		stockouts, err = eng.DetectStockouts(c.Context, engine.StockoutParams{})
		if err == nil {
			payload, err = export.StockoutsCSV(stockouts)
		}
	default:
		return fmt.Errorf("unknown report kind: %s", kind)
	}
	if err != nil {
		return err
	}

	if c.Bool("upload") {
		storage, err := export.NewObjectStorage(config.Load().Export)
		if err != nil {
			return err
		}
		location, err := storage.Upload(c.Context, export.ReportName(kind, time.Now()), payload, "text/csv")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "uploaded to", location)
		return nil
	}

	if out := c.String("out"); out != "" {
		return os.WriteFile(out, payload, 0644)
	}
	_, err = os.Stdout.Write(payload)
	return err
}
