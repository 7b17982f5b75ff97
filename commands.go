package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"MomentumBot/config"
	"MomentumBot/internal/models"
	"MomentumBot/internal/operations/backtest"
	"MomentumBot/internal/operations/price"
	"MomentumBot/internal/operations/rebalance"
	"MomentumBot/internal/repositories"
	"MomentumBot/internal/services/allocation"
	"MomentumBot/internal/services/fx"
	"MomentumBot/internal/services/ledger"
	"MomentumBot/internal/services/momentum"
	"MomentumBot/internal/services/regime"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "momentumbot",
		Short:         "Momentum portfolio rebalancing engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newInitDBCmd(cfg),
		newImportCmd(cfg),
		newDepositCmd(cfg),
		newRebalanceCmd(cfg),
		newBacktestCmd(cfg),
	)
	return root
}

func newInitDBCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create or migrate the account tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := setupDatabase(cfg.Database)
			if err != nil {
				return err
			}
			return db.AutoMigrate(
				&models.Position{},
				&models.Trade{},
				&models.CashFlow{},
				&models.EquitySnapshot{},
				&models.Price{},
			)
		},
	}
}

func newImportCmd(cfg *config.Config) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import per-ticker CSV price history into the prices table",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := setupDatabase(cfg.Database)
			if err != nil {
				return err
			}
			importer := price.NewImporter(repositories.NewPriceRepository(db))
			n, err := importer.ImportDir(dir)
			if err != nil {
				return err
			}
			log.Info().Int("bars", n).Str("dir", dir).Msg("import complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", cfg.Portfolio.PriceDataDir, "directory with <TICKER>.csv files")
	return cmd
}

func newDepositCmd(cfg *config.Config) *cobra.Command {
	var amount float64
	var withdraw bool
	var note string
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Record a deposit (or withdrawal) in base currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			if amount <= 0 {
				return fmt.Errorf("--amount must be positive")
			}
			db, err := setupDatabase(cfg.Database)
			if err != nil {
				return err
			}
			led := newDBLedger(db)
			if withdraw {
				amount = -amount
			}
			return led.RecordContribution(today(), amount, note)
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount in base currency")
	cmd.Flags().BoolVar(&withdraw, "withdraw", false, "record a withdrawal instead of a deposit")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	return cmd
}

func newRebalanceCmd(cfg *config.Config) *cobra.Command {
	var dateStr string
	cmd := &cobra.Command{
		Use:   "rebalance",
		Short: "Run one live rebalance cycle against the persisted account",
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := parseDateOr(dateStr, today())
			if err != nil {
				return err
			}
			db, err := setupDatabase(cfg.Database)
			if err != nil {
				return err
			}

			detector, scorer, builder, mode, sizing := buildStrategy(cfg)
			led := newDBLedger(db)
			cycle := rebalance.NewCycle(rebalance.CycleDeps{
				PriceRepo:    repositories.NewPriceRepository(db),
				TradeRepo:    repositories.NewTradeRepository(db),
				CashFlowRepo: repositories.NewCashFlowRepository(db),
				Ledger:       led,
				Detector:     detector,
				Scorer:       scorer,
				Builder:      builder,
				Executor:     rebalance.NewExecutor(led, mode, sizing),
				Rates:        newRates(cfg),
			},
				cfg.Portfolio.Benchmark,
				cfg.Portfolio.Universe,
				cfg.Portfolio.TopN,
				cfg.Portfolio.SafeAsset,
				cfg.Strategy.Momentum.SellFloorROC12,
			)

			trades, err := cycle.Run(asOf)
			if err != nil {
				return err
			}
			log.Info().Int("trades", len(trades)).Time("asOf", asOf).Msg("rebalance complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&dateStr, "date", "", "decision date (YYYY-MM-DD, default today)")
	return cmd
}

func newBacktestCmd(cfg *config.Config) *cobra.Command {
	var startStr, endStr, reportDir string
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Simulate the strategy over historical dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateOr(startStr, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
			if err != nil {
				return err
			}
			end, err := parseDateOr(endStr, today())
			if err != nil {
				return err
			}

			db, err := setupDatabase(cfg.Database)
			if err != nil {
				return err
			}
			priceRepo := repositories.NewPriceRepository(db)

			benchmark, err := priceRepo.GetCloseSeries(cfg.Portfolio.Benchmark, end)
			if err != nil {
				return err
			}

			universe := make(map[string]models.PriceSeries, len(cfg.Portfolio.Universe))
			for _, ticker := range cfg.Portfolio.Universe {
				series, err := priceRepo.GetCloseSeries(ticker, end)
				if err != nil {
					return err
				}
				if series.Len() == 0 {
					log.Warn().Str("ticker", ticker).Msg("no price history, excluding from backtest")
					continue
				}
				universe[ticker] = series
			}

			extra := make(map[string]models.PriceSeries, 1)
			if safe, err := priceRepo.GetCloseSeries(cfg.Portfolio.SafeAsset, end); err == nil && safe.Len() > 0 {
				extra[cfg.Portfolio.SafeAsset] = safe
			}

			detector, scorer, builder, mode, sizing := buildStrategy(cfg)
			btConfig := backtest.Config{
				StartDate:       start,
				EndDate:         end,
				TopN:            cfg.Portfolio.TopN,
				SafeAsset:       cfg.Portfolio.SafeAsset,
				Contribution:    cfg.Portfolio.ContributionAmount,
				ContributionDay: cfg.Portfolio.ContributionDay,
				Mode:            mode,
				Sizing:          sizing,
				ROC12Floor:      cfg.Strategy.Momentum.SellFloorROC12,
			}
			engine := backtest.NewEngine(detector, scorer, builder, newRates(cfg), btConfig)

			results, err := engine.Run(benchmark, universe, extra)
			if err != nil {
				return err
			}

			printResults(results)
			if err := writeReports(reportDir, results); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&startStr, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "end date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&reportDir, "reports", "reports", "directory for equity/trade CSV reports")
	return cmd
}

func buildStrategy(cfg *config.Config) (*regime.Detector, *momentum.Scorer, *allocation.Builder, rebalance.Mode, rebalance.Sizing) {
	s := cfg.Strategy
	detector := regime.NewDetector(s.Regime.LongLookback, s.Regime.ReturnLookback, regime.Rule(s.Regime.Rule))
	scorer := momentum.NewScorer(momentum.Weights{
		ROC3:  s.Momentum.Weights.ROC3,
		ROC6:  s.Momentum.Weights.ROC6,
		ROC12: s.Momentum.Weights.ROC12,
	})
	builder := allocation.NewBuilder(allocation.Scheme(s.Allocation.Scheme), allocation.UnknownPolicy(s.Regime.UnknownPolicy))
	builder.SetWeightBounds(s.Allocation.MinWeight, s.Allocation.MaxWeight)
	return detector, scorer, builder, rebalance.Mode(s.Rebalance.Mode), rebalance.Sizing(s.Rebalance.Sizing)
}

func newRates(cfg *config.Config) fx.RateProvider {
	rates := cfg.Portfolio.FXRates
	if len(rates) == 0 {
		rates = fx.FallbackRates
	}
	return fx.NewStaticProvider(cfg.Portfolio.BaseCurrency, rates)
}

func newDBLedger(db *gorm.DB) *ledger.Ledger {
	return ledger.New(ledger.NewDBStore(
		repositories.NewPositionRepository(db),
		repositories.NewTradeRepository(db),
		repositories.NewCashFlowRepository(db),
		repositories.NewEquityRepository(db),
	))
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDateOr(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

func printResults(results *backtest.Results) {
	fmt.Println("\n=== Backtest Results ===")
	fmt.Printf("Total Contributions: %.2f\n", results.TotalContributions)
	fmt.Printf("Final Equity:        %.2f\n", results.FinalEquity)
	fmt.Printf("Total Return:        %.2f%%\n", results.TotalReturn*100)
	fmt.Printf("CAGR:                %.2f%%\n", results.CAGR*100)
	fmt.Printf("Max Drawdown:        %.2f%%\n", results.MaxDrawdown*100)
	fmt.Printf("Total Trades:        %d\n", results.TotalTrades)
	if results.TotalTrades > 0 {
		fmt.Printf("Win Rate:            %.2f%%\n", results.WinRate*100)
		fmt.Printf("Profit Factor:       %.2f\n", results.ProfitFactor)
	}
	if len(results.Skipped) > 0 {
		fmt.Printf("Skipped:             %d tickers/dates (see reports)\n", len(results.Skipped))
	}
}
