package backtest

import (
	"time"

	"MomentumBot/internal/operations/rebalance"
)

// Config drives one simulation run.
type Config struct {
	StartDate time.Time
	EndDate   time.Time

	TopN      int
	SafeAsset string

	// Contribution is added to cash on each contribution date, in base
	// currency. ContributionDay is the day of month, shifted forward to the
	// next trading date when it falls on a non-trading day.
	Contribution    float64
	ContributionDay int

	Mode       rebalance.Mode
	Sizing     rebalance.Sizing
	ROC12Floor float64
}

// NewConfig returns a config with the reference deployment's defaults.
func NewConfig() Config {
	return Config{
		TopN:            5,
		SafeAsset:       "ZPR1.DE",
		Contribution:    2000.0,
		ContributionDay: 10,
		Mode:            rebalance.ModeFullLiquidation,
		Sizing:          rebalance.SizingWholeUnits,
		ROC12Floor:      rebalance.DefaultROC12Floor,
	}
}

// EquityPoint is one mark-to-market observation.
type EquityPoint struct {
	Date   time.Time
	Equity float64
}

// ClosedTrade is one completed round trip, used for win/loss statistics.
type ClosedTrade struct {
	Ticker     string
	EntryDate  time.Time
	ExitDate   time.Time
	EntryPrice float64
	ExitPrice  float64
	Units      float64
	PnLBase    float64
	PnLPct     float64
}

// Results summarizes a finished simulation.
type Results struct {
	TotalContributions float64
	FinalEquity        float64
	TotalReturn        float64 // fraction of contributed capital
	CAGR               float64
	MaxDrawdown        float64 // negative fraction

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	ProfitFactor  float64 // +Inf when there are no losing trades

	Trades      []ClosedTrade
	EquityCurve []EquityPoint
	Skipped     []string // tickers/dates excluded along the way
}
