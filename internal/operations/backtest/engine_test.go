package backtest

import (
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomentumBot/internal/models"
	"MomentumBot/internal/operations/rebalance"
	"MomentumBot/internal/services/allocation"
	"MomentumBot/internal/services/fx"
	"MomentumBot/internal/services/momentum"
	"MomentumBot/internal/services/regime"
)

var simStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// dailySeries builds one bar per calendar day with closes interpolated
// between from and to.
func dailySeries(ticker string, n int, from, to float64) models.PriceSeries {
	bars := make([]models.PriceBar, n)
	for i := range bars {
		bars[i] = models.PriceBar{
			Date:  simStart.AddDate(0, 0, i),
			Close: from + (to-from)*float64(i)/float64(n-1),
		}
	}
	return models.PriceSeries{Ticker: ticker, Bars: bars}
}

func flatSeries(ticker string, n int, close float64) models.PriceSeries {
	return dailySeries(ticker, n, close, close)
}

func newSimEngine(config Config) *Engine {
	return NewEngine(
		regime.NewDetector(5, 5, regime.RuleSMA),
		momentum.NewScorer(momentum.DefaultWeights),
		allocation.NewBuilder(allocation.SchemeEqual, allocation.UnknownAsBear),
		fx.NewStaticProvider("PLN", map[string]float64{"USD": 4.0, "EUR": 4.4}),
		config,
	)
}

func TestRunBullMarket(t *testing.T) {
	benchmark := dailySeries("SPY", 600, 100, 200)
	universe := map[string]models.PriceSeries{
		"AAPL": dailySeries("AAPL", 600, 100, 200),
		"MSFT": dailySeries("MSFT", 600, 100, 150),
	}

	config := NewConfig()
	config.StartDate = simStart.AddDate(0, 0, 300)
	config.EndDate = simStart.AddDate(0, 0, 599)
	config.TopN = 2
	config.Contribution = 1000
	config.ContributionDay = 10
	config.Sizing = rebalance.SizingFractional

	results, err := newSimEngine(config).Run(benchmark, universe, nil)
	require.NoError(t, err)

	// Oct 2020 through Aug 2021, one contribution each
	assert.InDelta(t, 11*1000.0, results.TotalContributions, 1e-9)
	assert.Len(t, results.EquityCurve, 300)
	assert.Greater(t, results.FinalEquity, results.TotalContributions)
	assert.Greater(t, results.TotalReturn, 0.0)
	assert.Greater(t, results.CAGR, 0.0)
	assert.LessOrEqual(t, results.MaxDrawdown, 0.0)
	assert.Greater(t, results.TotalTrades, 0)
	assert.Greater(t, results.WinRate, 0.0)
	assert.Empty(t, results.Skipped)
}

func TestRunBearMarketHoldsSafeAsset(t *testing.T) {
	benchmark := dailySeries("SPY", 600, 200, 100)
	universe := map[string]models.PriceSeries{
		"AAPL": dailySeries("AAPL", 600, 100, 200),
	}
	extra := map[string]models.PriceSeries{
		"ZPR1.DE": flatSeries("ZPR1.DE", 600, 100),
	}

	config := NewConfig()
	config.StartDate = simStart.AddDate(0, 0, 300)
	config.EndDate = simStart.AddDate(0, 0, 599)
	config.Contribution = 1000
	config.Sizing = rebalance.SizingFractional

	results, err := newSimEngine(config).Run(benchmark, universe, extra)
	require.NoError(t, err)

	// fully parked in a flat safe asset: equity tracks contributions exactly
	assert.InDelta(t, results.TotalContributions, results.FinalEquity, 1e-6)
	assert.InDelta(t, 0.0, results.TotalReturn, 1e-9)
	for _, trade := range results.Trades {
		assert.Equal(t, "ZPR1.DE", trade.Ticker)
	}
}

func TestRunLiquidatesOnBearFlip(t *testing.T) {
	// benchmark climbs for 480 days, then rolls over one point a day
	bars := make([]models.PriceBar, 600)
	for i := range bars {
		px := 100 + float64(i)*0.25
		if i >= 480 {
			px = 220 - float64(i-480)
		}
		bars[i] = models.PriceBar{Date: simStart.AddDate(0, 0, i), Close: px}
	}
	benchmark := models.PriceSeries{Ticker: "SPY", Bars: bars}

	universe := map[string]models.PriceSeries{
		"AAPL": dailySeries("AAPL", 600, 100, 200),
		"MSFT": dailySeries("MSFT", 600, 100, 180),
	}
	extra := map[string]models.PriceSeries{
		"ZPR1.DE": flatSeries("ZPR1.DE", 600, 100),
	}

	config := NewConfig()
	config.StartDate = simStart.AddDate(0, 0, 300)
	config.EndDate = simStart.AddDate(0, 0, 599)
	config.TopN = 2
	config.Contribution = 1000
	config.Sizing = rebalance.SizingFractional

	engine := newSimEngine(config)
	results, err := engine.Run(benchmark, universe, extra)
	require.NoError(t, err)

	// locate the first rebalance date the benchmark classifies as BEAR
	var rebalances []time.Time
	for d := range contributionDates(engine.tradingCalendar(benchmark), config.ContributionDay) {
		rebalances = append(rebalances, d)
	}
	sort.Slice(rebalances, func(i, j int) bool { return rebalances[i].Before(rebalances[j]) })

	detector := regime.NewDetector(5, 5, regime.RuleSMA)
	var flip time.Time
	for _, d := range rebalances {
		if detector.Classify(benchmark.TruncateTo(d)) == models.RegimeBear {
			flip = d
			break
		}
	}
	require.False(t, flip.IsZero())
	// positions must have been accumulated during the bull phase first
	require.True(t, flip.After(rebalances[0]))

	// every ranked holding is closed out in the flip cycle, and nothing
	// but the safe asset is opened afterwards
	flipExits := make(map[string]bool)
	for _, trade := range results.Trades {
		if trade.Ticker == "ZPR1.DE" {
			assert.False(t, trade.EntryDate.Before(flip))
			continue
		}
		assert.False(t, trade.ExitDate.After(flip))
		if trade.ExitDate.Equal(flip) {
			flipExits[trade.Ticker] = true
		}
	}
	assert.Len(t, flipExits, 2)
}

func TestRunFailsOnEmptyCalendar(t *testing.T) {
	config := NewConfig()
	config.StartDate = simStart.AddDate(10, 0, 0)
	config.EndDate = simStart.AddDate(11, 0, 0)

	_, err := newSimEngine(config).Run(dailySeries("SPY", 600, 100, 200), map[string]models.PriceSeries{
		"AAPL": dailySeries("AAPL", 600, 100, 200),
	}, nil)
	assert.Error(t, err)
}

func TestRunFailsOnEmptyUniverse(t *testing.T) {
	config := NewConfig()
	config.StartDate = simStart
	config.EndDate = simStart.AddDate(0, 0, 599)

	_, err := newSimEngine(config).Run(dailySeries("SPY", 600, 100, 200), nil, nil)
	assert.Error(t, err)
}

func TestRunFlagsMissingTerminalPrice(t *testing.T) {
	benchmark := dailySeries("SPY", 600, 100, 200)
	// the ranked ticker's history ends before the window does
	universe := map[string]models.PriceSeries{
		"AAPL": dailySeries("AAPL", 500, 100, 200),
		"MSFT": dailySeries("MSFT", 600, 100, 180),
	}

	config := NewConfig()
	config.StartDate = simStart.AddDate(0, 0, 300)
	config.EndDate = simStart.AddDate(0, 0, 599)
	config.TopN = 2
	config.Contribution = 1000
	config.Sizing = rebalance.SizingFractional

	results, err := newSimEngine(config).Run(benchmark, universe, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, results.Skipped)
}

func TestContributionDates(t *testing.T) {
	var calendar []time.Time
	for i := 0; i < 90; i++ {
		calendar = append(calendar, simStart.AddDate(0, 0, i))
	}

	dates := contributionDates(calendar, 10)
	require.Len(t, dates, 3)
	assert.True(t, dates[time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)])
	assert.True(t, dates[time.Date(2020, 2, 10, 0, 0, 0, 0, time.UTC)])
	assert.True(t, dates[time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC)])
}

func TestContributionDatesShiftToNextTradingDay(t *testing.T) {
	// calendar with the 10th missing: the contribution lands on the 11th
	var calendar []time.Time
	for i := 0; i < 31; i++ {
		d := simStart.AddDate(0, 0, i)
		if d.Day() == 10 {
			continue
		}
		calendar = append(calendar, d)
	}

	dates := contributionDates(calendar, 10)
	require.Len(t, dates, 1)
	assert.True(t, dates[time.Date(2020, 1, 11, 0, 0, 0, 0, time.UTC)])
}

func TestSettleRoundTrips(t *testing.T) {
	entries := make(map[string]*entry)
	d1 := simStart
	d2 := simStart.AddDate(0, 1, 0)

	closed := settleRoundTrips(entries, []models.Trade{
		{Ticker: "AAPL", Side: models.TradeSideBuy, Units: 10, Price: 100, Timestamp: d1},
	})
	assert.Empty(t, closed)

	// second buy re-averages the open entry
	closed = settleRoundTrips(entries, []models.Trade{
		{Ticker: "AAPL", Side: models.TradeSideBuy, Units: 10, Price: 120, Timestamp: d1},
	})
	assert.Empty(t, closed)
	require.Contains(t, entries, "AAPL")
	assert.InDelta(t, 110.0, entries["AAPL"].price, 1e-12)

	closed = settleRoundTrips(entries, []models.Trade{
		{Ticker: "AAPL", Side: models.TradeSideSell, Units: 20, Price: 121, Timestamp: d2, FxRate: 4.0},
	})
	require.Len(t, closed, 1)
	assert.NotContains(t, entries, "AAPL")
	assert.InDelta(t, 10.0, closed[0].PnLPct, 1e-9)
	assert.InDelta(t, 20*(121-110)*4.0, closed[0].PnLBase, 1e-9)
	assert.True(t, math.Abs(closed[0].PnLBase) > 0)
}
