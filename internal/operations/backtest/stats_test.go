package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curve(equities ...float64) []EquityPoint {
	points := make([]EquityPoint, len(equities))
	for i, eq := range equities {
		points[i] = EquityPoint{Date: simStart.AddDate(0, 0, i), Equity: eq}
	}
	return points
}

func TestMaxDrawdown(t *testing.T) {
	// peak 120 to trough 90 is a 25% drawdown
	assert.InDelta(t, -0.25, maxDrawdown(curve(100, 120, 90, 110)), 1e-12)
	assert.InDelta(t, 0.0, maxDrawdown(curve(100, 110, 120)), 1e-12)
	assert.InDelta(t, 0.0, maxDrawdown(nil), 1e-12)
}

func TestComputeStatsReturnsAndCAGR(t *testing.T) {
	// exactly two 365.25-day years between the endpoints
	points := []EquityPoint{
		{Date: simStart, Equity: 1000},
		{Date: simStart.Add(time.Duration(2 * 365.25 * 24 * float64(time.Hour))), Equity: 2000},
	}

	results := computeStats(points, nil, 1000, 2000)
	assert.InDelta(t, 1.0, results.TotalReturn, 1e-12)
	assert.InDelta(t, math.Sqrt2-1.0, results.CAGR, 1e-9)
	assert.Equal(t, 0, results.TotalTrades)
}

func TestComputeStatsTradeMetrics(t *testing.T) {
	closed := []ClosedTrade{
		{Ticker: "A", PnLPct: 10, PnLBase: 400},
		{Ticker: "B", PnLPct: 5, PnLBase: 100},
		{Ticker: "C", PnLPct: -4, PnLBase: -200},
		{Ticker: "D", PnLPct: 0, PnLBase: 0},
	}

	results := computeStats(curve(1000, 1100), closed, 1000, 1100)
	assert.Equal(t, 4, results.TotalTrades)
	assert.Equal(t, 2, results.WinningTrades)
	assert.Equal(t, 2, results.LosingTrades)
	assert.InDelta(t, 0.5, results.WinRate, 1e-12)
	assert.InDelta(t, 500.0/200.0, results.ProfitFactor, 1e-12)
}

func TestComputeStatsProfitFactorInfWithoutLosses(t *testing.T) {
	closed := []ClosedTrade{{Ticker: "A", PnLPct: 10, PnLBase: 400}}

	results := computeStats(curve(1000, 1400), closed, 1000, 1400)
	require.True(t, math.IsInf(results.ProfitFactor, 1))
	assert.InDelta(t, 1.0, results.WinRate, 1e-12)
}

func TestComputeStatsZeroContributions(t *testing.T) {
	results := computeStats(nil, nil, 0, 0)
	assert.InDelta(t, 0.0, results.TotalReturn, 1e-12)
	assert.InDelta(t, 0.0, results.CAGR, 1e-12)
}
