package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomentumBot/internal/models"
	"MomentumBot/internal/services/fx"
)

var testRates = fx.NewStaticProvider("PLN", map[string]float64{"USD": 4.0, "EUR": 4.4})

func candidates(tickers ...string) []models.MomentumRecord {
	records := make([]models.MomentumRecord, len(tickers))
	for i, ticker := range tickers {
		records[i] = models.MomentumRecord{Ticker: ticker, Score: float64(len(tickers) - i)}
	}
	return records
}

func weightSum(targets []models.AllocationTarget) float64 {
	sum := 0.0
	for _, t := range targets {
		sum += t.Weight
	}
	return sum
}

func TestBuildNilOnNonPositiveEquity(t *testing.T) {
	b := NewBuilder(SchemeEqual, UnknownAsBear)
	assert.Nil(t, b.Build(0, models.RegimeBull, candidates("AAPL"), 5, testRates, "ZPR1.DE"))
	assert.Nil(t, b.Build(-100, models.RegimeBull, candidates("AAPL"), 5, testRates, "ZPR1.DE"))
}

func TestBuildBearGoesToSafeAsset(t *testing.T) {
	b := NewBuilder(SchemeEqual, UnknownAsBear)
	targets := b.Build(10000, models.RegimeBear, candidates("AAPL", "MSFT"), 5, testRates, "ZPR1.DE")

	require.Len(t, targets, 1)
	assert.Equal(t, "ZPR1.DE", targets[0].Ticker)
	assert.Equal(t, "EUR", targets[0].Currency)
	assert.InDelta(t, 1.0, targets[0].Weight, 1e-12)
	assert.InDelta(t, 10000.0, targets[0].TargetValueBase, 1e-9)
	assert.InDelta(t, 10000.0/4.4, targets[0].TargetValueCcy, 1e-9)
}

func TestBuildBullWithNoCandidatesGoesToSafeAsset(t *testing.T) {
	b := NewBuilder(SchemeEqual, UnknownAsBear)
	targets := b.Build(10000, models.RegimeBull, nil, 5, testRates, "ZPR1.DE")

	require.Len(t, targets, 1)
	assert.Equal(t, "ZPR1.DE", targets[0].Ticker)
}

func TestBuildEqualWeights(t *testing.T) {
	b := NewBuilder(SchemeEqual, UnknownAsBear)
	targets := b.Build(9000, models.RegimeBull, candidates("AAPL", "MSFT", "NVDA"), 5, testRates, "ZPR1.DE")

	require.Len(t, targets, 3)
	for _, target := range targets {
		assert.InDelta(t, 1.0/3.0, target.Weight, 1e-12)
		assert.Equal(t, "USD", target.Currency)
		assert.InDelta(t, 3000.0, target.TargetValueBase, 1e-9)
	}
	assert.InDelta(t, 1.0, weightSum(targets), 1e-9)
}

func TestBuildTruncatesToTopN(t *testing.T) {
	b := NewBuilder(SchemeEqual, UnknownAsBear)
	targets := b.Build(10000, models.RegimeBull, candidates("A", "B", "C", "D", "E"), 2, testRates, "ZPR1.DE")

	require.Len(t, targets, 2)
	assert.Equal(t, "A", targets[0].Ticker)
	assert.Equal(t, "B", targets[1].Ticker)
	assert.InDelta(t, 1.0, weightSum(targets), 1e-9)
}

func TestBuildQualityWeights(t *testing.T) {
	b := NewBuilder(SchemeQuality, UnknownAsBear)
	records := []models.MomentumRecord{
		{Ticker: "HOT", Score: 40},
		{Ticker: "WARM", Score: 10},
		{Ticker: "COLD", Score: -5},
	}
	targets := b.Build(10000, models.RegimeBull, records, 5, testRates, "ZPR1.DE")

	require.Len(t, targets, 3)
	assert.InDelta(t, 1.0, weightSum(targets), 1e-9)
	// stronger score never gets the smaller slot
	assert.GreaterOrEqual(t, targets[0].Weight, targets[1].Weight)
	assert.GreaterOrEqual(t, targets[1].Weight, targets[2].Weight)
	// the negative-score candidate keeps a slot via the floor
	assert.Greater(t, targets[2].Weight, 0.0)
}

func TestBuildUnknownPolicy(t *testing.T) {
	asBear := NewBuilder(SchemeEqual, UnknownAsBear)
	targets := asBear.Build(10000, models.RegimeUnknown, candidates("AAPL"), 5, testRates, "ZPR1.DE")
	require.Len(t, targets, 1)
	assert.Equal(t, "ZPR1.DE", targets[0].Ticker)

	asBull := NewBuilder(SchemeEqual, UnknownAsBull)
	targets = asBull.Build(10000, models.RegimeUnknown, candidates("AAPL"), 5, testRates, "ZPR1.DE")
	require.Len(t, targets, 1)
	assert.Equal(t, "AAPL", targets[0].Ticker)
}

func TestDetectCurrencyBySuffix(t *testing.T) {
	assert.Equal(t, "EUR", fx.DetectCurrency("ZPR1.DE"))
	assert.Equal(t, "PLN", fx.DetectCurrency("PKN.WA"))
	assert.Equal(t, "USD", fx.DetectCurrency("AAPL"))
}
