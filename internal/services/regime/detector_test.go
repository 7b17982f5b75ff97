package regime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"MomentumBot/internal/models"
)

func series(closes []float64) models.PriceSeries {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{Date: start.AddDate(0, 0, i), Close: c}
	}
	return models.PriceSeries{Ticker: "SPY", Bars: bars}
}

func linear(n int, from, to float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return closes
}

func TestClassifyUnknownOnShortHistory(t *testing.T) {
	d := NewDetector(200, 252, RuleSMA)
	assert.Equal(t, models.RegimeUnknown, d.Classify(series(linear(100, 100, 120))))
}

func TestClassifyUnknownWhenReturnWindowShort(t *testing.T) {
	// enough for the SMA but not for the trailing return
	d := NewDetector(200, 252, RuleSMAAndROC)
	assert.Equal(t, models.RegimeUnknown, d.Classify(series(linear(210, 100, 120))))

	// the SMA-only rule does not need the return window
	d = NewDetector(200, 252, RuleSMA)
	assert.Equal(t, models.RegimeBull, d.Classify(series(linear(210, 100, 120))))
}

func TestClassifyBullOnUptrend(t *testing.T) {
	d := NewDetector(200, 252, RuleSMAAndROC)
	assert.Equal(t, models.RegimeBull, d.Classify(series(linear(300, 100, 200))))
}

func TestClassifyBearBelowAverage(t *testing.T) {
	d := NewDetector(200, 252, RuleSMA)
	assert.Equal(t, models.RegimeBear, d.Classify(series(linear(300, 200, 100))))
}

func TestClassifyBearOnNegativeTrailingReturn(t *testing.T) {
	// Gap down early, then a slow recovery: the last close sits above the
	// 200-session average but below the close 252 sessions ago.
	closes := make([]float64, 0, 300)
	for i := 0; i < 48; i++ {
		closes = append(closes, 100)
	}
	closes = append(closes, linear(252, 60, 90)...)

	smaOnly := NewDetector(200, 252, RuleSMA)
	assert.Equal(t, models.RegimeBull, smaOnly.Classify(series(closes)))

	both := NewDetector(200, 252, RuleSMAAndROC)
	assert.Equal(t, models.RegimeBear, both.Classify(series(closes)))
}

func TestNewDetectorDefaults(t *testing.T) {
	d := NewDetector(0, 0, "")
	assert.Equal(t, DefaultLongLookback, d.longLookback)
	assert.Equal(t, DefaultReturnLookback, d.returnLookback)
	assert.Equal(t, RuleSMAAndROC, d.rule)
}
