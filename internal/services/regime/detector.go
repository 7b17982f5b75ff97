package regime

import (
	"MomentumBot/internal/models"
	"MomentumBot/internal/services/indicators"
)

// Rule selects how the benchmark trend is classified.
type Rule string

const (
	// RuleSMA: BULL when the last close is at or above the long moving average.
	RuleSMA Rule = "sma"
	// RuleSMAAndROC additionally requires a positive trailing return.
	RuleSMAAndROC Rule = "sma_and_roc"
)

const (
	DefaultLongLookback   = 200
	DefaultReturnLookback = 252
)

// Detector classifies a benchmark close series into BULL/BEAR/UNKNOWN.
// It is a pure function of the supplied series and its configuration;
// callers truncate the series to the decision date.
type Detector struct {
	longLookback   int
	returnLookback int
	rule           Rule
}

// NewDetector creates a detector. Non-positive lookbacks fall back to the
// 200-session SMA and 252-session return defaults.
func NewDetector(longLookback, returnLookback int, rule Rule) *Detector {
	if longLookback <= 0 {
		longLookback = DefaultLongLookback
	}
	if returnLookback <= 0 {
		returnLookback = DefaultReturnLookback
	}
	if rule == "" {
		rule = RuleSMAAndROC
	}
	return &Detector{
		longLookback:   longLookback,
		returnLookback: returnLookback,
		rule:           rule,
	}
}

// Classify returns UNKNOWN when the series is shorter than the lookback
// windows the configured rule needs. How UNKNOWN is allocated is the
// allocation builder's policy, not a default taken here.
func (d *Detector) Classify(series models.PriceSeries) models.Regime {
	closes := make([]float64, 0, series.Len())
	for _, bar := range series.Bars {
		closes = append(closes, bar.Close)
	}

	sma, ok := indicators.SMA(closes, d.longLookback)
	if !ok {
		return models.RegimeUnknown
	}

	last := closes[len(closes)-1]
	if last < sma {
		return models.RegimeBear
	}

	if d.rule == RuleSMAAndROC {
		roc, ok := indicators.ROC(closes, d.returnLookback)
		if !ok {
			return models.RegimeUnknown
		}
		if roc <= 0 {
			return models.RegimeBear
		}
	}
	return models.RegimeBull
}
