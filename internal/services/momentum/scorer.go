package momentum

import (
	"sort"
	"time"

	"MomentumBot/internal/models"
	"MomentumBot/internal/services/indicators"
)

// Session-count proxies for 3/6/12 calendar months (~21 sessions a month).
const (
	Offset3M  = 63
	Offset6M  = 126
	Offset12M = 252
)

// Weights blend the three trailing returns into one composite score.
type Weights struct {
	ROC3  float64 `yaml:"roc3"`
	ROC6  float64 `yaml:"roc6"`
	ROC12 float64 `yaml:"roc12"`
}

// DefaultWeights is the canonical 0.3/0.3/0.4 blend.
var DefaultWeights = Weights{ROC3: 0.3, ROC6: 0.3, ROC12: 0.4}

func (w Weights) isZero() bool {
	return w.ROC3 == 0 && w.ROC6 == 0 && w.ROC12 == 0
}

// Scorer ranks a universe of price series by composite trailing return.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer. Zero weights fall back to DefaultWeights.
func NewScorer(weights Weights) *Scorer {
	if weights.isZero() {
		weights = DefaultWeights
	}
	return &Scorer{weights: weights}
}

// Score computes MomentumRecords for every ticker with enough history as of
// the given date and returns them sorted by score descending, ties broken
// by ticker. A ticker missing any of the three lookbacks is excluded
// entirely. Never returns an error: an empty universe yields an empty slice.
func (s *Scorer) Score(universe map[string]models.PriceSeries, asOf time.Time) []models.MomentumRecord {
	records := make([]models.MomentumRecord, 0, len(universe))

	for ticker, series := range universe {
		idx := series.IndexAtOrBefore(asOf)
		if idx < 0 {
			continue
		}
		closes := make([]float64, idx+1)
		for i := 0; i <= idx; i++ {
			closes[i] = series.Bars[i].Close
		}

		roc3, ok3 := indicators.ROC(closes, Offset3M)
		roc6, ok6 := indicators.ROC(closes, Offset6M)
		roc12, ok12 := indicators.ROC(closes, Offset12M)
		if !ok3 || !ok6 || !ok12 {
			continue
		}

		records = append(records, models.MomentumRecord{
			Ticker: ticker,
			ROC3:   roc3,
			ROC6:   roc6,
			ROC12:  roc12,
			Score:  s.weights.ROC3*roc3 + s.weights.ROC6*roc6 + s.weights.ROC12*roc12,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].Ticker < records[j].Ticker
	})
	return records
}
