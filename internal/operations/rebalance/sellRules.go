package rebalance

import "MomentumBot/internal/models"

// DefaultROC12Floor flags a held ticker for sale once its 12-month return
// drops below -5%, even if it is still in the target set.
const DefaultROC12Floor = -5.0

// SellReasons evaluates the incremental-mode sell rules for held tickers,
// in priority order: a BEAR regime sells everything, then decayed momentum,
// then departure from the target set. The result maps ticker to reason and
// is handed to Reconcile as its forceSell argument.
func SellReasons(
	regime models.Regime,
	targets []models.AllocationTarget,
	held []models.Position,
	records []models.MomentumRecord,
	roc12Floor float64,
) map[string]string {
	reasons := make(map[string]string)

	if regime == models.RegimeBear {
		for _, pos := range held {
			reasons[pos.Ticker] = "BEAR SELL ALL"
		}
		return reasons
	}

	roc12 := make(map[string]float64, len(records))
	for _, rec := range records {
		roc12[rec.Ticker] = rec.ROC12
	}
	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t.Ticker] = true
	}

	for _, pos := range held {
		if r, ok := roc12[pos.Ticker]; ok && r < roc12Floor {
			reasons[pos.Ticker] = "MOMENTUM SELL"
			continue
		}
		if !targetSet[pos.Ticker] {
			reasons[pos.Ticker] = "LEFT TARGET SET"
		}
	}
	return reasons
}
