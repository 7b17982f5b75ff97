package backtest

import "math"

// computeStats derives the summary metrics from the equity curve and the
// closed round trips.
//
// CAGR is computed on total return over contributed capital:
// (1 + totalReturn)^(1/years) - 1, with years measured in 365.25-day
// units between the first and last equity points.
func computeStats(equityCurve []EquityPoint, closed []ClosedTrade, contributions, finalEquity float64) *Results {
	results := &Results{
		TotalContributions: contributions,
		FinalEquity:        finalEquity,
		Trades:             closed,
		EquityCurve:        equityCurve,
	}

	if contributions > 0 {
		results.TotalReturn = finalEquity/contributions - 1.0
	}

	if len(equityCurve) > 1 {
		days := equityCurve[len(equityCurve)-1].Date.Sub(equityCurve[0].Date).Hours() / 24.0
		years := days / 365.25
		if years > 0 && results.TotalReturn > -1.0 {
			results.CAGR = math.Pow(1.0+results.TotalReturn, 1.0/years) - 1.0
		}
	}

	results.MaxDrawdown = maxDrawdown(equityCurve)

	results.TotalTrades = len(closed)
	if len(closed) == 0 {
		return results
	}

	grossProfit := 0.0
	grossLoss := 0.0
	for _, trade := range closed {
		if trade.PnLPct > 0 {
			results.WinningTrades++
			grossProfit += trade.PnLBase
		} else {
			results.LosingTrades++
			grossLoss += math.Abs(trade.PnLBase)
		}
	}
	results.WinRate = float64(results.WinningTrades) / float64(results.TotalTrades)
	if grossLoss == 0 {
		results.ProfitFactor = math.Inf(1)
	} else {
		results.ProfitFactor = grossProfit / grossLoss
	}
	return results
}

// maxDrawdown is the most negative equity/runningMax - 1 over the curve.
func maxDrawdown(equityCurve []EquityPoint) float64 {
	worst := 0.0
	runningMax := 0.0
	for _, point := range equityCurve {
		if point.Equity > runningMax {
			runningMax = point.Equity
		}
		if runningMax <= 0 {
			continue
		}
		dd := point.Equity/runningMax - 1.0
		if dd < worst {
			worst = dd
		}
	}
	return worst
}
