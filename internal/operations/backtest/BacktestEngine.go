package backtest

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"MomentumBot/internal/models"
	"MomentumBot/internal/operations/rebalance"
	"MomentumBot/internal/services/allocation"
	"MomentumBot/internal/services/fx"
	"MomentumBot/internal/services/ledger"
	"MomentumBot/internal/services/momentum"
	"MomentumBot/internal/services/regime"
)

// Engine replays the rebalancing cycle over historical dates. Each run gets
// its own in-memory ledger, so simulations never touch the live account.
// The date loop is strictly sequential: date N's trades settle before date
// N+1 is marked to market.
type Engine struct {
	detector *regime.Detector
	scorer   *momentum.Scorer
	builder  *allocation.Builder
	rates    fx.RateProvider
	config   Config
}

func NewEngine(
	detector *regime.Detector,
	scorer *momentum.Scorer,
	builder *allocation.Builder,
	rates fx.RateProvider,
	config Config,
) *Engine {
	return &Engine{
		detector: detector,
		scorer:   scorer,
		builder:  builder,
		rates:    rates,
		config:   config,
	}
}

// entry tracks the open side of a round trip for trade statistics.
type entry struct {
	date  time.Time
	units float64
	price float64
}

// Run simulates the strategy over the benchmark's trading calendar.
// `universe` is the momentum-ranked candidate set; `extra` carries price
// history for instruments traded but never ranked (the safe asset). An
// empty calendar or universe aborts the run; everything else degrades to
// holding cash or skipping a ticker.
func (e *Engine) Run(benchmark models.PriceSeries, universe, extra map[string]models.PriceSeries) (*Results, error) {
	calendar := e.tradingCalendar(benchmark)
	if len(calendar) == 0 {
		return nil, fmt.Errorf("no trading dates between %s and %s",
			e.config.StartDate.Format("2006-01-02"), e.config.EndDate.Format("2006-01-02"))
	}
	if len(universe) == 0 {
		return nil, fmt.Errorf("universe is empty")
	}

	rebalanceDates := contributionDates(calendar, e.config.ContributionDay)
	log.Info().
		Int("tradingDays", len(calendar)).
		Int("rebalances", len(rebalanceDates)).
		Msg("starting backtest")

	lookup := func(ticker string) models.PriceSeries {
		if series, ok := universe[ticker]; ok {
			return series
		}
		if series, ok := extra[ticker]; ok {
			return series
		}
		if ticker == benchmark.Ticker {
			return benchmark
		}
		return models.PriceSeries{Ticker: ticker}
	}

	store := ledger.NewMemoryStore()
	led := ledger.New(store)
	executor := rebalance.NewExecutor(led, e.config.Mode, e.config.Sizing)

	cash := 0.0
	contributions := 0.0
	entries := make(map[string]*entry)
	var closed []ClosedTrade
	var equityCurve []EquityPoint
	skipped := make(map[string]bool)

	for _, d := range calendar {
		if rebalanceDates[d] {
			cash += e.config.Contribution
			contributions += e.config.Contribution
			if err := led.RecordContribution(d, e.config.Contribution, "monthly contribution"); err != nil {
				return nil, err
			}

			reg := e.detector.Classify(benchmark.TruncateTo(d))

			var records []models.MomentumRecord
			if reg != models.RegimeBear {
				records = e.scorer.Score(universe, d)
			}

			positions, err := led.Positions()
			if err != nil {
				return nil, err
			}
			prices := closesOn(d, universe, positions, e.config.SafeAsset, lookup)

			equity := cash + markValue(positions, prices, e.rates)
			targets := e.builder.Build(equity, reg, records, e.config.TopN, e.rates, e.config.SafeAsset)

			var forceSell map[string]string
			if e.config.Mode == rebalance.ModeIncremental {
				forceSell = rebalance.SellReasons(reg, targets, positions, records, e.config.ROC12Floor)
			}

			trades, remaining, err := executor.Reconcile(targets, cash, prices, e.rates, d, reg, forceSell)
			if err != nil {
				return nil, err
			}
			cash = remaining
			closed = append(closed, settleRoundTrips(entries, trades)...)
		}

		positions, err := led.Positions()
		if err != nil {
			return nil, err
		}

		equity := cash
		for _, pos := range positions {
			price, haveBar := lookup(pos.Ticker).CloseOn(d)
			if !haveBar {
				// No observation today: the position contributes zero and its
				// stale price is not carried forward.
				skipped[pos.Ticker+" "+d.Format("2006-01-02")+": no price"] = true
				continue
			}
			equity += pos.Units * price * e.rates.Rate(pos.Currency)
		}
		equityCurve = append(equityCurve, EquityPoint{Date: d, Equity: equity})
		if err := led.RecordEquitySnapshot(d, equity); err != nil {
			return nil, err
		}
	}

	// Terminal liquidation: close remaining positions at their last known
	// price for statistics only; the as-of equity curve stays as built.
	finalEquity := cash
	lastDate := calendar[len(calendar)-1]
	positions, err := led.Positions()
	if err != nil {
		return nil, err
	}
	for _, pos := range positions {
		price, havePx := lookup(pos.Ticker).LastCloseAtOrBefore(lastDate)
		if !havePx {
			skipped[pos.Ticker+": no terminal price"] = true
			continue
		}
		finalEquity += pos.Units * price * e.rates.Rate(pos.Currency)
		if en, open := entries[pos.Ticker]; open {
			closed = append(closed, closeTrade(pos.Ticker, en, lastDate, price, e.rates.Rate(pos.Currency)))
			delete(entries, pos.Ticker)
		}
	}

	results := computeStats(equityCurve, closed, contributions, finalEquity)
	results.Skipped = sortedKeys(skipped)
	return results, nil
}

// tradingCalendar takes the benchmark's observation dates as the trading
// calendar for the requested window.
func (e *Engine) tradingCalendar(benchmark models.PriceSeries) []time.Time {
	var calendar []time.Time
	for _, bar := range benchmark.Bars {
		if bar.Date.Before(e.config.StartDate) || bar.Date.After(e.config.EndDate) {
			continue
		}
		calendar = append(calendar, bar.Date)
	}
	return calendar
}

// contributionDates maps each month's contribution day onto the first
// trading date at or after it.
func contributionDates(calendar []time.Time, dayOfMonth int) map[time.Time]bool {
	if dayOfMonth <= 0 {
		dayOfMonth = 10
	}
	dates := make(map[time.Time]bool)
	first, last := calendar[0], calendar[len(calendar)-1]

	target := time.Date(first.Year(), first.Month(), dayOfMonth, 0, 0, 0, 0, time.UTC)
	for !target.After(last) {
		idx := sort.Search(len(calendar), func(i int) bool {
			return !calendar[i].Before(target)
		})
		if idx < len(calendar) {
			dates[calendar[idx]] = true
		}
		target = time.Date(target.Year(), target.Month(), dayOfMonth, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	}
	return dates
}

// closesOn collects exact-date closes for every ticker tradable on d:
// the scored universe, the safe asset and anything currently held.
func closesOn(
	d time.Time,
	universe map[string]models.PriceSeries,
	positions []models.Position,
	safeAsset string,
	lookup func(string) models.PriceSeries,
) map[string]float64 {
	prices := make(map[string]float64, len(universe)+len(positions)+1)
	for ticker, series := range universe {
		if price, ok := series.CloseOn(d); ok {
			prices[ticker] = price
		}
	}
	for _, ticker := range append([]string{safeAsset}, tickersOf(positions)...) {
		if _, have := prices[ticker]; have {
			continue
		}
		if price, ok := lookup(ticker).CloseOn(d); ok {
			prices[ticker] = price
		}
	}
	return prices
}

func tickersOf(positions []models.Position) []string {
	tickers := make([]string, 0, len(positions))
	for _, pos := range positions {
		tickers = append(tickers, pos.Ticker)
	}
	return tickers
}

func markValue(positions []models.Position, prices map[string]float64, rates fx.RateProvider) float64 {
	total := 0.0
	for _, pos := range positions {
		if price, ok := prices[pos.Ticker]; ok {
			total += pos.Units * price * rates.Rate(pos.Currency)
		}
	}
	return total
}

// settleRoundTrips folds executed trades into the open-entry table and
// returns the round trips the sells completed.
func settleRoundTrips(entries map[string]*entry, trades []models.Trade) []ClosedTrade {
	var closed []ClosedTrade
	for _, trade := range trades {
		switch trade.Side {
		case models.TradeSideBuy:
			if en, ok := entries[trade.Ticker]; ok {
				total := en.units + trade.Units
				en.price = (en.units*en.price + trade.Units*trade.Price) / total
				en.units = total
			} else {
				entries[trade.Ticker] = &entry{date: trade.Timestamp, units: trade.Units, price: trade.Price}
			}
		case models.TradeSideSell:
			en, ok := entries[trade.Ticker]
			if !ok {
				continue
			}
			closed = append(closed, closeTrade(trade.Ticker, en, trade.Timestamp, trade.Price, trade.FxRate))
			delete(entries, trade.Ticker)
		}
	}
	return closed
}

func closeTrade(ticker string, en *entry, exitDate time.Time, exitPrice, fxRate float64) ClosedTrade {
	return ClosedTrade{
		Ticker:     ticker,
		EntryDate:  en.date,
		ExitDate:   exitDate,
		EntryPrice: en.price,
		ExitPrice:  exitPrice,
		Units:      en.units,
		PnLBase:    en.units * (exitPrice - en.price) * fxRate,
		PnLPct:     (exitPrice/en.price - 1.0) * 100.0,
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
