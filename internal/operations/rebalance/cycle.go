package rebalance

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"MomentumBot/internal/models"
	"MomentumBot/internal/repositories"
	"MomentumBot/internal/services/allocation"
	"MomentumBot/internal/services/fx"
	"MomentumBot/internal/services/ledger"
	"MomentumBot/internal/services/momentum"
	"MomentumBot/internal/services/regime"
)

// Cycle runs one live decision pass against the persisted account: classify
// the regime, rank the universe, mark holdings to market, build the target
// allocation and reconcile it through the executor.
type Cycle struct {
	priceRepo    *repositories.PriceRepository
	tradeRepo    *repositories.TradeRepository
	cashFlowRepo *repositories.CashFlowRepository

	ledger   *ledger.Ledger
	detector *regime.Detector
	scorer   *momentum.Scorer
	builder  *allocation.Builder
	executor *Executor
	rates    fx.RateProvider

	benchmark  string
	universe   []string
	topN       int
	safeAsset  string
	roc12Floor float64
}

type CycleDeps struct {
	PriceRepo    *repositories.PriceRepository
	TradeRepo    *repositories.TradeRepository
	CashFlowRepo *repositories.CashFlowRepository
	Ledger       *ledger.Ledger
	Detector     *regime.Detector
	Scorer       *momentum.Scorer
	Builder      *allocation.Builder
	Executor     *Executor
	Rates        fx.RateProvider
}

func NewCycle(deps CycleDeps, benchmark string, universe []string, topN int, safeAsset string, roc12Floor float64) *Cycle {
	if roc12Floor == 0 {
		roc12Floor = DefaultROC12Floor
	}
	return &Cycle{
		priceRepo:    deps.PriceRepo,
		tradeRepo:    deps.TradeRepo,
		cashFlowRepo: deps.CashFlowRepo,
		ledger:       deps.Ledger,
		detector:     deps.Detector,
		scorer:       deps.Scorer,
		builder:      deps.Builder,
		executor:     deps.Executor,
		rates:        deps.Rates,
		benchmark:    benchmark,
		universe:     universe,
		topN:         topN,
		safeAsset:    safeAsset,
		roc12Floor:   roc12Floor,
	}
}

// Run executes the cycle as of the given date and returns the executed
// trades. An empty benchmark history or universe is fatal; a single bad
// ticker is not.
func (c *Cycle) Run(asOf time.Time) ([]models.Trade, error) {
	if len(c.universe) == 0 {
		return nil, fmt.Errorf("universe is empty")
	}

	bench, err := c.priceRepo.GetCloseSeries(c.benchmark, asOf)
	if err != nil {
		return nil, fmt.Errorf("load benchmark %s: %w", c.benchmark, err)
	}
	if bench.Len() == 0 {
		return nil, fmt.Errorf("no price history for benchmark %s", c.benchmark)
	}

	reg := c.detector.Classify(bench)
	log.Info().Time("asOf", asOf).Str("regime", string(reg)).Msg("regime classified")

	universe := make(map[string]models.PriceSeries, len(c.universe))
	for _, ticker := range c.universe {
		series, err := c.priceRepo.GetCloseSeries(ticker, asOf)
		if err != nil {
			return nil, fmt.Errorf("load prices for %s: %w", ticker, err)
		}
		if series.Len() == 0 {
			log.Warn().Str("ticker", ticker).Msg("no price history, excluding from ranking")
			continue
		}
		universe[ticker] = series
	}

	records := c.scorer.Score(universe, asOf)

	cash, err := c.currentCash()
	if err != nil {
		return nil, err
	}

	positions, err := c.ledger.Positions()
	if err != nil {
		return nil, err
	}

	prices, err := c.lastPrices(asOf, positions)
	if err != nil {
		return nil, err
	}

	equity := cash
	for _, pos := range positions {
		price, ok := prices[pos.Ticker]
		if !ok {
			continue
		}
		equity += pos.Units * price * c.rates.Rate(pos.Currency)
	}
	log.Info().Float64("cash", cash).Float64("equity", equity).Msg("marked to market")

	targets := c.builder.Build(equity, reg, records, c.topN, c.rates, c.safeAsset)

	forceSell := SellReasons(reg, targets, positions, records, c.roc12Floor)
	trades, _, err := c.executor.Reconcile(targets, cash, prices, c.rates, asOf, reg, forceSell)
	if err != nil {
		return trades, err
	}

	if err := c.ledger.RecordEquitySnapshot(asOf, equity); err != nil {
		return trades, err
	}
	return trades, nil
}

// currentCash derives purchasing power from the audit tables: net deposits
// plus sale proceeds minus purchase costs, all in base currency.
func (c *Cycle) currentCash() (float64, error) {
	net, err := c.cashFlowRepo.NetAmount()
	if err != nil {
		return 0, fmt.Errorf("sum cash flows: %w", err)
	}
	bought, err := c.tradeRepo.SumValueBySide(models.TradeSideBuy)
	if err != nil {
		return 0, fmt.Errorf("sum buys: %w", err)
	}
	sold, err := c.tradeRepo.SumValueBySide(models.TradeSideSell)
	if err != nil {
		return 0, fmt.Errorf("sum sells: %w", err)
	}
	return net + sold - bought, nil
}

// lastPrices collects the most recent close at or before asOf for every
// ticker the cycle may trade: holdings, the universe and the safe asset.
func (c *Cycle) lastPrices(asOf time.Time, positions []models.Position) (map[string]float64, error) {
	tickers := make(map[string]bool, len(c.universe)+len(positions)+1)
	for _, t := range c.universe {
		tickers[t] = true
	}
	for _, pos := range positions {
		tickers[pos.Ticker] = true
	}
	tickers[c.safeAsset] = true

	prices := make(map[string]float64, len(tickers))
	for ticker := range tickers {
		series, err := c.priceRepo.GetCloseSeries(ticker, asOf)
		if err != nil {
			return nil, fmt.Errorf("load prices for %s: %w", ticker, err)
		}
		if price, ok := series.LastCloseAtOrBefore(asOf); ok {
			prices[ticker] = price
		}
	}
	return prices, nil
}
