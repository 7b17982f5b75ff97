package rebalance

import (
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"MomentumBot/internal/models"
	"MomentumBot/internal/services/fx"
	"MomentumBot/internal/services/ledger"
)

// Mode selects how a target allocation is reconciled against held positions.
type Mode string

const (
	// ModeFullLiquidation sells every held position before buying targets.
	// Used for calendar rebalances and on a BEAR transition.
	ModeFullLiquidation Mode = "full"
	// ModeIncremental only sells positions that left the target set (or were
	// flagged by a sell rule); positions both held and targeted stay untouched.
	ModeIncremental Mode = "incremental"
)

// Sizing selects how buy quantities are rounded.
type Sizing string

const (
	SizingWholeUnits Sizing = "whole"
	SizingFractional Sizing = "fractional"
)

// cashTolerance absorbs float noise when a buy uses the whole pool.
const cashTolerance = 1e-6

// Executor diffs a target allocation against the ledger's holdings and
// executes the resulting SELL and BUY trades. Sells always run before buys
// so sale proceeds fund the purchases; a buy can never borrow against an
// unexecuted sale.
type Executor struct {
	ledger *ledger.Ledger
	mode   Mode
	sizing Sizing
}

func NewExecutor(l *ledger.Ledger, mode Mode, sizing Sizing) *Executor {
	if mode == "" {
		mode = ModeFullLiquidation
	}
	if sizing == "" {
		sizing = SizingWholeUnits
	}
	return &Executor{ledger: l, mode: mode, sizing: sizing}
}

// Reconcile executes one rebalance cycle. `prices` holds each ticker's
// quote-currency close as of the cycle date; `cashBase` is the purchasing
// power before sales. It returns the executed trades and the remaining
// cash. Per-ticker problems (missing price, missing position, pool
// exhausted) are logged and skipped, never fatal.
func (e *Executor) Reconcile(
	targets []models.AllocationTarget,
	cashBase float64,
	prices map[string]float64,
	rates fx.RateProvider,
	asOf time.Time,
	regime models.Regime,
	forceSell map[string]string,
) ([]models.Trade, float64, error) {
	var executed []models.Trade

	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t.Ticker] = true
	}

	positions, err := e.ledger.Positions()
	if err != nil {
		return nil, cashBase, err
	}

	cash := cashBase
	held := make(map[string]bool, len(positions))

	for _, pos := range positions {
		note := sellNote(regime)
		if e.mode == ModeIncremental {
			if reason, flagged := forceSell[pos.Ticker]; flagged {
				note = reason
			} else if targetSet[pos.Ticker] {
				held[pos.Ticker] = true
				continue
			}
		}

		price, ok := prices[pos.Ticker]
		if !ok || price <= 0 {
			log.Warn().
				Str("ticker", pos.Ticker).
				Time("date", asOf).
				Msg("no sell price for held position, keeping it this cycle")
			held[pos.Ticker] = true
			continue
		}

		rate := rates.Rate(pos.Currency)
		trade := models.Trade{
			Timestamp: asOf,
			Ticker:    pos.Ticker,
			Side:      models.TradeSideSell,
			Units:     pos.Units,
			Price:     price,
			Currency:  pos.Currency,
			FxRate:    rate,
			ValueBase: pos.Units * price * rate,
			Regime:    string(regime),
			Note:      note,
		}

		err := e.ledger.UpsertOnTrade(pos.Ticker, pos.Currency, -pos.Units, price, asOf)
		if errors.Is(err, ledger.ErrPositionNotFound) {
			log.Warn().Str("ticker", pos.Ticker).Msg("position vanished before sell, skipping")
			continue
		}
		if err != nil {
			return executed, cash, err
		}
		if err := e.ledger.AppendTrade(&trade); err != nil {
			return executed, cash, err
		}

		cash += trade.ValueBase
		executed = append(executed, trade)
		log.Info().
			Str("ticker", pos.Ticker).
			Float64("units", pos.Units).
			Float64("price", price).
			Str("note", note).
			Msg("SELL")
	}

	// Buys are sized from the post-liquidation pool; the running cash guard
	// stops later tickers from double-spending it.
	pool := cash
	for _, target := range targets {
		if e.mode == ModeIncremental {
			if held[target.Ticker] {
				continue
			}
			// a ticker sold by rule sits out the rest of this cycle;
			// re-entry waits for the next rebalance
			if _, flagged := forceSell[target.Ticker]; flagged {
				continue
			}
		}

		price, ok := prices[target.Ticker]
		if !ok || price <= 0 {
			log.Warn().
				Str("ticker", target.Ticker).
				Time("date", asOf).
				Msg("no buy price for target, skipping")
			continue
		}

		rate := rates.Rate(target.Currency)
		priceBase := price * rate
		units := pool * target.Weight / priceBase
		if e.sizing == SizingWholeUnits {
			units = math.Floor(units)
		}
		if units <= 0 {
			continue
		}

		cost := units * priceBase
		if cost > cash+cashTolerance {
			log.Warn().
				Str("ticker", target.Ticker).
				Float64("cost", cost).
				Float64("cash", cash).
				Msg("insufficient cash for buy, skipping")
			continue
		}

		trade := models.Trade{
			Timestamp: asOf,
			Ticker:    target.Ticker,
			Side:      models.TradeSideBuy,
			Units:     units,
			Price:     price,
			Currency:  target.Currency,
			FxRate:    rate,
			ValueBase: cost,
			Regime:    string(regime),
			Note:      "REBALANCE BUY",
		}

		if err := e.ledger.UpsertOnTrade(target.Ticker, target.Currency, units, price, asOf); err != nil {
			return executed, cash, err
		}
		if err := e.ledger.AppendTrade(&trade); err != nil {
			return executed, cash, err
		}

		cash -= cost
		executed = append(executed, trade)
		log.Info().
			Str("ticker", target.Ticker).
			Float64("units", units).
			Float64("price", price).
			Float64("weight", target.Weight).
			Msg("BUY")
	}

	return executed, cash, nil
}

func sellNote(regime models.Regime) string {
	if regime == models.RegimeBear {
		return "BEAR SELL ALL"
	}
	return "REBALANCE SELL"
}
