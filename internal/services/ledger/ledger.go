package ledger

import (
	"errors"
	"fmt"
	"time"

	"MomentumBot/internal/models"
)

// ErrPositionNotFound signals an attempt to reduce a position that does not
// exist. Callers log it and skip the ticker; it must not abort the cycle.
var ErrPositionNotFound = errors.New("position not found")

// DefaultEpsilon is the residual-unit threshold below which a position is
// considered closed and its row deleted.
const DefaultEpsilon = 1e-9

// Ledger owns all position, trade, cash-flow and equity records for one
// account. It assumes a single writer: running two instances against the
// same store is not supported and needs external locking.
type Ledger struct {
	store   Store
	epsilon float64
}

func New(store Store) *Ledger {
	return &Ledger{store: store, epsilon: DefaultEpsilon}
}

// SetEpsilon overrides the residual-unit threshold.
func (l *Ledger) SetEpsilon(eps float64) {
	if eps > 0 {
		l.epsilon = eps
	}
}

// Positions returns a full snapshot of current holdings.
func (l *Ledger) Positions() ([]models.Position, error) {
	return l.store.Positions()
}

// UpsertOnTrade applies a signed unit delta at the given execution price:
//   - no position + positive delta creates one at the trade price
//   - positive delta onto an existing position re-averages the cost basis
//   - negative delta reduces units and leaves the cost basis untouched;
//     realized P&L is derived from trades, never stored here
//   - units at or below epsilon delete the row
//
// A zero delta is a no-op. Reducing a missing position returns
// ErrPositionNotFound with the ledger unchanged.
func (l *Ledger) UpsertOnTrade(ticker, currency string, deltaUnits, tradePrice float64, at time.Time) error {
	if deltaUnits == 0 {
		return nil
	}

	pos, err := l.store.Position(ticker)
	if err != nil {
		return fmt.Errorf("load position %s: %w", ticker, err)
	}

	if pos == nil {
		if deltaUnits < 0 {
			return fmt.Errorf("%w: %s", ErrPositionNotFound, ticker)
		}
		return l.store.SavePosition(&models.Position{
			Ticker:     ticker,
			Currency:   currency,
			Units:      deltaUnits,
			AvgPrice:   tradePrice,
			LastUpdate: at,
		})
	}

	newUnits := pos.Units + deltaUnits
	if newUnits <= l.epsilon {
		return l.store.DeletePosition(ticker)
	}

	if deltaUnits > 0 {
		pos.AvgPrice = (pos.Units*pos.AvgPrice + deltaUnits*tradePrice) / newUnits
	}
	pos.Units = newUnits
	pos.LastUpdate = at
	return l.store.SavePosition(pos)
}

// AppendTrade records an executed trade. Trades are immutable once written.
func (l *Ledger) AppendTrade(trade *models.Trade) error {
	if trade == nil {
		return errors.New("trade cannot be nil")
	}
	if trade.Units <= 0 {
		return fmt.Errorf("trade units must be positive, got %f", trade.Units)
	}
	return l.store.AppendTrade(trade)
}

// RecordContribution appends a deposit (or, for a negative amount, a
// withdrawal) in base currency.
func (l *Ledger) RecordContribution(date time.Time, amountBase float64, note string) error {
	flow := &models.CashFlow{
		Date:       date,
		AmountBase: amountBase,
		Type:       models.CashFlowTypeDeposit,
		Note:       note,
	}
	if amountBase < 0 {
		flow.AmountBase = -amountBase
		flow.Type = models.CashFlowTypeWithdraw
	}
	return l.store.AppendCashFlow(flow)
}

// RecordEquitySnapshot writes the equity for a date, overwriting any
// earlier value for the same date.
func (l *Ledger) RecordEquitySnapshot(date time.Time, equityBase float64) error {
	return l.store.UpsertEquity(&models.EquitySnapshot{Date: date, Equity: equityBase})
}
