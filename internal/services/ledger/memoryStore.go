package ledger

import (
	"sort"
	"time"

	"MomentumBot/internal/models"
)

// MemoryStore keeps ledger state in process memory. Backtests run on it so
// a simulation never writes the live account tables.
type MemoryStore struct {
	positions map[string]models.Position
	trades    []models.Trade
	cashFlows []models.CashFlow
	equity    map[time.Time]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		positions: make(map[string]models.Position),
		equity:    make(map[time.Time]float64),
	}
}

// Positions returns holdings sorted by ticker for deterministic iteration.
func (s *MemoryStore) Positions() ([]models.Position, error) {
	positions := make([]models.Position, 0, len(s.positions))
	for _, pos := range s.positions {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Ticker < positions[j].Ticker
	})
	return positions, nil
}

func (s *MemoryStore) Position(ticker string) (*models.Position, error) {
	pos, ok := s.positions[ticker]
	if !ok {
		return nil, nil
	}
	return &pos, nil
}

func (s *MemoryStore) SavePosition(position *models.Position) error {
	s.positions[position.Ticker] = *position
	return nil
}

func (s *MemoryStore) DeletePosition(ticker string) error {
	delete(s.positions, ticker)
	return nil
}

func (s *MemoryStore) AppendTrade(trade *models.Trade) error {
	s.trades = append(s.trades, *trade)
	return nil
}

func (s *MemoryStore) AppendCashFlow(flow *models.CashFlow) error {
	s.cashFlows = append(s.cashFlows, *flow)
	return nil
}

func (s *MemoryStore) UpsertEquity(snapshot *models.EquitySnapshot) error {
	s.equity[snapshot.Date] = snapshot.Equity
	return nil
}

// Trades returns the accumulated trade history in insertion order.
func (s *MemoryStore) Trades() []models.Trade {
	return s.trades
}

// CashFlows returns the accumulated cash flows in insertion order.
func (s *MemoryStore) CashFlows() []models.CashFlow {
	return s.cashFlows
}
