package ledger

import (
	"MomentumBot/internal/models"
	"MomentumBot/internal/repositories"
)

// DBStore adapts the gorm repositories to the ledger Store interface. This
// is the live account's backing store.
type DBStore struct {
	positions *repositories.PositionRepository
	trades    *repositories.TradeRepository
	cashFlows *repositories.CashFlowRepository
	equity    *repositories.EquityRepository
}

func NewDBStore(
	positions *repositories.PositionRepository,
	trades *repositories.TradeRepository,
	cashFlows *repositories.CashFlowRepository,
	equity *repositories.EquityRepository,
) *DBStore {
	return &DBStore{
		positions: positions,
		trades:    trades,
		cashFlows: cashFlows,
		equity:    equity,
	}
}

func (s *DBStore) Positions() ([]models.Position, error) {
	return s.positions.FindAll()
}

func (s *DBStore) Position(ticker string) (*models.Position, error) {
	return s.positions.FindByTicker(ticker)
}

func (s *DBStore) SavePosition(position *models.Position) error {
	return s.positions.Save(position)
}

func (s *DBStore) DeletePosition(ticker string) error {
	return s.positions.DeleteByTicker(ticker)
}

func (s *DBStore) AppendTrade(trade *models.Trade) error {
	return s.trades.Create(trade)
}

func (s *DBStore) AppendCashFlow(flow *models.CashFlow) error {
	return s.cashFlows.Create(flow)
}

func (s *DBStore) UpsertEquity(snapshot *models.EquitySnapshot) error {
	return s.equity.Upsert(snapshot)
}
