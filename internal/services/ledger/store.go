package ledger

import "MomentumBot/internal/models"

// Store is the persistence boundary of the ledger. One implementation wraps
// the gorm repositories for the live account, the other keeps everything in
// memory so a backtest never touches the live tables.
type Store interface {
	Positions() ([]models.Position, error)
	Position(ticker string) (*models.Position, error)
	SavePosition(position *models.Position) error
	DeletePosition(ticker string) error
	AppendTrade(trade *models.Trade) error
	AppendCashFlow(flow *models.CashFlow) error
	UpsertEquity(snapshot *models.EquitySnapshot) error
}
