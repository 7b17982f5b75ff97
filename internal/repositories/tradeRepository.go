package repositories

import (
	"MomentumBot/internal/models"
	"errors"

	"gorm.io/gorm"
)

type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new instance of TradeRepository
func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Create appends a new Trade record. Trades are never updated or deleted.
func (r *TradeRepository) Create(trade *models.Trade) error {
	if trade == nil {
		return errors.New("trade cannot be nil")
	}
	return r.db.Create(trade).Error
}

// FindAll retrieves all Trade records ordered by execution time
func (r *TradeRepository) FindAll() ([]models.Trade, error) {
	var trades []models.Trade
	err := r.db.Order("timestamp ASC, id ASC").Find(&trades).Error
	return trades, err
}

// FindByTicker retrieves all Trade records for a ticker
func (r *TradeRepository) FindByTicker(ticker string) ([]models.Trade, error) {
	if ticker == "" {
		return nil, errors.New("invalid ticker")
	}
	var trades []models.Trade
	err := r.db.Where("ticker = ?", ticker).Order("timestamp ASC, id ASC").Find(&trades).Error
	return trades, err
}

// SumValueBySide sums value_base over all trades of one side (BUY or SELL)
func (r *TradeRepository) SumValueBySide(side string) (float64, error) {
	if side != models.TradeSideBuy && side != models.TradeSideSell {
		return 0, errors.New("invalid trade side")
	}
	var total struct {
		Total float64
	}
	err := r.db.Model(&models.Trade{}).
		Select("COALESCE(SUM(value_base), 0) as total").
		Where("side = ?", side).
		Scan(&total).Error
	return total.Total, err
}
