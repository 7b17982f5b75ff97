package repositories

import (
	"MomentumBot/internal/models"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PriceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new instance of PriceRepository
func NewPriceRepository(db *gorm.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// SaveBatch inserts price bars, ignoring rows already present for their
// (ticker, date) key so imports can be re-run.
func (r *PriceRepository) SaveBatch(prices []models.Price) error {
	if len(prices) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
		DoNothing: true,
	}).CreateInBatches(prices, 500).Error
}

// GetCloseSeries returns the ordered close series for a ticker up to and
// including the given date.
func (r *PriceRepository) GetCloseSeries(ticker string, until time.Time) (models.PriceSeries, error) {
	if ticker == "" {
		return models.PriceSeries{}, errors.New("invalid ticker")
	}
	var prices []models.Price
	err := r.db.Where("ticker = ? AND date <= ?", ticker, until).
		Order("date ASC").
		Find(&prices).Error
	if err != nil {
		return models.PriceSeries{}, err
	}

	series := models.PriceSeries{Ticker: ticker, Bars: make([]models.PriceBar, 0, len(prices))}
	for _, p := range prices {
		series.Bars = append(series.Bars, models.PriceBar{Date: p.Date, Close: p.Close})
	}
	return series, nil
}

// ListTickers returns the distinct tickers present in the prices table
func (r *PriceRepository) ListTickers() ([]string, error) {
	var tickers []string
	err := r.db.Model(&models.Price{}).
		Distinct("ticker").
		Order("ticker ASC").
		Pluck("ticker", &tickers).Error
	return tickers, err
}
