package models

import "time"

// Price is one daily OHLCV bar for a ticker, keyed by trading-calendar date.
type Price struct {
	ID     uint      `gorm:"primaryKey"`
	Ticker string    `gorm:"uniqueIndex:idx_ticker_date;not null"`
	Date   time.Time `gorm:"uniqueIndex:idx_ticker_date;not null"`
	Open   float64   `gorm:"type:decimal(20,8)"`
	High   float64   `gorm:"type:decimal(20,8)"`
	Low    float64   `gorm:"type:decimal(20,8)"`
	Close  float64   `gorm:"type:decimal(20,8)"`
	Volume float64   `gorm:"type:decimal(20,8)"`
}

// TableName sets the table name for Price model
func (Price) TableName() string {
	return "prices"
}
