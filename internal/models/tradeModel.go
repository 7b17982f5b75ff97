package models

import "time"

// Trade is one executed BUY or SELL. Rows are append-only: the trade table
// is the audit trail and is never updated or deleted after insertion.
type Trade struct {
	ID        uint      `gorm:"primaryKey"`
	Timestamp time.Time `gorm:"index;not null"`
	Ticker    string    `gorm:"index;not null"`
	Side      string    `gorm:"not null;check:side IN ('BUY','SELL')"`
	Units     float64   `gorm:"type:decimal(20,8);not null"`
	Price     float64   `gorm:"type:decimal(20,8);not null"` // in quote currency
	Currency  string    `gorm:"not null"`
	FxRate    float64   `gorm:"type:decimal(20,8);not null"`
	ValueBase float64   `gorm:"type:decimal(20,8);not null"`
	Regime    string
	Note      string
}

const (
	TradeSideBuy  = "BUY"
	TradeSideSell = "SELL"
)

// TableName sets the table name for Trade model
func (Trade) TableName() string {
	return "trades"
}
