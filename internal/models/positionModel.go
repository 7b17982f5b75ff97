package models

import "time"

// Position is the authoritative record of one held instrument. Rows are
// created on the first BUY of a ticker, re-averaged on later BUYs and
// deleted once units fall to zero. Only the ledger writes this table.
type Position struct {
	Ticker     string    `gorm:"primaryKey"`
	Currency   string    `gorm:"not null"`
	Units      float64   `gorm:"type:decimal(20,8);not null"`
	AvgPrice   float64   `gorm:"type:decimal(20,8);not null"` // in quote currency
	LastUpdate time.Time `gorm:"not null"`
}

// TableName sets the table name for Position model
func (Position) TableName() string {
	return "positions"
}
