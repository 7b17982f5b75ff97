package models

import "time"

// EquitySnapshot is the account equity in base currency on one date.
// Recomputing a date overwrites the existing row.
type EquitySnapshot struct {
	Date   time.Time `gorm:"primaryKey"`
	Equity float64   `gorm:"type:decimal(20,8);not null"`
}

// TableName sets the table name for EquitySnapshot model
func (EquitySnapshot) TableName() string {
	return "equity_curve"
}
