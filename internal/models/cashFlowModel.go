package models

import "time"

// CashFlow records a deposit into or withdrawal from the account, in the
// base currency. Append-only.
type CashFlow struct {
	ID         uint      `gorm:"primaryKey"`
	Date       time.Time `gorm:"index;not null"`
	AmountBase float64   `gorm:"type:decimal(20,8);not null"`
	Type       string    `gorm:"not null;check:type IN ('DEPOSIT','WITHDRAW')"`
	Note       string
}

const (
	CashFlowTypeDeposit  = "DEPOSIT"
	CashFlowTypeWithdraw = "WITHDRAW"
)

// TableName sets the table name for CashFlow model
func (CashFlow) TableName() string {
	return "cash_flows"
}
