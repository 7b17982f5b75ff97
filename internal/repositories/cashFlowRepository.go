package repositories

import (
	"MomentumBot/internal/models"
	"errors"

	"gorm.io/gorm"
)

type CashFlowRepository struct {
	db *gorm.DB
}

// NewCashFlowRepository creates a new instance of CashFlowRepository
func NewCashFlowRepository(db *gorm.DB) *CashFlowRepository {
	return &CashFlowRepository{db: db}
}

// Create appends a new CashFlow record
func (r *CashFlowRepository) Create(flow *models.CashFlow) error {
	if flow == nil {
		return errors.New("cash flow cannot be nil")
	}
	if flow.Type != models.CashFlowTypeDeposit && flow.Type != models.CashFlowTypeWithdraw {
		return errors.New("invalid cash flow type")
	}
	return r.db.Create(flow).Error
}

// FindAll retrieves all CashFlow records ordered by date
func (r *CashFlowRepository) FindAll() ([]models.CashFlow, error) {
	var flows []models.CashFlow
	err := r.db.Order("date ASC, id ASC").Find(&flows).Error
	return flows, err
}

// NetAmount returns total deposits minus total withdrawals in base currency
func (r *CashFlowRepository) NetAmount() (float64, error) {
	var total struct {
		Total float64
	}
	err := r.db.Model(&models.CashFlow{}).
		Select("COALESCE(SUM(CASE WHEN type = 'DEPOSIT' THEN amount_base ELSE -amount_base END), 0) as total").
		Scan(&total).Error
	return total.Total, err
}
