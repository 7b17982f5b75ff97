package repositories

import (
	"MomentumBot/internal/models"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EquityRepository struct {
	db *gorm.DB
}

// NewEquityRepository creates a new instance of EquityRepository
func NewEquityRepository(db *gorm.DB) *EquityRepository {
	return &EquityRepository{db: db}
}

// Upsert writes the equity snapshot for its date, overwriting an existing row
func (r *EquityRepository) Upsert(snapshot *models.EquitySnapshot) error {
	if snapshot == nil {
		return errors.New("snapshot cannot be nil")
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"equity"}),
	}).Create(snapshot).Error
}

// FindAll retrieves the full equity curve ordered by date
func (r *EquityRepository) FindAll() ([]models.EquitySnapshot, error) {
	var snapshots []models.EquitySnapshot
	err := r.db.Order("date ASC").Find(&snapshots).Error
	return snapshots, err
}
