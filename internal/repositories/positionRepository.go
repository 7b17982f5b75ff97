package repositories

import (
	"MomentumBot/internal/models"
	"errors"

	"gorm.io/gorm"
)

type PositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new instance of PositionRepository
func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// FindAll retrieves all Position records ordered by ticker
func (r *PositionRepository) FindAll() ([]models.Position, error) {
	var positions []models.Position
	err := r.db.Order("ticker ASC").Find(&positions).Error
	return positions, err
}

// FindByTicker retrieves the Position record for a ticker
func (r *PositionRepository) FindByTicker(ticker string) (*models.Position, error) {
	if ticker == "" {
		return nil, errors.New("invalid ticker")
	}
	var position models.Position
	err := r.db.Where("ticker = ?", ticker).First(&position).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &position, err
}

// Save inserts or updates a Position record keyed by ticker
func (r *PositionRepository) Save(position *models.Position) error {
	if position == nil {
		return errors.New("position cannot be nil")
	}
	return r.db.Save(position).Error
}

// DeleteByTicker removes the Position record for a ticker
func (r *PositionRepository) DeleteByTicker(ticker string) error {
	if ticker == "" {
		return errors.New("invalid ticker")
	}
	return r.db.Where("ticker = ?", ticker).Delete(&models.Position{}).Error
}
