package repository

import (
	"github.com/ardidw/studioflow-api/internal/models"
	"gorm.io/gorm"
)

// GormHolidayRepository is a GORM implementation of HolidayRepository
type GormHolidayRepository struct {
	db *gorm.DB
}

// NewHolidayRepository creates a new HolidayRepository
func NewHolidayRepository(db *gorm.DB) HolidayRepository {
	return &GormHolidayRepository{db: db}
}

// Create creates a holiday
func (r *GormHolidayRepository) Create(holiday *models.Holiday) error {
	return r.db.Create(holiday).Error
}

// Delete removes a holiday
func (r *GormHolidayRepository) Delete(id uint64) error {
	res := r.db.Delete(&models.Holiday{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves holidays in a date range, oldest first
func (r *GormHolidayRepository) List(from, to string) ([]models.Holiday, error) {
	var holidays []models.Holiday

	query := r.db.Model(&models.Holiday{})
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}

	if err := query.Order("date ASC").Find(&holidays).Error; err != nil {
		return nil, err
	}
	return holidays, nil
}
