package repository

import (
	"github.com/ardidw/studioflow-api/internal/models"
	"gorm.io/gorm"
)

// GormAttendanceRepository is a GORM implementation of AttendanceRepository
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Create records a check-in
func (r *GormAttendanceRepository) Create(attendance *models.Attendance) error {
	return r.db.Create(attendance).Error
}

// FindByUserAndDate finds a user's attendance row for one date
func (r *GormAttendanceRepository) FindByUserAndDate(userID uint64, date string) (*models.Attendance, error) {
	var attendance models.Attendance
	if err := r.db.Where("user_id = ? AND date = ?", userID, date).
		First(&attendance).Error; err != nil {
		return nil, err
	}
	return &attendance, nil
}

// Update updates an attendance row
func (r *GormAttendanceRepository) Update(attendance *models.Attendance) error {
	return r.db.Save(attendance).Error
}

// List retrieves a user's attendance rows in a date range, oldest first
func (r *GormAttendanceRepository) List(filter AttendanceFilter) ([]models.Attendance, error) {
	var rows []models.Attendance

	query := r.db.Where("user_id = ?", filter.UserID)
	if filter.From != "" {
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("date <= ?", filter.To)
	}

	if err := query.Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
