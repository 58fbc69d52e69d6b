package repository

import (
	"github.com/ardidw/studioflow-api/internal/database"
	"github.com/ardidw/studioflow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLeaveRequestRepository is a GORM implementation of LeaveRequestRepository
type GormLeaveRequestRepository struct {
	db *gorm.DB
}

// NewLeaveRequestRepository creates a new LeaveRequestRepository
func NewLeaveRequestRepository(db *gorm.DB) LeaveRequestRepository {
	return &GormLeaveRequestRepository{db: db}
}

// Create creates a new leave request
func (r *GormLeaveRequestRepository) Create(request *models.LeaveRequest) error {
	return r.db.Create(request).Error
}

// FindByID finds a leave request by ID
func (r *GormLeaveRequestRepository) FindByID(id uint64) (*models.LeaveRequest, error) {
	var request models.LeaveRequest
	if err := r.db.Preload("User").First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// List retrieves leave requests with filtering and pagination
func (r *GormLeaveRequestRepository) List(filter LeaveFilter) ([]models.LeaveRequest, int64, error) {
	var requests []models.LeaveRequest

	query := r.db.Model(&models.LeaveRequest{})

	if filter.UserID != nil {
		query = query.Where("leave_requests.user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("leave_requests.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.
		Order("leave_requests.created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("User").Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// Update updates a leave request
func (r *GormLeaveRequestRepository) Update(request *models.LeaveRequest) error {
	return r.db.Omit(clause.Associations).Save(request).Error
}
