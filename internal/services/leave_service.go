package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrLeaveNotFound       = errors.New("leave request not found")
	ErrInvalidLeaveType    = errors.New("unknown leave type")
	ErrInvalidDate         = errors.New("dates must use the YYYY-MM-DD format")
	ErrInvalidDateRange    = errors.New("end date precedes start date")
	ErrReasonRequired      = errors.New("reason is required")
	ErrLeaveAlreadyDecided = errors.New("leave request was already decided")
)

// LeaveService handles leave requests and their review.
type LeaveService struct {
	leaveRepo     repository.LeaveRequestRepository
	notifications *NotificationService
}

// NewLeaveService creates a new LeaveService.
func NewLeaveService(leaveRepo repository.LeaveRequestRepository, notifications *NotificationService) *LeaveService {
	return &LeaveService{
		leaveRepo:     leaveRepo,
		notifications: notifications,
	}
}

// CreateLeaveInput represents a leave request submission.
type CreateLeaveInput struct {
	Requester *models.User
	Type      models.LeaveType
	StartDate string
	EndDate   string
	Reason    string
}

// CreateLeave files a pending leave request and tells the reviewing divisions
// about it.
func (s *LeaveService) CreateLeave(input CreateLeaveInput) (*models.LeaveRequest, error) {
	if !validLeaveType(input.Type) {
		return nil, ErrInvalidLeaveType
	}

	start, err := time.Parse(constants.DateLayout, input.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := time.Parse(constants.DateLayout, input.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	request := &models.LeaveRequest{
		UserID:    input.Requester.ID,
		Type:      input.Type,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Reason:    reason,
		Status:    models.LeaveStatusPending,
	}

	if err := s.leaveRepo.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create leave request: %w", err)
	}

	name := input.Requester.DisplayName
	if name == "" {
		name = input.Requester.Username
	}
	s.notifications.NotifyDivisions(
		fmt.Sprintf("%s requested %s leave from %s to %s", name, string(input.Type), input.StartDate, input.EndDate),
		[]models.Division{models.DivisionOwner, models.DivisionAdminProyek})

	return request, nil
}

// ListLeaveInput represents filters for listing leave requests.
type ListLeaveInput struct {
	UserID   *uint64
	Status   *models.LeaveStatus
	Page     int
	PageSize int
}

// ListLeave returns leave requests matching the filters.
func (s *LeaveService) ListLeave(input ListLeaveInput) ([]models.LeaveRequest, int64, error) {
	requests, total, err := s.leaveRepo.List(repository.LeaveFilter{
		UserID:   input.UserID,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, total, nil
}

// getLeave retrieves one leave request.
func (s *LeaveService) getLeave(id uint64) (*models.LeaveRequest, error) {
	request, err := s.leaveRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, fmt.Errorf("failed to find leave request: %w", err)
	}
	return request, nil
}

// DecideLeave approves or rejects a pending leave request and tells the
// requester about the outcome.
func (s *LeaveService) DecideLeave(id, approverID uint64, approve bool, note *string) (*models.LeaveRequest, error) {
	request, err := s.getLeave(id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.LeaveStatusPending {
		return nil, ErrLeaveAlreadyDecided
	}

	now := time.Now()
	outcome := "rejected"
	if approve {
		request.Status = models.LeaveStatusApproved
		outcome = "approved"
	} else {
		request.Status = models.LeaveStatusRejected
	}
	request.DecisionNote = note
	request.DecidedBy = &approverID
	request.DecidedAt = &now

	if err := s.leaveRepo.Update(request); err != nil {
		return nil, fmt.Errorf("failed to update leave request: %w", err)
	}

	s.notifications.NotifyUser(request.UserID,
		fmt.Sprintf("Your leave request from %s to %s was %s", request.StartDate, request.EndDate, outcome))

	return request, nil
}

func validLeaveType(t models.LeaveType) bool {
	for _, known := range models.LeaveTypes() {
		if known == t {
			return true
		}
	}
	return false
}
