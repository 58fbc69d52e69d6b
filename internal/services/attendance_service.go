package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("no check-in recorded today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
)

// AttendanceService records daily check-ins and check-outs.
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepository
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(attendanceRepo repository.AttendanceRepository) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
	}
}

// CheckIn opens today's attendance row for the user.
func (s *AttendanceService) CheckIn(userID uint64, note string) (*models.Attendance, error) {
	now := time.Now()
	today := now.Format(constants.DateLayout)

	if _, err := s.attendanceRepo.FindByUserAndDate(userID, today); err == nil {
		return nil, ErrAlreadyCheckedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check attendance: %w", err)
	}

	attendance := &models.Attendance{
		UserID:    userID,
		Date:      today,
		CheckInAt: now,
		Note:      note,
	}
	if err := s.attendanceRepo.Create(attendance); err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	return attendance, nil
}

// CheckOut closes today's attendance row for the user.
func (s *AttendanceService) CheckOut(userID uint64) (*models.Attendance, error) {
	now := time.Now()
	today := now.Format(constants.DateLayout)

	attendance, err := s.attendanceRepo.FindByUserAndDate(userID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCheckedIn
		}
		return nil, fmt.Errorf("failed to check attendance: %w", err)
	}
	if attendance.CheckOutAt != nil {
		return nil, ErrAlreadyCheckedOut
	}

	attendance.CheckOutAt = &now
	if err := s.attendanceRepo.Update(attendance); err != nil {
		return nil, fmt.Errorf("failed to record check-out: %w", err)
	}

	return attendance, nil
}

// ListAttendanceInput represents an attendance history query. An empty range
// means the current month.
type ListAttendanceInput struct {
	UserID uint64
	From   string
	To     string
}

// List returns the user's attendance rows in the date range, oldest first.
func (s *AttendanceService) List(input ListAttendanceInput) ([]models.Attendance, error) {
	from, to, err := dateRange(input.From, input.To)
	if err != nil {
		return nil, err
	}

	rows, err := s.attendanceRepo.List(repository.AttendanceFilter{
		UserID: input.UserID,
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return rows, nil
}
