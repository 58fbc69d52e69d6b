package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrHolidayNotFound     = errors.New("holiday not found")
	ErrHolidayNameRequired = errors.New("holiday name is required")
	ErrHolidayExists       = errors.New("a holiday already exists on this date")
)

// CalendarEntry is one dated item on the office calendar.
type CalendarEntry struct {
	Date      string  `json:"date"`
	EndDate   string  `json:"end_date,omitempty"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Time      string  `json:"time,omitempty"`
	Location  string  `json:"location,omitempty"`
	ProjectID *string `json:"project_id,omitempty"`
	UserID    *uint64 `json:"user_id,omitempty"`
}

// CalendarService merges holidays, project events and approved leave into one
// range view, and owns the holiday table.
type CalendarService struct {
	projectRepo repository.ProjectRepository
	holidayRepo repository.HolidayRepository
	leaveRepo   repository.LeaveRequestRepository
}

// NewCalendarService creates a new CalendarService.
func NewCalendarService(projectRepo repository.ProjectRepository, holidayRepo repository.HolidayRepository, leaveRepo repository.LeaveRequestRepository) *CalendarService {
	return &CalendarService{
		projectRepo: projectRepo,
		holidayRepo: holidayRepo,
		leaveRepo:   leaveRepo,
	}
}

// Range returns the calendar entries in [from, to], oldest first. An empty
// range means the current month.
func (s *CalendarService) Range(from, to string) ([]CalendarEntry, error) {
	from, to, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}

	entries := []CalendarEntry{}

	holidays, err := s.holidayRepo.List(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	for _, h := range holidays {
		entries = append(entries, CalendarEntry{
			Date:  h.Date,
			Type:  "holiday",
			Title: h.Name,
		})
	}

	projects, err := s.projectRepo.ListWithEventsBetween(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list project events: %w", err)
	}
	for _, p := range projects {
		id := p.ID
		if inRange(p.Survey.Date, from, to) {
			entries = append(entries, CalendarEntry{
				Date:      p.Survey.Date,
				Type:      "survey",
				Title:     fmt.Sprintf("Survey: %s", p.Title),
				Time:      p.Survey.Time,
				Location:  p.Survey.Location,
				ProjectID: &id,
			})
		}
		if inRange(p.Schedule.Date, from, to) {
			entries = append(entries, CalendarEntry{
				Date:      p.Schedule.Date,
				Type:      "sidang",
				Title:     fmt.Sprintf("Sidang: %s", p.Title),
				Time:      p.Schedule.Time,
				Location:  p.Schedule.Location,
				ProjectID: &id,
			})
		}
	}

	approved := models.LeaveStatusApproved
	leaves, _, err := s.leaveRepo.List(repository.LeaveFilter{Status: &approved})
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	for _, l := range leaves {
		if l.StartDate > to || l.EndDate < from {
			continue
		}
		userID := l.UserID
		name := l.User.DisplayName
		if name == "" {
			name = l.User.Username
		}
		entries = append(entries, CalendarEntry{
			Date:    l.StartDate,
			EndDate: l.EndDate,
			Type:    "leave",
			Title:   fmt.Sprintf("Leave: %s", name),
			UserID:  &userID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Type < entries[j].Type
	})

	return entries, nil
}

// ListHolidays returns the holidays in [from, to], oldest first.
func (s *CalendarService) ListHolidays(from, to string) ([]models.Holiday, error) {
	from, to, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}

	holidays, err := s.holidayRepo.List(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}

// CreateHolidayInput represents a new office holiday.
type CreateHolidayInput struct {
	Date string
	Name string
}

// CreateHoliday records an office holiday. Dates are unique.
func (s *CalendarService) CreateHoliday(input CreateHolidayInput) (*models.Holiday, error) {
	if _, err := time.Parse(constants.DateLayout, input.Date); err != nil {
		return nil, ErrInvalidDate
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrHolidayNameRequired
	}

	existing, err := s.holidayRepo.List(input.Date, input.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to check holiday date: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrHolidayExists
	}

	holiday := &models.Holiday{
		Date: input.Date,
		Name: name,
	}
	if err := s.holidayRepo.Create(holiday); err != nil {
		return nil, fmt.Errorf("failed to create holiday: %w", err)
	}
	return holiday, nil
}

// DeleteHoliday removes an office holiday.
func (s *CalendarService) DeleteHoliday(id uint64) error {
	if err := s.holidayRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHolidayNotFound
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

// inRange reports whether an ISO date string falls inside [from, to].
func inRange(date, from, to string) bool {
	return date != "" && date >= from && date <= to
}
