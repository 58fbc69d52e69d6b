package services

import (
	"errors"
	"fmt"

	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService fans workflow notifications out to division members and
// serves each user's notification feed.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// FanOut creates one project notification per member of the given divisions.
// Delivery is best effort: a committed workflow transition stands even when
// writing notifications fails, so failures are logged and swallowed.
func (s *NotificationService) FanOut(projectID, message string, divisions []models.Division) {
	s.fanOut(&projectID, message, divisions)
}

// NotifyDivisions creates one notification per member of the given divisions
// without tying it to a project. Best effort, like FanOut.
func (s *NotificationService) NotifyDivisions(message string, divisions []models.Division) {
	s.fanOut(nil, message, divisions)
}

// NotifyUser creates one notification for a single user. Best effort.
func (s *NotificationService) NotifyUser(userID uint64, message string) {
	notifications := []models.Notification{{
		UserID:  userID,
		Message: message,
	}}
	if err := s.notificationRepo.CreateAll(notifications); err != nil {
		s.logger.Warn("notification insert failed",
			zap.Uint64("user_id", userID),
			zap.Error(err))
	}
}

func (s *NotificationService) fanOut(projectID *string, message string, divisions []models.Division) {
	if len(divisions) == 0 {
		return
	}

	users, err := s.userRepo.ListByRoles(divisions)
	if err != nil {
		s.logger.Warn("notification fan-out: listing recipients failed",
			zap.Stringp("project_id", projectID),
			zap.Error(err))
		return
	}
	if len(users) == 0 {
		return
	}

	notifications := make([]models.Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, models.Notification{
			UserID:    u.ID,
			ProjectID: projectID,
			Message:   message,
		})
	}

	if err := s.notificationRepo.CreateAll(notifications); err != nil {
		s.logger.Warn("notification fan-out: insert failed",
			zap.Stringp("project_id", projectID),
			zap.Int("recipients", len(notifications)),
			zap.Error(err))
		return
	}

	s.logger.Info("notifications sent",
		zap.Stringp("project_id", projectID),
		zap.Int("recipients", len(notifications)))
}

// ListInput represents filters for a user's notification feed.
type ListInput struct {
	UserID     uint64
	UnreadOnly bool
	Page       int
	PageSize   int
}

// List returns a user's notifications, newest first, with the unread count.
func (s *NotificationService) List(input ListInput) ([]models.Notification, int64, int64, error) {
	notifications, total, err := s.notificationRepo.List(repository.NotificationFilter{
		UserID:     input.UserID,
		UnreadOnly: input.UnreadOnly,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.notificationRepo.CountUnread(input.UserID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return notifications, total, unread, nil
}

// MarkRead marks one of the user's notifications read.
func (s *NotificationService) MarkRead(userID, notificationID uint64) error {
	if err := s.notificationRepo.MarkRead(userID, notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks all of the user's notifications read.
func (s *NotificationService) MarkAllRead(userID uint64) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
