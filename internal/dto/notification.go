package dto

import (
	"time"

	"github.com/ardidw/studioflow-api/internal/models"
)

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        uint64    `json:"id"`
	ProjectID *string   `json:"project_id,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationListResponse represents a user's notification feed
type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int64             `json:"unread_count"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalCount    int64             `json:"total_count"`
	TotalPages    int               `json:"total_pages"`
}

// ToNotificationDTO converts a Notification model
func ToNotificationDTO(notification models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        notification.ID,
		ProjectID: notification.ProjectID,
		Message:   notification.Message,
		IsRead:    notification.IsRead,
		Timestamp: notification.CreatedAt,
	}
}

// ToNotificationDTOs converts a slice of Notification models
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, ToNotificationDTO(n))
	}
	return out
}
