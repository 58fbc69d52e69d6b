package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/ardidw/studioflow-api/internal/dto"
	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/middleware"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/ardidw/studioflow-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves each user's notification feed.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns the authenticated user's notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, total, unread, err := h.notificationService.List(services.ListInput{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Page:       params.Page,
		PageSize:   params.Limit,
	})
	if err != nil {
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.NotificationListResponse{
		Notifications: dto.ToNotificationDTOs(notifications),
		UnreadCount:   unread,
		Page:          params.Page,
		PageSize:      params.Limit,
		TotalCount:    total,
		TotalPages:    int(math.Ceil(float64(total) / float64(params.Limit))),
	})
}

// MarkNotificationRead marks one notification read.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(userID, notificationID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			apierrors.NotFound(c, "Notification not found")
			return
		}
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification marked as read",
	})
}

// MarkAllNotificationsRead marks the whole feed read.
func (h *NotificationHandler) MarkAllNotificationsRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
	})
}
