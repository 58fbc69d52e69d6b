package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ardidw/studioflow-api/internal/dto"
	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/middleware"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/ardidw/studioflow-api/internal/workflow"
	"github.com/gin-gonic/gin"
)

// AttendanceHandler coordinates attendance handlers.
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

// CheckIn opens today's attendance row for the authenticated user.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	type CheckInRequest struct {
		Note string `json:"note"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req CheckInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	attendance, err := h.attendanceService.CheckIn(userID, req.Note)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttendanceDTO(*attendance))
}

// CheckOut closes today's attendance row for the authenticated user.
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	attendance, err := h.attendanceService.CheckOut(userID)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttendanceDTO(*attendance))
}

// ListAttendance returns attendance rows for a date range. Privileged
// divisions may ask for another user's rows.
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID := user.ID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user ID")
			return
		}
		if parsed != user.ID && !workflow.Privileged(user.Role) {
			apierrors.Forbidden(c, "")
			return
		}
		targetID = parsed
	}

	rows, err := h.attendanceService.List(services.ListAttendanceInput{
		UserID: targetID,
		From:   c.Query("from"),
		To:     c.Query("to"),
	})
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attendance": dto.ToAttendanceDTOs(rows),
	})
}

func respondAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAlreadyCheckedIn):
		apierrors.ConflictCode(c, apierrors.ErrCodeAlreadyCheckedIn, err.Error())
	case errors.Is(err, services.ErrNotCheckedIn):
		apierrors.ConflictCode(c, apierrors.ErrCodeNotCheckedIn, err.Error())
	case errors.Is(err, services.ErrAlreadyCheckedOut):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidDateRange):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
