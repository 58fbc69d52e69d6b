package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/ardidw/studioflow-api/internal/dto"
	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/middleware"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/ardidw/studioflow-api/internal/utils"
	"github.com/ardidw/studioflow-api/internal/workflow"
	"github.com/gin-gonic/gin"
)

// LeaveHandler coordinates leave request handlers.
type LeaveHandler struct {
	leaveService *services.LeaveService
}

// NewLeaveHandler creates a new LeaveHandler.
func NewLeaveHandler(leaveService *services.LeaveService) *LeaveHandler {
	return &LeaveHandler{
		leaveService: leaveService,
	}
}

// ListLeaveRequests returns leave requests. Regular users see their own;
// privileged divisions see everyone's and may filter by user.
func (h *LeaveHandler) ListLeaveRequests(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListLeaveInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if workflow.Privileged(user.Role) {
		if raw := c.Query("user_id"); raw != "" {
			userID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				apierrors.BadRequest(c, "Invalid user ID")
				return
			}
			input.UserID = &userID
		}
	} else {
		input.UserID = &user.ID
	}

	if raw := c.Query("status"); raw != "" {
		status := models.LeaveStatus(raw)
		switch status {
		case models.LeaveStatusPending, models.LeaveStatusApproved, models.LeaveStatusRejected:
			input.Status = &status
		default:
			apierrors.BadRequest(c, "Unknown status filter")
			return
		}
	}

	requests, total, err := h.leaveService.ListLeave(input)
	if err != nil {
		respondLeaveError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LeaveListResponse{
		Requests:   dto.ToLeaveRequestDTOs(requests),
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(params.Limit))),
	})
}

// CreateLeaveRequest files a leave request for the authenticated user.
func (h *LeaveHandler) CreateLeaveRequest(c *gin.Context) {
	type CreateLeaveRequest struct {
		Type      string `json:"type" binding:"required"`
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
		Reason    string `json:"reason" binding:"required"`
	}

	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.leaveService.CreateLeave(services.CreateLeaveInput{
		Requester: user,
		Type:      models.LeaveType(req.Type),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		respondLeaveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLeaveRequestDTO(*request))
}

// ApproveLeaveRequest approves a pending leave request.
func (h *LeaveHandler) ApproveLeaveRequest(c *gin.Context) {
	h.decideLeaveRequest(c, true)
}

// RejectLeaveRequest rejects a pending leave request.
func (h *LeaveHandler) RejectLeaveRequest(c *gin.Context) {
	h.decideLeaveRequest(c, false)
}

func (h *LeaveHandler) decideLeaveRequest(c *gin.Context, approve bool) {
	type DecisionRequest struct {
		Note *string `json:"note"`
	}

	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid leave request ID")
		return
	}

	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	request, err := h.leaveService.DecideLeave(id, user.ID, approve, req.Note)
	if err != nil {
		respondLeaveError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLeaveRequestDTO(*request))
}

func respondLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLeaveNotFound):
		apierrors.NotFound(c, "Leave request not found")
	case errors.Is(err, services.ErrInvalidLeaveType):
		apierrors.BadRequestWithDetails(c, err.Error(), models.LeaveTypes())
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrReasonRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrLeaveAlreadyDecided):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
