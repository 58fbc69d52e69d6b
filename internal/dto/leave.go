package dto

import (
	"time"

	"github.com/ardidw/studioflow-api/internal/models"
)

// LeaveRequestDTO represents a leave request in API responses
type LeaveRequestDTO struct {
	ID           uint64             `json:"id"`
	UserID       uint64             `json:"user_id"`
	Username     string             `json:"username,omitempty"`
	Type         models.LeaveType   `json:"type"`
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Reason       string             `json:"reason"`
	Status       models.LeaveStatus `json:"status"`
	DecisionNote *string            `json:"decision_note,omitempty"`
	DecidedBy    *uint64            `json:"decided_by,omitempty"`
	DecidedAt    *time.Time         `json:"decided_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// LeaveListResponse represents a paginated list of leave requests
type LeaveListResponse struct {
	Requests   []LeaveRequestDTO `json:"requests"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
}

// ToLeaveRequestDTO converts a LeaveRequest model
func ToLeaveRequestDTO(request models.LeaveRequest) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:           request.ID,
		UserID:       request.UserID,
		Type:         request.Type,
		StartDate:    request.StartDate,
		EndDate:      request.EndDate,
		Reason:       request.Reason,
		Status:       request.Status,
		DecisionNote: request.DecisionNote,
		DecidedBy:    request.DecidedBy,
		DecidedAt:    request.DecidedAt,
		CreatedAt:    request.CreatedAt,
	}
	if request.User.ID != 0 {
		dto.Username = request.User.Username
	}
	return dto
}

// ToLeaveRequestDTOs converts a slice of LeaveRequest models
func ToLeaveRequestDTOs(requests []models.LeaveRequest) []LeaveRequestDTO {
	out := make([]LeaveRequestDTO, 0, len(requests))
	for _, r := range requests {
		out = append(out, ToLeaveRequestDTO(r))
	}
	return out
}
