package dto

import (
	"time"

	"github.com/ardidw/studioflow-api/internal/models"
)

// AttendanceDTO represents one attendance day in API responses
type AttendanceDTO struct {
	ID         uint64     `json:"id"`
	Date       string     `json:"date"`
	CheckInAt  time.Time  `json:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at,omitempty"`
	Note       string     `json:"note,omitempty"`
}

// ToAttendanceDTO converts an Attendance model
func ToAttendanceDTO(attendance models.Attendance) AttendanceDTO {
	return AttendanceDTO{
		ID:         attendance.ID,
		Date:       attendance.Date,
		CheckInAt:  attendance.CheckInAt,
		CheckOutAt: attendance.CheckOutAt,
		Note:       attendance.Note,
	}
}

// ToAttendanceDTOs converts a slice of Attendance models
func ToAttendanceDTOs(rows []models.Attendance) []AttendanceDTO {
	out := make([]AttendanceDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToAttendanceDTO(row))
	}
	return out
}
