package models

import "time"

// Attendance is one user's presence record for one working day.
type Attendance struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	Date       string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	CheckInAt  time.Time  `json:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at,omitempty"`
	Note       string     `gorm:"type:varchar(255)" json:"note"`
}
