package models

import "time"

type LeaveType string

const (
	LeaveAnnual LeaveType = "annual"
	LeaveSick   LeaveType = "sick"
	LeaveUnpaid LeaveType = "unpaid"
)

// LeaveTypes returns the accepted leave categories.
func LeaveTypes() []LeaveType {
	return []LeaveType{LeaveAnnual, LeaveSick, LeaveUnpaid}
}

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

type LeaveRequest struct {
	ID           uint64      `gorm:"primarykey" json:"id"`
	UserID       uint64      `gorm:"index;not null" json:"user_id"`
	Type         LeaveType   `gorm:"type:varchar(20);not null" json:"type"`
	StartDate    string      `gorm:"type:varchar(10);not null" json:"start_date"`
	EndDate      string      `gorm:"type:varchar(10);not null" json:"end_date"`
	Reason       string      `gorm:"type:varchar(512)" json:"reason"`
	Status       LeaveStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DecisionNote *string     `gorm:"type:varchar(512)" json:"decision_note,omitempty"`
	DecidedBy    *uint64     `json:"decided_by,omitempty"`
	DecidedAt    *time.Time  `json:"decided_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
