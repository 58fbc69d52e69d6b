package models

import "time"

// Notification is a per-user mailbox record. Delivery is best effort; rows are
// only ever appended and flagged read.
type Notification struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	ProjectID *string   `gorm:"type:varchar(36);index" json:"project_id,omitempty"`
	Message   string    `gorm:"type:varchar(512);not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"timestamp"`
}
