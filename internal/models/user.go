package models

import "time"

type User struct {
	ID           uint64   `gorm:"primarykey" json:"id"`
	Username     string   `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"type:varchar(255);not null" json:"-"`
	Role         Division `gorm:"type:varchar(40);not null" json:"role"`
	DisplayName  string   `gorm:"type:varchar(100)" json:"display_name"`
	Email        string   `gorm:"type:varchar(255)" json:"email"`
	Phone        string   `gorm:"type:varchar(30)" json:"phone"`

	// Google OAuth tokens kept for the calendar integration. Never serialized.
	GoogleAccessToken  string `gorm:"type:text" json:"-"`
	GoogleRefreshToken string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Notifications []Notification `gorm:"foreignKey:UserID" json:"-"`
	LeaveRequests []LeaveRequest `gorm:"foreignKey:UserID" json:"-"`
}
