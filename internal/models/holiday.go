package models

import "time"

type Holiday struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Date      string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
