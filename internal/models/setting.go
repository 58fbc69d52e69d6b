package models

import "time"

// Setting is one row of the application key-value configuration store.
type Setting struct {
	Key       string    `gorm:"type:varchar(100);primarykey" json:"key"`
	Value     string    `gorm:"type:varchar(512);not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
