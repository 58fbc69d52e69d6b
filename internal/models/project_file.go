package models

import "time"

// ProjectFile is the metadata record for a file stored under the project's
// storage folder. Path is relative to that folder.
type ProjectFile struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	ProjectID      string    `gorm:"type:varchar(36);index;not null" json:"project_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	UploadedBy     string    `gorm:"type:varchar(50);not null" json:"uploaded_by"`
	UploadedByRole Division  `gorm:"type:varchar(40);not null" json:"uploaded_by_role"`
	Path           string    `gorm:"type:varchar(512);not null" json:"path"`
	Size           int64     `json:"size"`
	ContentType    string    `gorm:"type:varchar(100)" json:"content_type"`
	CreatedAt      time.Time `json:"timestamp"`
}

// DesignSignoff records that a division finished its uploads during the
// parallel design stage.
type DesignSignoff struct {
	ProjectID string    `gorm:"type:varchar(36);primarykey" json:"project_id"`
	Division  Division  `gorm:"type:varchar(40);primarykey" json:"division"`
	CreatedAt time.Time `json:"created_at"`
}
