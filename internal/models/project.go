package models

import "time"

type ProjectStatus string

const (
	StatusPendingOffer              ProjectStatus = "Pending Offer"
	StatusPendingApproval           ProjectStatus = "Pending Approval"
	StatusPendingDPConfirmation     ProjectStatus = "Pending DP Confirmation"
	StatusPendingSurvey             ProjectStatus = "Pending Survey"
	StatusSurveyScheduled           ProjectStatus = "Survey Scheduled"
	StatusPendingParallelUploads    ProjectStatus = "Pending Parallel Design Uploads"
	StatusPendingDesignConfirmation ProjectStatus = "Pending Design Confirmation"
	StatusPendingScheduling         ProjectStatus = "Pending Scheduling"
	StatusScheduled                 ProjectStatus = "Scheduled"
	StatusPendingPostSidangRevision ProjectStatus = "Pending Post-Sidang Revision"
	StatusCompleted                 ProjectStatus = "Completed"
	StatusCanceled                  ProjectStatus = "Canceled"
)

// EventDetails is a schedule or survey block. All fields are plain strings;
// an all-empty block means the event has not been set.
type EventDetails struct {
	Date        string `gorm:"type:varchar(10)" json:"date"`
	Time        string `gorm:"type:varchar(5)" json:"time"`
	Location    string `gorm:"type:varchar(255)" json:"location"`
	Description string `gorm:"type:varchar(255)" json:"description"`
}

// IsZero reports whether the block has never been filled in.
func (e EventDetails) IsZero() bool {
	return e.Date == "" && e.Time == "" && e.Location == "" && e.Description == ""
}

type Project struct {
	ID               string        `gorm:"type:varchar(36);primarykey" json:"id"`
	Title            string        `gorm:"type:varchar(255);not null" json:"title"`
	Status           ProjectStatus `gorm:"type:varchar(40);not null" json:"status"`
	Progress         int           `gorm:"not null" json:"progress"`
	AssignedDivision Division      `gorm:"type:varchar(40)" json:"assigned_division"`
	NextAction       *string       `gorm:"type:varchar(255)" json:"next_action"`

	Schedule EventDetails `gorm:"embedded;embeddedPrefix:schedule_" json:"-"`
	Survey   EventDetails `gorm:"embedded;embeddedPrefix:survey_" json:"-"`

	CreatedBy string    `gorm:"type:varchar(50);not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	WorkflowHistory []WorkflowEvent `gorm:"foreignKey:ProjectID" json:"workflow_history,omitempty"`
	Files           []ProjectFile   `gorm:"foreignKey:ProjectID" json:"files,omitempty"`
	DesignSignoffs  []DesignSignoff `gorm:"foreignKey:ProjectID" json:"design_signoffs,omitempty"`
}

// SignedOff reports whether a division has recorded its parallel-upload
// sign-off. DesignSignoffs must be loaded.
func (p *Project) SignedOff(division Division) bool {
	for _, s := range p.DesignSignoffs {
		if s.Division == division {
			return true
		}
	}
	return false
}
