package models

import "time"

// WorkflowAction identifies an operation submitted against a project's
// workflow. The values are wire identifiers and must stay stable.
type WorkflowAction string

const (
	ActionCreated      WorkflowAction = "created"
	ActionTitleUpdated WorkflowAction = "title_updated"

	ActionSubmitted         WorkflowAction = "submitted"
	ActionApproved          WorkflowAction = "approved"
	ActionRejected          WorkflowAction = "rejected"
	ActionScheduled         WorkflowAction = "scheduled"
	ActionCompleted         WorkflowAction = "completed"
	ActionAllFilesConfirmed WorkflowAction = "all_files_confirmed"

	ActionArchitectUploadedInitialImages WorkflowAction = "architect_uploaded_initial_images_for_struktur"
	ActionMarkDivisionComplete           WorkflowAction = "mark_division_complete"
	ActionRevisionCompletedAndFinish     WorkflowAction = "revision_completed_and_finish"

	ActionReviseOffer       WorkflowAction = "revise_offer"
	ActionReviseDP          WorkflowAction = "revise_dp"
	ActionReviseAfterSidang WorkflowAction = "revise_after_sidang"
)

// WorkflowEvent is one entry of a project's append-only history log.
type WorkflowEvent struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	ProjectID string         `gorm:"type:varchar(36);index;not null" json:"project_id"`
	Division  Division       `gorm:"type:varchar(40);not null" json:"division"`
	Action    WorkflowAction `gorm:"type:varchar(60);not null" json:"action"`
	Note      *string        `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time      `json:"timestamp"`
}
