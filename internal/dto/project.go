package dto

import (
	"time"

	"github.com/ardidw/studioflow-api/internal/models"
)

// EventDetailsDTO represents a scheduled survey or sidang in API responses
type EventDetailsDTO struct {
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// WorkflowEventDTO represents one history entry in API responses
type WorkflowEventDTO struct {
	Division  models.Division       `json:"division"`
	Action    models.WorkflowAction `json:"action"`
	Note      *string               `json:"note,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
}

// ProjectFileDTO represents an uploaded file in API responses
type ProjectFileDTO struct {
	ID             uint64          `json:"id"`
	Name           string          `json:"name"`
	UploadedBy     string          `json:"uploaded_by"`
	UploadedByRole models.Division `json:"uploaded_by_role"`
	Size           int64           `json:"size"`
	ContentType    string          `json:"content_type,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// ProjectDTO represents a project with its full workflow state
type ProjectDTO struct {
	ID                 string                `json:"id"`
	Title              string                `json:"title"`
	Status             models.ProjectStatus  `json:"status"`
	Progress           int                   `json:"progress"`
	AssignedDivision   models.Division       `json:"assigned_division"`
	NextAction         *string               `json:"next_action"`
	CreatedBy          string                `json:"created_by"`
	Survey             *EventDetailsDTO      `json:"survey,omitempty"`
	Schedule           *EventDetailsDTO      `json:"schedule,omitempty"`
	SignedOffDivisions []models.Division     `json:"signed_off_divisions,omitempty"`
	WorkflowHistory    []WorkflowEventDTO    `json:"workflow_history,omitempty"`
	Files              []ProjectFileDTO      `json:"files,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// ProjectListItemDTO represents a project in list responses (minimal data)
type ProjectListItemDTO struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	Status           models.ProjectStatus `json:"status"`
	Progress         int                  `json:"progress"`
	AssignedDivision models.Division      `json:"assigned_division"`
	NextAction       *string              `json:"next_action"`
	CreatedBy        string               `json:"created_by"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectListItemDTO `json:"projects"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalCount int64                `json:"total_count"`
	TotalPages int                  `json:"total_pages"`
}

// ToEventDetailsDTO converts EventDetails, returning nil for an empty value
func ToEventDetailsDTO(details models.EventDetails) *EventDetailsDTO {
	if details.IsZero() {
		return nil
	}
	return &EventDetailsDTO{
		Date:        details.Date,
		Time:        details.Time,
		Location:    details.Location,
		Description: details.Description,
	}
}

// ToWorkflowEventDTO converts a WorkflowEvent model
func ToWorkflowEventDTO(event models.WorkflowEvent) WorkflowEventDTO {
	return WorkflowEventDTO{
		Division:  event.Division,
		Action:    event.Action,
		Note:      event.Note,
		Timestamp: event.CreatedAt,
	}
}

// ToProjectFileDTO converts a ProjectFile model
func ToProjectFileDTO(file models.ProjectFile) ProjectFileDTO {
	return ProjectFileDTO{
		ID:             file.ID,
		Name:           file.Name,
		UploadedBy:     file.UploadedBy,
		UploadedByRole: file.UploadedByRole,
		Size:           file.Size,
		ContentType:    file.ContentType,
		Timestamp:      file.CreatedAt,
	}
}

// ToProjectDTO converts a Project model with its preloaded relations
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:               project.ID,
		Title:            project.Title,
		Status:           project.Status,
		Progress:         project.Progress,
		AssignedDivision: project.AssignedDivision,
		NextAction:       project.NextAction,
		CreatedBy:        project.CreatedBy,
		Survey:           ToEventDetailsDTO(project.Survey),
		Schedule:         ToEventDetailsDTO(project.Schedule),
		CreatedAt:        project.CreatedAt,
		UpdatedAt:        project.UpdatedAt,
	}

	for _, signoff := range project.DesignSignoffs {
		dto.SignedOffDivisions = append(dto.SignedOffDivisions, signoff.Division)
	}
	for _, event := range project.WorkflowHistory {
		dto.WorkflowHistory = append(dto.WorkflowHistory, ToWorkflowEventDTO(event))
	}
	for _, file := range project.Files {
		dto.Files = append(dto.Files, ToProjectFileDTO(file))
	}

	return dto
}

// ToProjectListItemDTO converts a Project model for list responses
func ToProjectListItemDTO(project models.Project) ProjectListItemDTO {
	return ProjectListItemDTO{
		ID:               project.ID,
		Title:            project.Title,
		Status:           project.Status,
		Progress:         project.Progress,
		AssignedDivision: project.AssignedDivision,
		NextAction:       project.NextAction,
		CreatedBy:        project.CreatedBy,
		CreatedAt:        project.CreatedAt,
		UpdatedAt:        project.UpdatedAt,
	}
}
