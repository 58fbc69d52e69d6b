package handlers

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/ardidw/studioflow-api/internal/dto"
	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/middleware"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/ardidw/studioflow-api/internal/utils"
	"github.com/ardidw/studioflow-api/internal/workflow"
	"github.com/gin-gonic/gin"
)

// ProjectHandler coordinates project and workflow handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns projects matching the query filters.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	input := services.ListProjectsInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}
	for _, raw := range c.QueryArray("status") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			status := models.ProjectStatus(part)
			if !knownStatus(status) {
				apierrors.BadRequest(c, "Unknown status filter")
				return
			}
			input.Statuses = append(input.Statuses, status)
		}
	}
	if division := c.Query("division"); division != "" {
		d := models.Division(division)
		if !d.IsRole() {
			apierrors.BadRequest(c, "Unknown division filter")
			return
		}
		input.AssignedDivision = &d
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		input.CreatedBy = &createdBy
	}
	if search := c.Query("q"); search != "" {
		input.Search = &search
	}

	projects, total, err := h.projectService.ListProjects(input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	items := make([]dto.ProjectListItemDTO, len(projects))
	for i, project := range projects {
		items[i] = dto.ToProjectListItemDTO(project)
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{
		Projects:   items,
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(params.Limit))),
	})
}

// CreateProject opens a new project at the first workflow stage.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Title string `json:"title" binding:"required"`
	}

	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Title:     req.Title,
		CreatedBy: user.Username,
		Role:      user.Role,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns a project with its history, files and sign-offs.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	full, err := h.projectService.GetProject(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*full))
}

// UpdateProject renames a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Title *string `json:"title"`
	}

	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.projectService.UpdateProject(project.ID, services.UpdateProjectInput{
		Title: req.Title,
	}, user.Role)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// ApplyAction runs one workflow action on a project. The request is either
// JSON or, when the action carries files, multipart form data.
func (h *ProjectHandler) ApplyAction(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	input := services.ApplyActionInput{
		ProjectID: project.ID,
		Actor:     user,
	}

	if c.ContentType() == "multipart/form-data" {
		form, err := c.MultipartForm()
		if err != nil {
			apierrors.BadRequest(c, "Invalid multipart form")
			return
		}

		action := c.PostForm("action")
		if action == "" {
			apierrors.BadRequest(c, "Action is required")
			return
		}
		input.Action = models.WorkflowAction(action)
		if note := c.PostForm("note"); note != "" {
			input.Note = &note
		}
		input.Schedule = eventDetailsFromForm(c, "schedule")
		input.Survey = eventDetailsFromForm(c, "survey")

		for _, header := range form.File["files"] {
			f, err := header.Open()
			if err != nil {
				apierrors.InternalError(c, "Failed to read uploaded file")
				return
			}
			defer f.Close()
			input.Uploads = append(input.Uploads, services.Upload{
				Name:        header.Filename,
				Size:        header.Size,
				ContentType: header.Header.Get("Content-Type"),
				Reader:      f,
			})
		}
	} else {
		type EventDetailsRequest struct {
			Date        string `json:"date" binding:"required"`
			Time        string `json:"time"`
			Location    string `json:"location"`
			Description string `json:"description"`
		}
		type ActionRequest struct {
			Action   string               `json:"action" binding:"required"`
			Note     *string              `json:"note"`
			Schedule *EventDetailsRequest `json:"schedule"`
			Survey   *EventDetailsRequest `json:"survey"`
		}

		var req ActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}

		input.Action = models.WorkflowAction(req.Action)
		input.Note = req.Note
		if req.Schedule != nil {
			input.Schedule = &models.EventDetails{
				Date:        req.Schedule.Date,
				Time:        req.Schedule.Time,
				Location:    req.Schedule.Location,
				Description: req.Schedule.Description,
			}
		}
		if req.Survey != nil {
			input.Survey = &models.EventDetails{
				Date:        req.Survey.Date,
				Time:        req.Survey.Time,
				Location:    req.Survey.Location,
				Description: req.Survey.Description,
			}
		}
	}

	updated, err := h.projectService.ApplyAction(input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// GetChecklist returns the parallel-upload document checklist per design
// division.
func (h *ProjectHandler) GetChecklist(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	full, err := h.projectService.GetProject(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectChecklistDTO(*full))
}

// eventDetailsFromForm collects the prefixed schedule or survey fields from a
// multipart form, returning nil when none were sent.
func eventDetailsFromForm(c *gin.Context, prefix string) *models.EventDetails {
	details := models.EventDetails{
		Date:        c.PostForm(prefix + "_date"),
		Time:        c.PostForm(prefix + "_time"),
		Location:    c.PostForm(prefix + "_location"),
		Description: c.PostForm(prefix + "_description"),
	}
	if details.IsZero() {
		return nil
	}
	return &details
}

func knownStatus(status models.ProjectStatus) bool {
	for _, st := range workflow.StageList() {
		if st.Status == status {
			return true
		}
	}
	return false
}

func respondProjectError(c *gin.Context, err error) {
	var missing *workflow.MissingDocumentsError
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFoundCode(c, apierrors.ErrCodeProjectNotFound, "Project not found")
	case errors.Is(err, services.ErrFileNotFound):
		apierrors.NotFoundCode(c, apierrors.ErrCodeFileNotFound, "File not found")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNoFilesProvided),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidTime):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrFileTooLarge):
		apierrors.PayloadTooLarge(c, "")
	case errors.Is(err, services.ErrProjectClosed):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotAssignedDivision):
		apierrors.ForbiddenCode(c, apierrors.ErrCodeNotAssignedDivision, err.Error())
	case errors.Is(err, services.ErrCannotRevise):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrFileDeleteDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, workflow.ErrTransitionNotFound):
		apierrors.ConflictCode(c, apierrors.ErrCodeWorkflowNotFound, "No workflow step matches this action on the current status")
	case errors.Is(err, workflow.ErrStatusNotRevisable):
		apierrors.ConflictCode(c, apierrors.ErrCodeRevisionNotForStep, "Revision is not supported for the current step")
	case errors.As(err, &missing):
		apierrors.ConflictWithDetails(c, apierrors.ErrCodeMissingDocuments, missing.Error(), missing.Missing)
	case errors.Is(err, workflow.ErrFileRequired),
		errors.Is(err, workflow.ErrScheduleRequired),
		errors.Is(err, workflow.ErrSurveyRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, workflow.ErrWrongActionRole),
		errors.Is(err, workflow.ErrNotDesignDivision):
		apierrors.ForbiddenCode(c, apierrors.ErrCodeNotAssignedDivision, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
