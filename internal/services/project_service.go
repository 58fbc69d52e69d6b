package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"github.com/ardidw/studioflow-api/internal/storage"
	"github.com/ardidw/studioflow-api/internal/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrFileNotFound        = errors.New("file not found")
	ErrFileTooLarge        = errors.New("uploaded file exceeds the size limit")
	ErrProjectClosed       = errors.New("project no longer accepts changes")
	ErrNotAssignedDivision = errors.New("this division cannot act on the current step")
	ErrCannotRevise        = errors.New("only Owner and Admin Proyek can request revisions")
	ErrNoFilesProvided     = errors.New("at least one file is required")
	ErrFileDeleteDenied    = errors.New("only the uploader, Owner or Admin Proyek can delete a file")
	ErrInvalidTime         = errors.New("times must use the HH:MM format")
)

// ProjectService drives projects through the workflow and manages their files.
type ProjectService struct {
	projectRepo   repository.ProjectRepository
	notifications *NotificationService
	store         *storage.Store
	maxUpload     int64
	logger        *zap.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, notifications *NotificationService, store *storage.Store, maxUpload int64, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		notifications: notifications,
		store:         store,
		maxUpload:     maxUpload,
		logger:        logger,
	}
}

// CreateProjectInput represents input for opening a project.
type CreateProjectInput struct {
	Title     string
	CreatedBy string
	Role      models.Division
}

// CreateProject opens a project at the first workflow stage.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	st := workflow.InitialStage()
	next := st.NextAction
	project := &models.Project{
		ID:               uuid.NewString(),
		Title:            title,
		Status:           st.Status,
		Progress:         st.Progress,
		AssignedDivision: st.Division,
		NextAction:       &next,
		CreatedBy:        input.CreatedBy,
	}
	event := &models.WorkflowEvent{
		Division:  input.Role,
		Action:    models.ActionCreated,
		CreatedAt: time.Now(),
	}

	if err := s.projectRepo.Create(project, event); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID),
		zap.String("created_by", input.CreatedBy))

	return project, nil
}

// ListProjectsInput represents filters for listing projects.
type ListProjectsInput struct {
	Statuses         []models.ProjectStatus
	AssignedDivision *models.Division
	CreatedBy        *string
	Search           *string
	Page             int
	PageSize         int
}

// ListProjects returns projects matching the filters.
func (s *ProjectService) ListProjects(input ListProjectsInput) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(repository.ProjectFilter{
		Statuses:         input.Statuses,
		AssignedDivision: input.AssignedDivision,
		CreatedBy:        input.CreatedBy,
		Search:           input.Search,
		Page:             input.Page,
		PageSize:         input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project with its history, files and sign-offs.
func (s *ProjectService) GetProject(id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id, "WorkflowHistory", "Files", "DesignSignoffs")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) findProject(id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput represents the mutable project fields.
type UpdateProjectInput struct {
	Title *string
}

// UpdateProject renames a project and moves its storage folder along.
func (s *ProjectService) UpdateProject(id string, input UpdateProjectInput, role models.Division) (*models.Project, error) {
	if input.Title == nil {
		return s.GetProject(id)
	}
	title := strings.TrimSpace(*input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	var oldTitle string
	updated, err := s.projectRepo.ApplyUpdate(id, func(p *models.Project) (*repository.ProjectMutation, error) {
		if workflow.IsTerminal(p.Status) {
			return nil, ErrProjectClosed
		}
		oldTitle = p.Title
		if p.Title == title {
			return nil, nil
		}

		p.Title = title
		note := fmt.Sprintf("%s -> %s", oldTitle, title)
		return &repository.ProjectMutation{
			Event: &models.WorkflowEvent{
				ProjectID: p.ID,
				Division:  role,
				Action:    models.ActionTitleUpdated,
				Note:      &note,
				CreatedAt: time.Now(),
			},
		}, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if oldTitle != "" && oldTitle != title {
		if err := s.store.RenameProjectDir(id, oldTitle, title); err != nil {
			s.logger.Warn("project folder rename failed",
				zap.String("project_id", id),
				zap.Error(err))
		}
	}

	return updated, nil
}

// Upload is one file attached to a request.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// ApplyActionInput represents one workflow action submission.
type ApplyActionInput struct {
	ProjectID string
	Action    models.WorkflowAction
	Actor     *models.User
	Note      *string
	Uploads   []Upload
	Schedule  *models.EventDetails
	Survey    *models.EventDetails
}

// ApplyAction runs one workflow action: capability check, file intake, the
// transition itself under a row lock, and the notification fan-out after
// commit. The returned project carries the refreshed history and files.
func (s *ProjectService) ApplyAction(input ApplyActionInput) (*models.Project, error) {
	role := input.Actor.Role

	if err := validateEventDetails(input.Schedule); err != nil {
		return nil, err
	}
	if err := validateEventDetails(input.Survey); err != nil {
		return nil, err
	}

	for _, up := range input.Uploads {
		if s.maxUpload > 0 && up.Size > s.maxUpload {
			return nil, ErrFileTooLarge
		}
	}

	visible, err := s.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCapability(role, visible.Status, input.Action); err != nil {
		return nil, err
	}

	// Files land on disk before the transaction so only files that actually
	// exist get rows; the rows themselves commit atomically with the event.
	saved, err := s.saveUploads(visible, input.Actor, input.Uploads)
	if err != nil {
		return nil, err
	}

	var notify []models.Division
	var message string
	updated, err := s.projectRepo.ApplyUpdate(input.ProjectID, func(p *models.Project) (*repository.ProjectMutation, error) {
		// The status may have moved since the first look, so the capability
		// check runs again against the locked row.
		if err := s.checkCapability(role, p.Status, input.Action); err != nil {
			return nil, err
		}

		p.Files = append(p.Files, saved...)

		res, err := workflow.Apply(p, workflow.Input{
			Action:   input.Action,
			Actor:    input.Actor.Username,
			Role:     role,
			Note:     input.Note,
			Files:    len(p.Files),
			Schedule: input.Schedule,
			Survey:   input.Survey,
			Now:      time.Now(),
		})
		if err != nil {
			return nil, err
		}

		notify = res.Notify
		if res.Advanced {
			message = statusMessage(p)
		}

		return &repository.ProjectMutation{
			Event:   &res.Event,
			Files:   saved,
			Signoff: res.Signoff,
		}, nil
	})
	if err != nil {
		s.discardUploads(visible, saved)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if len(notify) > 0 {
		s.notifications.FanOut(updated.ID, message, notify)
	}

	s.logger.Info("workflow action applied",
		zap.String("project_id", updated.ID),
		zap.String("action", string(input.Action)),
		zap.String("division", string(role)),
		zap.String("status", string(updated.Status)))

	return updated, nil
}

func (s *ProjectService) checkCapability(role models.Division, status models.ProjectStatus, action models.WorkflowAction) error {
	if workflow.IsReviseAction(action) {
		if !workflow.CanRevise(role) {
			return ErrCannotRevise
		}
		return nil
	}
	if !workflow.CanAct(role, status) {
		return ErrNotAssignedDivision
	}
	return nil
}

func statusMessage(p *models.Project) string {
	if p.NextAction != nil {
		return fmt.Sprintf("Project %q moved to %q. Next action: %s", p.Title, string(p.Status), *p.NextAction)
	}
	return fmt.Sprintf("Project %q moved to %q", p.Title, string(p.Status))
}

// validateEventDetails checks the date and time formats of a schedule or
// survey block. The calendar compares these as strings, so malformed values
// must not reach the database.
func validateEventDetails(details *models.EventDetails) error {
	if details == nil {
		return nil
	}
	if details.Date != "" {
		if _, err := time.Parse(constants.DateLayout, details.Date); err != nil {
			return ErrInvalidDate
		}
	}
	if details.Time != "" {
		if _, err := time.Parse(constants.TimeLayout, details.Time); err != nil {
			return ErrInvalidTime
		}
	}
	return nil
}

// UploadFiles stores files outside a workflow action. Plain uploads do not
// touch the history.
func (s *ProjectService) UploadFiles(projectID string, actor *models.User, uploads []Upload) ([]models.ProjectFile, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFilesProvided
	}
	for _, up := range uploads {
		if s.maxUpload > 0 && up.Size > s.maxUpload {
			return nil, ErrFileTooLarge
		}
	}

	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if workflow.IsTerminal(project.Status) {
		return nil, ErrProjectClosed
	}

	saved, err := s.saveUploads(project, actor, uploads)
	if err != nil {
		return nil, err
	}

	for i := range saved {
		if err := s.projectRepo.AddFile(&saved[i]); err != nil {
			s.discardUploads(project, saved[i:])
			return nil, fmt.Errorf("failed to record file: %w", err)
		}
	}

	return saved, nil
}

// OpenFile returns the file record and an open handle on its content. The
// caller closes the handle.
func (s *ProjectService) OpenFile(projectID string, fileID uint64) (*models.ProjectFile, *os.File, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, nil, err
	}

	file, err := s.projectRepo.FindFile(projectID, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to find file: %w", err)
	}

	f, err := s.store.Open(project.ID, project.Title, file.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to open stored file: %w", err)
	}

	return file, f, nil
}

// DeleteFile removes a file record and its stored content. Only the uploader
// and the privileged divisions may delete.
func (s *ProjectService) DeleteFile(projectID string, fileID uint64, actor *models.User) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	if workflow.IsTerminal(project.Status) {
		return ErrProjectClosed
	}

	file, err := s.projectRepo.FindFile(projectID, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to find file: %w", err)
	}

	if !workflow.Privileged(actor.Role) && file.UploadedBy != actor.Username {
		return ErrFileDeleteDenied
	}

	if err := s.projectRepo.DeleteFile(file.ID); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.store.Remove(project.ID, project.Title, file.Path); err != nil {
		s.logger.Warn("failed to remove stored file",
			zap.String("project_id", project.ID),
			zap.String("file", file.Path),
			zap.Error(err))
	}

	return nil
}

func (s *ProjectService) saveUploads(p *models.Project, actor *models.User, uploads []Upload) ([]models.ProjectFile, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	saved := make([]models.ProjectFile, 0, len(uploads))
	for _, up := range uploads {
		storedName, size, err := s.store.Save(p.ID, p.Title, up.Name, up.Reader)
		if err != nil {
			s.discardUploads(p, saved)
			return nil, fmt.Errorf("failed to store file: %w", err)
		}
		saved = append(saved, models.ProjectFile{
			ProjectID:      p.ID,
			Name:           up.Name,
			UploadedBy:     actor.Username,
			UploadedByRole: actor.Role,
			Path:           storedName,
			Size:           size,
			ContentType:    up.ContentType,
		})
	}
	return saved, nil
}

func (s *ProjectService) discardUploads(p *models.Project, files []models.ProjectFile) {
	for _, f := range files {
		if err := s.store.Remove(p.ID, p.Title, f.Path); err != nil {
			s.logger.Warn("failed to remove stored file",
				zap.String("project_id", p.ID),
				zap.String("file", f.Path),
				zap.Error(err))
		}
	}
}
