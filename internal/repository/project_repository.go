package repository

import (
	"strings"

	"github.com/ardidw/studioflow-api/internal/database"
	"github.com/ardidw/studioflow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project together with its opening history event
func (r *GormProjectRepository) Create(project *models.Project, event *models.WorkflowEvent) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}

		event.ProjectID = project.ID
		return tx.Create(event).Error
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id string, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})

	if len(filter.Statuses) > 0 {
		query = query.Where("projects.status IN ?", filter.Statuses)
	}
	if filter.AssignedDivision != nil {
		query = query.Where("projects.assigned_division = ?", *filter.AssignedDivision)
	}
	if filter.CreatedBy != nil {
		query = query.Where("projects.created_by = ?", *filter.CreatedBy)
	}
	if filter.Search != nil && *filter.Search != "" {
		query = query.Where("LOWER(projects.title) LIKE ?", "%"+strings.ToLower(*filter.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.
		Order("projects.created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ApplyUpdate runs fn against a row-locked copy of the project and persists
// the result atomically. Concurrent actions on the same project serialize on
// the row lock, so each caller sees the status left by the previous one.
func (r *GormProjectRepository) ApplyUpdate(id string, fn func(project *models.Project) (*ProjectMutation, error)) (*models.Project, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx
		// sqlite has no FOR UPDATE syntax; its single-writer transactions
		// already serialize these updates.
		if tx.Dialector.Name() != "sqlite" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var project models.Project
		if err := query.Preload("Files").Preload("DesignSignoffs").First(&project, "id = ?", id).Error; err != nil {
			return err
		}

		mutation, err := fn(&project)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&project).Error; err != nil {
			return err
		}

		if mutation == nil {
			return nil
		}
		if mutation.Event != nil {
			if err := tx.Create(mutation.Event).Error; err != nil {
				return err
			}
		}
		if len(mutation.Files) > 0 {
			if err := tx.Create(&mutation.Files).Error; err != nil {
				return err
			}
		}
		if mutation.Signoff != nil {
			if err := tx.Create(mutation.Signoff).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(id, "WorkflowHistory", "Files", "DesignSignoffs")
}

// ListWithEventsBetween lists projects whose survey or sidang date falls
// inside the range
func (r *GormProjectRepository) ListWithEventsBetween(from, to string) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Where("(schedule_date >= ? AND schedule_date <= ?) OR (survey_date >= ? AND survey_date <= ?)",
			from, to, from, to).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// AddFile attaches an uploaded file to a project
func (r *GormProjectRepository) AddFile(file *models.ProjectFile) error {
	return r.db.Create(file).Error
}

// FindFile finds a file by ID scoped to a project
func (r *GormProjectRepository) FindFile(projectID string, fileID uint64) (*models.ProjectFile, error) {
	var file models.ProjectFile
	if err := r.db.Where("project_id = ? AND id = ?", projectID, fileID).
		First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// DeleteFile removes a file record
func (r *GormProjectRepository) DeleteFile(id uint64) error {
	return r.db.Delete(&models.ProjectFile{}, id).Error
}
