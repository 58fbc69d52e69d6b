package repository

import (
	"github.com/ardidw/studioflow-api/internal/models"
)

// ProjectMutation carries the rows a workflow action produced alongside the
// updated project: the history event, any files recorded during the action,
// and an optional design sign-off.
type ProjectMutation struct {
	Event   *models.WorkflowEvent
	Files   []models.ProjectFile
	Signoff *models.DesignSignoff
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project together with its opening history event
	Create(project *models.Project, event *models.WorkflowEvent) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Project, error)

	// List retrieves projects with filtering and pagination
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// ApplyUpdate runs fn against a row-locked copy of the project and
	// persists the project plus the returned mutation in one transaction.
	// The reloaded project is returned on success.
	ApplyUpdate(id string, fn func(project *models.Project) (*ProjectMutation, error)) (*models.Project, error)

	// ListWithEventsBetween lists projects whose survey or sidang date falls
	// inside the range
	ListWithEventsBetween(from, to string) ([]models.Project, error)

	// AddFile attaches an uploaded file to a project
	AddFile(file *models.ProjectFile) error

	// FindFile finds a file by ID scoped to a project
	FindFile(projectID string, fileID uint64) (*models.ProjectFile, error)

	// DeleteFile removes a file record
	DeleteFile(id uint64) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Statuses         []models.ProjectStatus
	AssignedDivision *models.Division
	CreatedBy        *string
	Search           *string
	Page             int
	PageSize         int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List retrieves users with filtering and pagination
	List(filter UserFilter) ([]models.User, int64, error)

	// ListByRoles lists all users holding any of the given roles
	ListByRoles(roles []models.Division) ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete removes a user
	Delete(id uint64) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role     *models.Division
	Search   *string
	Page     int
	PageSize int
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// CreateAll inserts a batch of notifications
	CreateAll(notifications []models.Notification) error

	// List retrieves a user's notifications, newest first
	List(filter NotificationFilter) ([]models.Notification, int64, error)

	// CountUnread counts a user's unread notifications
	CountUnread(userID uint64) (int64, error)

	// MarkRead marks one notification read, scoped to its owner
	MarkRead(userID, notificationID uint64) error

	// MarkAllRead marks all of a user's notifications read
	MarkAllRead(userID uint64) error
}

// NotificationFilter holds filtering options for listing notifications
type NotificationFilter struct {
	UserID     uint64
	UnreadOnly bool
	Page       int
	PageSize   int
}

// LeaveRequestRepository defines the interface for leave request data access
type LeaveRequestRepository interface {
	// Create creates a new leave request
	Create(request *models.LeaveRequest) error

	// FindByID finds a leave request by ID
	FindByID(id uint64) (*models.LeaveRequest, error)

	// List retrieves leave requests with filtering and pagination
	List(filter LeaveFilter) ([]models.LeaveRequest, int64, error)

	// Update updates a leave request
	Update(request *models.LeaveRequest) error
}

// LeaveFilter holds filtering options for listing leave requests
type LeaveFilter struct {
	UserID   *uint64
	Status   *models.LeaveStatus
	Page     int
	PageSize int
}

// AttendanceRepository defines the interface for attendance data access
type AttendanceRepository interface {
	// Create records a check-in
	Create(attendance *models.Attendance) error

	// FindByUserAndDate finds a user's attendance row for one date
	FindByUserAndDate(userID uint64, date string) (*models.Attendance, error)

	// Update updates an attendance row
	Update(attendance *models.Attendance) error

	// List retrieves a user's attendance rows in a date range, oldest first
	List(filter AttendanceFilter) ([]models.Attendance, error)
}

// AttendanceFilter holds filtering options for listing attendance rows
type AttendanceFilter struct {
	UserID uint64
	From   string
	To     string
}

// HolidayRepository defines the interface for holiday data access
type HolidayRepository interface {
	// Create creates a holiday
	Create(holiday *models.Holiday) error

	// Delete removes a holiday
	Delete(id uint64) error

	// List retrieves holidays in a date range, oldest first
	List(from, to string) ([]models.Holiday, error)
}

// SettingRepository defines the interface for settings data access
type SettingRepository interface {
	// Get reads one setting
	Get(key string) (*models.Setting, error)

	// Set writes one setting, inserting or updating as needed
	Set(setting *models.Setting) error

	// All reads every setting
	All() ([]models.Setting, error)
}
