package constants

const (
	SessionCookieName = "studioflow_session"
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "current_user"
	ContextKeyProject = "project"

	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// DefaultMaxUploadMB caps a single uploaded file unless overridden by the
	// max_upload_mb setting.
	DefaultMaxUploadMB = 25

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Setting keys recognized by the settings service.
const (
	SettingCompanyName = "company_name"
	SettingMaxUploadMB = "max_upload_mb"
)
