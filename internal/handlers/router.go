package handlers

import (
	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/middleware"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Project      *ProjectHandler
	Workflow     *WorkflowHandler
	Notification *NotificationHandler
	Leave        *LeaveHandler
	Attendance   *AttendanceHandler
	Calendar     *CalendarHandler
	Settings     *SettingsHandler
}

// RouterConfig carries the session and upload settings the router needs.
type RouterConfig struct {
	SessionSecret  string
	SessionSecure  bool
	RedisHost      string
	RedisPort      string
	MaxUploadBytes int64
}

// NewRouter builds the Gin engine: session middleware, health check and the
// API route groups.
func NewRouter(cfg RouterConfig, h Handlers) (*gin.Engine, error) {
	r := gin.Default()
	if cfg.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	store, err := sessionStore(cfg)
	if err != nil {
		return nil, err
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "StudioFlow API is running",
		})
	})

	privileged := middleware.RequireRole(models.DivisionOwner, models.DivisionAdminProyek)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me and /change-password)
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(), h.Auth.GetCurrentUser)
			auth.POST("/change-password", middleware.RequireAuth(), h.Auth.ChangePassword)
		}

		// Account administration (protected, privileged divisions)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(), privileged)
		{
			users.GET("", h.User.ListUsers)
			users.POST("", h.User.CreateUser)
			users.GET("/:id", h.User.GetUser)
			users.PATCH("/:id", h.User.UpdateUser)
			users.DELETE("/:id", middleware.RequireRole(models.DivisionOwner), h.User.DeleteUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", h.Project.ListProjects)
			projects.POST("", privileged, h.Project.CreateProject)
			projects.GET("/:id", middleware.RequireProjectAccess(), h.Project.GetProject)
			projects.PATCH("/:id", middleware.RequireProjectAccess(), privileged, h.Project.UpdateProject)
			projects.POST("/:id/actions", middleware.RequireProjectAccess(), h.Project.ApplyAction)
			projects.GET("/:id/checklist", middleware.RequireProjectAccess(), h.Project.GetChecklist)
			projects.POST("/:id/files", middleware.RequireProjectAccess(), h.Project.UploadFiles)
			projects.GET("/:id/files/:fileID", middleware.RequireProjectAccess(), h.Project.DownloadFile)
			projects.DELETE("/:id/files/:fileID", middleware.RequireProjectAccess(), h.Project.DeleteFile)
		}

		// Workflow metadata (protected)
		api.GET("/workflow/statuses", middleware.RequireAuth(), h.Workflow.ListStatuses)

		// Notification feed (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", h.Notification.ListNotifications)
			notifications.POST("/read-all", h.Notification.MarkAllNotificationsRead)
			notifications.POST("/:id/read", h.Notification.MarkNotificationRead)
		}

		// Leave requests (protected; decisions for privileged divisions)
		leave := api.Group("/leave-requests")
		leave.Use(middleware.RequireAuth())
		{
			leave.GET("", h.Leave.ListLeaveRequests)
			leave.POST("", h.Leave.CreateLeaveRequest)
			leave.POST("/:id/approve", privileged, h.Leave.ApproveLeaveRequest)
			leave.POST("/:id/reject", privileged, h.Leave.RejectLeaveRequest)
		}

		// Attendance (protected)
		attendance := api.Group("/attendance")
		attendance.Use(middleware.RequireAuth())
		{
			attendance.GET("", h.Attendance.ListAttendance)
			attendance.POST("/check-in", h.Attendance.CheckIn)
			attendance.POST("/check-out", h.Attendance.CheckOut)
		}

		// Holidays (protected; writes for privileged divisions)
		holidays := api.Group("/holidays")
		holidays.Use(middleware.RequireAuth())
		{
			holidays.GET("", h.Calendar.ListHolidays)
			holidays.POST("", privileged, h.Calendar.CreateHoliday)
			holidays.DELETE("/:id", privileged, h.Calendar.DeleteHoliday)
		}

		// Office calendar (protected)
		api.GET("/calendar", middleware.RequireAuth(), h.Calendar.GetCalendar)

		// Settings (protected; writes for privileged divisions)
		settings := api.Group("/settings")
		settings.Use(middleware.RequireAuth())
		{
			settings.GET("", h.Settings.GetSettings)
			settings.PUT("", privileged, h.Settings.UpdateSettings)
		}
	}

	return r, nil
}

// sessionStore picks Redis when configured and falls back to the cookie store.
func sessionStore(cfg RouterConfig) (sessions.Store, error) {
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		return redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret), // authentication key
		)
	}
	return cookie.NewStore([]byte(cfg.SessionSecret)), nil
}
