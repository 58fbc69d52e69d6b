package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardidw/studioflow-api/internal/config"
	"github.com/ardidw/studioflow-api/internal/database"
	"github.com/ardidw/studioflow-api/internal/handlers"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/ardidw/studioflow-api/internal/storage"
	"github.com/ardidw/studioflow-api/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	seedPassword string
)

var rootCmd = &cobra.Command{
	Use:   "studioflow",
	Short: "StudioFlow - project tracking API for an architecture studio",
	Long: `StudioFlow tracks architecture projects from offer to completion:
approval, down payment, survey, parallel design uploads, design confirmation,
sidang and revisions, with per-division notifications along the way.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("unknown log level %q", cfg.LogLevel)
		}
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create one account per division",
	RunE:  runSeed,
}

func runServe(cmd *cobra.Command, args []string) error {
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := workflow.Validate(); err != nil {
		return fmt.Errorf("workflow tables are inconsistent: %w", err)
	}

	store, err := storage.New(cfg.StorageDir)
	if err != nil {
		return fmt.Errorf("failed to prepare file storage: %w", err)
	}

	db := database.GetDB()
	projectRepo := repository.NewProjectRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	leaveRepo := repository.NewLeaveRequestRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settingsService := services.NewSettingsService(settingRepo)

	// A stored upload limit overrides the configured one until the next boot.
	maxUploadMB := cfg.MaxUploadMB
	if stored := settingsService.MaxUploadMB(); stored > 0 {
		maxUploadMB = stored
	}
	maxUploadBytes := int64(maxUploadMB) << 20

	notificationService := services.NewNotificationService(notificationRepo, userRepo, logger)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, notificationService, store, maxUploadBytes, logger)
	leaveService := services.NewLeaveService(leaveRepo, notificationService)
	attendanceService := services.NewAttendanceService(attendanceRepo)
	calendarService := services.NewCalendarService(projectRepo, holidayRepo, leaveRepo)

	router, err := handlers.NewRouter(handlers.RouterConfig{
		SessionSecret:  cfg.SessionSecret,
		SessionSecure:  cfg.GinMode == "release",
		RedisHost:      cfg.RedisHost,
		RedisPort:      cfg.RedisPort,
		MaxUploadBytes: maxUploadBytes,
	}, handlers.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		User:         handlers.NewUserHandler(userService),
		Project:      handlers.NewProjectHandler(projectService),
		Workflow:     handlers.NewWorkflowHandler(),
		Notification: handlers.NewNotificationHandler(notificationService),
		Leave:        handlers.NewLeaveHandler(leaveService),
		Attendance:   handlers.NewAttendanceHandler(attendanceService),
		Calendar:     handlers.NewCalendarHandler(calendarService),
		Settings:     handlers.NewSettingsHandler(settingsService),
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	logger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("db_driver", cfg.DBDriver),
		zap.Int("max_upload_mb", maxUploadMB))
	if err := router.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if err := database.Connect(cfg); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			return fmt.Errorf("failed to add indexes: %w", err)
		}
	}

	logger.Info("migrations applied", zap.String("db_driver", cfg.DBDriver))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := database.Connect(cfg); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	userService := services.NewUserService(repository.NewUserRepository(database.GetDB()))

	accounts := []struct {
		username string
		role     models.Division
	}{
		{"owner", models.DivisionOwner},
		{"admin", models.DivisionAdminProyek},
		{"akuntan", models.DivisionAkuntan},
		{"arsitek", models.DivisionArsitek},
		{"struktur", models.DivisionStruktur},
		{"mep", models.DivisionMEP},
	}

	for _, account := range accounts {
		_, err := userService.CreateUser(services.CreateUserInput{
			Username:    account.username,
			Password:    seedPassword,
			Role:        account.role,
			DisplayName: string(account.role),
		})
		if err != nil {
			if errors.Is(err, services.ErrUsernameTaken) {
				logger.Info("account already exists", zap.String("username", account.username))
				continue
			}
			return fmt.Errorf("failed to seed account %q: %w", account.username, err)
		}
		logger.Info("account created",
			zap.String("username", account.username),
			zap.String("role", string(account.role)))
	}
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "studioflow123", "Password for the seeded accounts")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
