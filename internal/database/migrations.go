package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes that AutoMigrate tags do not
// cover. The pg_indexes lookup is postgres-specific, so callers must gate this
// on the postgres driver.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Project listing filters and sorting
		{"projects", "idx_projects_status", "status"},
		{"projects", "idx_projects_assigned_division", "assigned_division"},
		{"projects", "idx_projects_created_at", "created_at"},

		// Workflow history lookups by project
		{"workflow_events", "idx_workflow_events_project_created", "project_id, created_at"},

		// Unread notification counts
		{"notifications", "idx_notifications_user_read", "user_id, is_read"},

		// Leave request review queues
		{"leave_requests", "idx_leave_requests_status", "status"},
		{"leave_requests", "idx_leave_requests_user_id", "user_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		zap.L().Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
