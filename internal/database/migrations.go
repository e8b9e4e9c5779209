package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate
// derives from struct tags. Lookups covered: memberships by user, pending
// invitations by email, bugs by project+status for dashboard aggregation.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"team_members", "idx_team_members_user_id", "user_id"},
		{"teams", "idx_teams_project_id", "project_id"},

		{"invitations", "idx_invitations_email_status", "email, status"},
		{"invitations", "idx_invitations_project_id", "project_id"},

		{"bugs", "idx_bugs_project_status", "project_id, status"},
		{"bugs", "idx_bugs_created_at", "created_at"},
		{"todos", "idx_todos_project_id", "project_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
