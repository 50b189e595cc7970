// database/migrate.go - Database Migration Runner
package database

import (
	"fmt"
	"log/slog"

	"eventhub/models"

	"gorm.io/gorm"
)

// RunMigrations creates or updates every portal table and its indexes.
func RunMigrations(db *gorm.DB) error {
	slog.Info("Running database migrations")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Workshop{},
		&models.Registration{},
		&models.Group{},
		&models.GroupMember{},
		&models.Task{},
		&models.Submission{},
		&models.LeaderboardEntry{},
		&models.Judge{},
		&models.Feedback{},
		&models.MentorshipRequest{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return err
	}

	slog.Info("All migrations completed")
	return nil
}

var indexStatements = []string{
	// Catalog
	"CREATE INDEX IF NOT EXISTS idx_user_workshops_user ON user_workshops(user_id)",

	// Groups
	"CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)",
	"CREATE INDEX IF NOT EXISTS idx_workshop_groups_workshop ON workshop_groups(workshop_id)",

	// Tasks and submissions
	"CREATE INDEX IF NOT EXISTS idx_workshop_tasks_order ON workshop_tasks(workshop_id, task_order)",
	"CREATE INDEX IF NOT EXISTS idx_submissions_group_task ON team_task_submissions(group_id, task_id, submitted_at DESC)",

	// Leaderboard
	"CREATE INDEX IF NOT EXISTS idx_leaderboard_rank ON workshop_leaderboard(workshop_id, rank)",

	// Append-only forms
	"CREATE INDEX IF NOT EXISTS idx_feedback_workshop ON feedback(workshop_id)",
	"CREATE INDEX IF NOT EXISTS idx_mentorship_workshop ON mentorship_requests(workshop_id)",
}

func createIndexes(db *gorm.DB) error {
	for _, stmt := range indexStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
