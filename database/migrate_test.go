package database

import (
	"testing"

	"eventhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestRunMigrations_CreatesPortalTables(t *testing.T) {
	db, err := OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, RunMigrations(db))
	// Idempotent
	require.NoError(t, RunMigrations(db))

	for _, table := range []string{
		"users", "workshops", "user_workshops", "workshop_groups", "group_members",
		"workshop_tasks", "team_task_submissions", "workshop_leaderboard",
		"workshop_judges", "feedback", "mentorship_requests",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.NoError(t, Ping(db))
}

func TestRunMigrations_UniqueRegistration(t *testing.T) {
	db, err := OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, RunMigrations(db))

	w := models.Workshop{Title: "W1"}
	require.NoError(t, db.Create(&w).Error)
	u := models.User{Username: "ana", Password: "x"}
	require.NoError(t, db.Create(&u).Error)

	require.NoError(t, db.Create(&models.Registration{UserID: u.ID, WorkshopID: w.ID, Status: models.RegistrationStatusEnrolled}).Error)
	assert.Error(t, db.Create(&models.Registration{UserID: u.ID, WorkshopID: w.ID, Status: models.RegistrationStatusEnrolled}).Error)
}
