package realtime

import (
	"testing"
	"time"

	"eventhub/database"
	"eventhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupFeedDB(t *testing.T) (*gorm.DB, *Hub) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.RunMigrations(db))

	hub := NewHub(nil)
	require.NoError(t, RegisterCallbacks(db, hub))
	return db, hub
}

func TestCallbacks_PublishWatchedTables(t *testing.T) {
	db, hub := setupFeedDB(t)

	w := models.Workshop{Title: "W1"}
	require.NoError(t, db.Create(&w).Error)

	sub := hub.Subscribe("workshop-"+w.ID.String(),
		On("workshop_tasks").Where("workshop_id", w.ID.String()),
	)
	defer sub.Close()

	task := models.Task{WorkshopID: w.ID, Title: "T1", TaskOrder: 1, Points: 10}
	require.NoError(t, db.Create(&task).Error)

	changes, err := nextWithin(t, sub, time.Second)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, OpInsert, changes[0].Op)
	assert.Equal(t, w.ID.String(), changes[0].Keys["workshop_id"])

	require.NoError(t, db.Model(&task).Update("is_active", true).Error)
	changes, err = nextWithin(t, sub, time.Second)
	require.NoError(t, err)
	assert.Equal(t, OpUpdate, changes[0].Op)
}

func TestCallbacks_OtherWorkshopFiltered(t *testing.T) {
	db, hub := setupFeedDB(t)

	w1 := models.Workshop{Title: "W1"}
	w2 := models.Workshop{Title: "W2"}
	require.NoError(t, db.Create(&w1).Error)
	require.NoError(t, db.Create(&w2).Error)

	sub := hub.Subscribe("workshop-w1", On("workshop_tasks").Where("workshop_id", w1.ID.String()))
	defer sub.Close()

	require.NoError(t, db.Create(&models.Task{WorkshopID: w2.ID, Title: "other"}).Error)
	_, err := nextWithin(t, sub, 30*time.Millisecond)
	assert.Error(t, err)
}

func TestCallbacks_BulkUpdatePublishesUnfiltered(t *testing.T) {
	db, hub := setupFeedDB(t)

	w := models.Workshop{Title: "W1"}
	require.NoError(t, db.Create(&w).Error)
	require.NoError(t, db.Create(&models.Task{WorkshopID: w.ID, Title: "T1"}).Error)

	sub := hub.Subscribe("workshop-w1", On("workshop_tasks").Where("workshop_id", w.ID.String()))
	defer sub.Close()

	require.NoError(t, db.Model(&models.Task{}).Where("workshop_id = ?", w.ID).Update("is_active", true).Error)

	changes, err := nextWithin(t, sub, time.Second)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Nil(t, changes[0].Keys)
}

func TestCallbacks_IgnoreUnwatchedTables(t *testing.T) {
	db, hub := setupFeedDB(t)

	sub := hub.Subscribe("c", On("workshops"), On("users"))
	defer sub.Close()

	require.NoError(t, db.Create(&models.Workshop{Title: "W"}).Error)
	require.NoError(t, db.Create(&models.User{Username: "u", Password: "x"}).Error)

	_, err := nextWithin(t, sub, 30*time.Millisecond)
	assert.Error(t, err)
}
