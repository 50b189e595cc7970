package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"eventhub/database"
	"eventhub/models"
	"eventhub/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestParseSeed_RequiresTitles(t *testing.T) {
	_, err := parseSeed(strings.NewReader(`{"workshops":[{"title":""}]}`))
	assert.Error(t, err)

	_, err = parseSeed(strings.NewReader(`{not json`))
	assert.Error(t, err)
}

func TestImportSeed_ExampleFile(t *testing.T) {
	f, err := os.Open("../../seed/workshops.json")
	require.NoError(t, err)
	defer f.Close()
	seed, err := parseSeed(f)
	require.NoError(t, err)

	db, err := database.OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	defer database.Close(db)
	require.NoError(t, database.RunMigrations(db))

	ctx := context.Background()
	store := services.NewStore(db)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	sum, err := importSeed(ctx, db, store, seed, log)
	require.NoError(t, err)
	assert.Equal(t, len(seed.Users), sum.Users)
	assert.Equal(t, len(seed.Workshops), sum.Workshops)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "organizer").First(&admin).Error)
	assert.True(t, admin.IsAdmin)

	workshops, err := store.ListWorkshops(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, workshops)

	var group models.Group
	require.NoError(t, db.Where("group_code = ?", "ABC123").First(&group).Error)
	require.NotNil(t, group.Slogan)

	// Re-running reuses users and adds a second copy of the workshops
	again, err := importSeed(ctx, db, store, seed, log)
	require.NoError(t, err)
	assert.Zero(t, again.Users)
	assert.Equal(t, sum.Judges, again.Judges)
}
