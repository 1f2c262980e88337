package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hottakes/internal/config"
	"hottakes/internal/models"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	err = configurePool(db, cfg)
	assert.NoError(t, err)
}

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"profiles", "posts", "votes"} {
		assert.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}

	// The composite vote index is the uniqueness enforcement mechanism for
	// one-vote-per-user-per-post; migration must create it.
	assert.True(t, db.Migrator().HasIndex(&models.Vote{}, "idx_votes_post_user"))
	assert.True(t, db.Migrator().HasIndex(&models.Profile{}, "UserID"))
}
