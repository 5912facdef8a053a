package database

import (
	"testing"

	"bulag/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	assert.NoError(t, configurePool(db, cfg))
}

func TestPersistentModels_MigrateCleanly(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(PersistentModels()...))

	for _, table := range []string{"users", "communities", "posts", "comments", "votes", "promotions", "reports"} {
		assert.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}
