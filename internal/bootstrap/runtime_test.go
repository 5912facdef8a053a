package bootstrap

import (
	"fmt"
	"sync/atomic"
	"testing"

	"bulag/internal/config"
	"bulag/internal/database"
	"bulag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var bootTestDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:boottest%d?mode=memory&cache=shared", bootTestDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestEnsureDevRootAdmin(t *testing.T) {
	t.Run("disabled outside development", func(t *testing.T) {
		db := newTestDB(t)
		cfg := &config.Config{Env: "production", DevBootstrapRoot: true, DevRootPassword: "pw"}
		require.NoError(t, ensureDevRootAdmin(cfg, db))

		var count int64
		require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("requires a password", func(t *testing.T) {
		db := newTestDB(t)
		cfg := &config.Config{Env: "development", DevBootstrapRoot: true}
		assert.Error(t, ensureDevRootAdmin(cfg, db))
	})

	t.Run("creates the root admin once", func(t *testing.T) {
		db := newTestDB(t)
		cfg := &config.Config{
			Env:              "development",
			DevBootstrapRoot: true,
			DevRootPassword:  "local-root-pass",
		}
		require.NoError(t, ensureDevRootAdmin(cfg, db))
		require.NoError(t, ensureDevRootAdmin(cfg, db))

		var root models.User
		require.NoError(t, db.First(&root, 1).Error)
		assert.Equal(t, "bulag_root", root.Nickname)
		assert.Equal(t, "root@bulag.local", root.Email)
		assert.Equal(t, models.RoleAdmin, root.Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("local-root-pass")))

		var count int64
		require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("promotes an existing first user", func(t *testing.T) {
		db := newTestDB(t)
		require.NoError(t, db.Create(&models.User{
			ID:       1,
			Nickname: "first.member",
			Email:    "first@example.com",
			Password: "hash",
			Role:     models.RoleMember,
		}).Error)

		cfg := &config.Config{
			Env:              "development",
			DevBootstrapRoot: true,
			DevRootPassword:  "local-root-pass",
		}
		require.NoError(t, ensureDevRootAdmin(cfg, db))

		var root models.User
		require.NoError(t, db.First(&root, 1).Error)
		assert.Equal(t, models.RoleAdmin, root.Role)
		// Credentials stay untouched unless forced.
		assert.Equal(t, "first.member", root.Nickname)

		cfg.DevRootForceCredentials = true
		cfg.DevRootNickname = "forced.root"
		require.NoError(t, ensureDevRootAdmin(cfg, db))
		require.NoError(t, db.First(&root, 1).Error)
		assert.Equal(t, "forced.root", root.Nickname)
	})
}
