package daemon

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/config"
	"github.com/AssocCMS/AssocCMS/internal/db/controller/site"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Title: "Friends of the Park",
		Admin: config.Admin{Username: "root", Email: "Root@Example.org", Password: "s3cret-pass"},
	}
}

func TestSeed_CreatesSuperAdmin(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, seed(ctx, testConfig(), db))

	var u models.User
	require.NoError(t, db.Where("username = ?", "root").First(&u).Error)

	assert.Equal(t, rbac.RoleSuperAdmin.String(), u.Role)
	assert.Equal(t, "root@example.org", u.Email)
	assert.True(t, u.Active)
	assert.True(t, u.VerifyPassword("s3cret-pass"))

	s, err := site.Load(ctx, db, "")
	require.NoError(t, err)
	assert.Equal(t, "Friends of the Park", s.Title)
}

func TestSeed_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, seed(ctx, testConfig(), db))
	require.NoError(t, seed(ctx, testConfig(), db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeed_KeepsSavedSettings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	saved := site.Settings{Title: "Renamed"}
	require.NoError(t, saved.Save(ctx, db))

	require.NoError(t, seed(ctx, testConfig(), db))

	s, err := site.Load(ctx, db, "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", s.Title)
}

func TestSeed_WeakPassword(t *testing.T) {
	cfg := testConfig()
	cfg.Admin.Password = "short"

	err := seed(context.Background(), cfg, setupTestDB(t))
	assert.ErrorIs(t, err, ErrWeakAdminPassword)
}

func TestNewSessionStorage(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.GormEngine = config.EngineSQLite

	cfg.Webserver.Session.Storage = config.SessionDB
	s, err := newSessionStorage(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s)

	cfg.Webserver.Session.Storage = config.SessionMemory
	s, err = newSessionStorage(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s)

	cfg.Webserver.Session.Storage = "file"
	_, err = newSessionStorage(cfg)
	assert.ErrorIs(t, err, config.ErrUnknownSessionStorage)
}

func TestOpenDB_UnknownEngine(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.GormEngine = "oracle"

	_, err := OpenDB(cfg)
	assert.ErrorIs(t, err, config.ErrUnknownGormEngine)
}
