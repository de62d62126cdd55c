package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaultsAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"jwtsecret": "from-file", "postsperpage": 5},
		"database": {"driver": "SQLite", "dbname": "feed"}
	}`), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("ADMIN_USERNAMES", "root, ops")
	t.Setenv("CACHE_BACKEND", "badger")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 5, cfg.PostsPerPage)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "badger", cfg.CacheBackend)
	assert.Equal(t, []string{"root", "ops"}, cfg.AdminUsernames)
	assert.Equal(t, 20, cfg.FeedCacheSeconds)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadFromMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
	assert.Equal(t, 10, cfg.PostsPerPage)
}

func TestOpenSqlite(t *testing.T) {
	db, err := OpenDatabase(AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: filepath.Join(t.TempDir(), "x.db"),
		LogLevel:    "silent",
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Close())

	_, err = OpenDatabase(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}
