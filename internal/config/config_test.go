package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr)
	assert.Equal(t, "data/users_data.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10000, cfg.Seed.MaxCount)
	assert.Equal(t, "", cfg.Storage.Bucket)
	assert.Equal(t, "user-directory", cfg.Storage.KeyPrefix)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("USERDIR_SERVER_ADDR", "0.0.0.0:9000")
	t.Setenv("USERDIR_SEED_MAXCOUNT", "25")
	t.Setenv("USERDIR_STORAGE_BUCKET", "backups")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, 25, cfg.Seed.MaxCount)
	assert.Equal(t, "backups", cfg.Storage.Bucket)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
database:
  path: /var/lib/users.db
log:
  level: debug
`), 0o644))

	cfg, err := load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/users.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(`
# comment
USERDIR_STORAGE_KEYPREFIX="snapshots"
not a pair
`), 0o644))
	t.Cleanup(func() { os.Unsetenv("USERDIR_STORAGE_KEYPREFIX") })

	cfg, err := load(dir)
	require.NoError(t, err)
	assert.Equal(t, "snapshots", cfg.Storage.KeyPrefix)
}
