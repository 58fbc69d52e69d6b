package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, 25, cfg.MaxUploadMB)
	require.Equal(t, int64(25<<20), cfg.MaxUploadBytes())
}

func TestLoadReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_driver: sqlite\ndb_path: /tmp/studio.db\nmax_upload_mb: 5\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "/tmp/studio.db", cfg.DBPath)
	require.Equal(t, 5, cfg.MaxUploadMB)
}

func TestEnvOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_driver: sqlite\nport: \"9000\"\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DB_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "9000", cfg.Port)
}

func TestLoadRejectsBadUploadLimit(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "-3")

	_, err := Load()
	require.Error(t, err)
}
