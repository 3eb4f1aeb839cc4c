package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/metrics", cfg.Server.MetricsPath)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "netsync", cfg.Storage.Bucket)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.Equal(t, "Global", cfg.Sync.Namespace)
	assert.Equal(t, "Active", cfg.Sync.DeviceStatus)
	assert.Equal(t, "Connected", cfg.Sync.CableStatus)
	assert.Equal(t, 22, cfg.Sync.Port)
	assert.Equal(t, 30, cfg.Sync.TimeoutSeconds)
	assert.True(t, cfg.Sync.SyncVLANs)
	assert.False(t, cfg.Sync.SyncVRFs)
	assert.True(t, cfg.Sync.SkipUnmatchedDestination)
	assert.True(t, cfg.Sync.ContinueOnFailure)
	assert.Equal(t, 16, cfg.Sync.Workers)
	assert.Equal(t, "reports", cfg.Sync.ReportPrefix)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SYNC_LOCATION", "dc7")
	t.Setenv("SYNC_SYNC_CABLES", "true")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "dc7", cfg.Sync.Location)
	assert.True(t, cfg.Sync.SyncCables)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SYNC_ROLE=leaf\nSERVER_PORT=9090\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SYNC_ROLE")
		os.Unsetenv("SERVER_PORT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "leaf", cfg.Sync.Role)
	assert.Equal(t, "9090", cfg.Server.Port)
}
