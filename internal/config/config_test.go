package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "127.0.0.1", cfg.Service.Host)
	assert.Equal(t, 8430, cfg.Service.Port)
	assert.Equal(t, "plans", cfg.Plans.Root)
	assert.True(t, cfg.Watcher.Enabled)
	assert.Equal(t, 500, cfg.Watcher.DebounceMs)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8430, cfg.Service.Port)
	assert.Equal(t, "plans", cfg.Plans.Root)
}

func TestLoad_OverridesMergeWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  port: 9000
plans:
  root: /work/plans
  project_name: demo
watcher:
  debounce_ms: 250
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Service.Port)
	assert.Equal(t, "/work/plans", cfg.Plans.Root)
	assert.Equal(t, "demo", cfg.Plans.ProjectName)
	assert.Equal(t, 250, cfg.Watcher.DebounceMs)

	// Untouched sections keep their defaults.
	assert.Equal(t, "127.0.0.1", cfg.Service.Host)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ExpandsEnvAndTilde(t *testing.T) {
	t.Setenv("PLANTRACK_TEST_ROOT", "/srv/plans")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  data_dir: ~/plantrack-data
plans:
  root: ${PLANTRACK_TEST_ROOT}
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/plans", cfg.Plans.Root)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "plantrack-data"), cfg.Service.DataDir)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: [broken"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Service.Port = 9999
	cfg.Plans.ProjectName = "roundtrip"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, loaded.Service.Port)
	assert.Equal(t, "roundtrip", loaded.Plans.ProjectName)
}

func TestDerivedPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.Host = "0.0.0.0"
	cfg.Service.Port = 8430
	cfg.Service.DataDir = "/var/lib/plantrack"

	assert.Equal(t, "0.0.0.0:8430", cfg.Address())
	assert.Equal(t, "/var/lib/plantrack/logs/plantrack.log", cfg.LogPath())
	assert.Equal(t, "/var/lib/plantrack/plantrack.pid", cfg.PIDPath())
}
