package userconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".securescan", "config.json")
	t.Setenv(EnvConfigPath, path)
	return path
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	useTempConfig(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 0.15, cfg.Scan.MaxDetectionRate)
	assert.Equal(t, 100*time.Millisecond, cfg.ScanOptions().MinDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.ScanOptions().MaxDelay)
}

func TestLoadJSONWithComments(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{
	// faster demo runs
	"scan": {"min_delay_ms": 10, "max_delay_ms": 20,},
	"server": {"port": 9000},
}`), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Scan.MinDelayMs)
	assert.Equal(t, 20, cfg.Scan.MaxDelayMs)
	assert.Equal(t, 9000, cfg.Server.Port)
	// untouched fields keep their defaults
	assert.Equal(t, 0.15, cfg.Scan.MaxDetectionRate)
	assert.Equal(t, "30m", cfg.Server.SessionTTL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{"scan": {"max_detection_rate": 2}}`), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempConfig(t)

	cfg := Defaults()
	cfg.TUI.DropDir = "/tmp/drop"
	cfg.Server.SessionTTL = "5m"
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/drop", loaded.TUI.DropDir)
	assert.Equal(t, 5*time.Minute, loaded.SessionTTL())
}

func TestGetSet(t *testing.T) {
	useTempConfig(t)

	require.NoError(t, Set("scan.min_delay_ms", "5"))
	require.NoError(t, Set("scan.max_delay_ms", "50"))
	require.NoError(t, Set("log_level", "debug"))

	v, err := Get("scan.max_delay_ms")
	require.NoError(t, err)
	assert.Equal(t, "50", v)

	v, err = Get("log_level")
	require.NoError(t, err)
	assert.Equal(t, "debug", v)

	assert.Error(t, Set("log_level", "loud"))
	assert.Error(t, Set("server.port", "abc"))
	assert.Error(t, Set("scan.min_delay_ms", "500"), "min above max must be rejected")
	_, err = Get("nonexistent")
	assert.Error(t, err)
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "tui.drop_dir")
	assert.IsIncreasing(t, keys)
}

func TestSaveWritesEverySection(t *testing.T) {
	path := useTempConfig(t)

	require.NoError(t, Save(&UserConfig{LogLevel: "info"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, section := range []string{`"server"`, `"scan"`, `"tui"`} {
		assert.Contains(t, string(data), section)
	}
}
