package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowdraw/internal/diagram"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, diagram.Default(time.Time{}).Settings, cfg.Settings())
	assert.Equal(t, 50, cfg.Editor.MaxHistory)
	assert.Equal(t, 100*time.Millisecond, cfg.GestureRelease())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	assert.Equal(t, "/tmp/test-xdg/flowdraw", Dir())
	assert.Equal(t, "/tmp/test-xdg/flowdraw/config.toml", Path())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "flowdraw"), Dir())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[editor]
save_directory = "charts"
max_history = 10

[diagram]
snap_to_grid = true
grid_size = 8
theme = "dark"

[log]
level = "debug"
file = "/tmp/flowdraw.log"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Editor.MaxHistory)
	assert.True(t, filepath.IsAbs(cfg.Editor.SaveDirectory))
	assert.Equal(t, "charts", filepath.Base(cfg.Editor.SaveDirectory))
	assert.True(t, cfg.Editor.Confirmations, "untouched keys keep their default")
	s := cfg.Settings()
	assert.True(t, s.SnapToGrid)
	assert.Equal(t, 8, s.GridSize)
	assert.Equal(t, "dark", s.Theme)
	assert.True(t, s.ShowGrid)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[editor]
max_history = 0

[diagram]
grid_size = 0

[log]
level = "loud"
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxhistory must be at least 1")
	assert.Contains(t, err.Error(), "gridsize must be at least 1")
	assert.Contains(t, err.Error(), "level must be one of: debug info warn error")
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Diagram.Theme = "minimal"
	cfg.Editor.GestureReleaseMS = 250

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, got)
}

func TestSavePath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "a.json", cfg.SavePath("a.json"))

	dir := filepath.Join(t.TempDir(), "charts")
	cfg.Editor.SaveDirectory = dir
	assert.Equal(t, filepath.Join(dir, "a.json"), cfg.SavePath("a.json"))
	assert.DirExists(t, dir)
	assert.Equal(t, "/elsewhere/a.json", cfg.SavePath("/elsewhere/a.json"))
}
