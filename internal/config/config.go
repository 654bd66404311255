// Package config loads the user's flowdraw.toml settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"flowdraw/internal/diagram"
)

// Config holds flowdraw configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Diagram DiagramConfig `toml:"diagram"`
	Log     LogConfig     `toml:"log"`
}

// EditorConfig controls the editor itself.
type EditorConfig struct {
	SaveDirectory    string `toml:"save_directory"`
	Confirmations    bool   `toml:"confirmations"`
	MaxHistory       int    `toml:"max_history" validate:"min=1,max=1000"`
	GestureReleaseMS int    `toml:"gesture_release_ms" validate:"min=0,max=5000"`
}

// DiagramConfig seeds the settings of new diagrams.
type DiagramConfig struct {
	ShowGrid           bool   `toml:"show_grid"`
	ShowMinimap        bool   `toml:"show_minimap"`
	ShowProperties     bool   `toml:"show_properties"`
	SnapToGrid         bool   `toml:"snap_to_grid"`
	GridSize           int    `toml:"grid_size" validate:"min=1"`
	Theme              string `toml:"theme" validate:"required"`
	AutoSave           bool   `toml:"auto_save"`
	AutoSaveIntervalMS int    `toml:"auto_save_interval_ms" validate:"min=1000"`
}

// LogConfig controls the debug log. An empty file disables logging.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	File  string `toml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	s := diagram.Default(time.Time{}).Settings
	return &Config{
		Editor: EditorConfig{
			Confirmations:    true,
			MaxHistory:       diagram.DefaultMaxHistory,
			GestureReleaseMS: 100,
		},
		Diagram: DiagramConfig{
			ShowGrid:           s.ShowGrid,
			ShowMinimap:        s.ShowMinimap,
			ShowProperties:     s.ShowProperties,
			SnapToGrid:         s.SnapToGrid,
			GridSize:           s.GridSize,
			Theme:              s.Theme,
			AutoSave:           s.AutoSave,
			AutoSaveIntervalMS: s.AutoSaveInterval,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Dir returns the flowdraw config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flowdraw")
}

func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Editor.SaveDirectory = expandDir(cfg.Editor.SaveDirectory)
	return cfg, nil
}

// Save writes the config to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

var validate = validator.New()

func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldError(e validator.FieldError) string {
	field := strings.ToLower(e.StructNamespace())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

// Settings converts the [diagram] section into diagram settings.
func (c *Config) Settings() diagram.Settings {
	d := c.Diagram
	return diagram.Settings{
		ShowGrid:         d.ShowGrid,
		ShowMinimap:      d.ShowMinimap,
		ShowProperties:   d.ShowProperties,
		SnapToGrid:       d.SnapToGrid,
		GridSize:         d.GridSize,
		Theme:            d.Theme,
		AutoSave:         d.AutoSave,
		AutoSaveInterval: d.AutoSaveIntervalMS,
	}
}

func (c *Config) GestureRelease() time.Duration {
	return time.Duration(c.Editor.GestureReleaseMS) * time.Millisecond
}

// SavePath places a bare file name in the save directory. Paths with a
// directory component are returned unchanged.
func (c *Config) SavePath(filename string) string {
	if c.Editor.SaveDirectory == "" || filepath.Base(filename) != filename {
		return filename
	}
	_ = os.MkdirAll(c.Editor.SaveDirectory, 0o755)
	return filepath.Join(c.Editor.SaveDirectory, filename)
}

func expandDir(dir string) string {
	if dir == "" {
		return ""
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}
