// Package config loads gridsort settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h0rv/gridsort/internal/reorder"
	"github.com/spf13/viper"
)

// ErrInvalidConfig indicates a setting is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds application configuration.
type Config struct {
	Grid GridConfig
	Drag DragConfig
	UI   UIConfig
	Log  LogConfig
}

// GridConfig holds layout settings. The container width comes from the terminal.
type GridConfig struct {
	Columns int
	GapPx   float64 `mapstructure:"gap_px"`
}

// DragConfig holds gesture thresholds.
type DragConfig struct {
	MoveThresholdPx float64 `mapstructure:"move_threshold_px"`
	TapMaxMovePx    float64 `mapstructure:"tap_max_move_px"`
	TapMaxMs        int     `mapstructure:"tap_max_ms"`
}

// UIConfig holds terminal rendering settings.
type UIConfig struct {
	CellWidthPx     float64 `mapstructure:"cell_width_px"`  // Pixels per terminal column
	CellHeightPx    float64 `mapstructure:"cell_height_px"` // Pixels per terminal row
	FPS             int
	SpringFrequency float64 `mapstructure:"spring_frequency"`
	SpringDamping   float64 `mapstructure:"spring_damping"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	File  string
	Level string
}

// Thresholds converts the drag settings for the engine.
func (d DragConfig) Thresholds() reorder.Thresholds {
	return reorder.Thresholds{
		MoveThresholdPx: d.MoveThresholdPx,
		TapMaxMovePx:    d.TapMaxMovePx,
		TapMaxDuration:  time.Duration(d.TapMaxMs) * time.Millisecond,
	}
}

// FrameInterval returns the time between animation frames.
func (u UIConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(u.FPS)
}

// Load reads configuration from file and env. Env var overrides use prefix GRIDSORT_.
// path overrides the file location; empty means GRIDSORT_CONFIG or the default.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("grid.columns", 4)
	v.SetDefault("grid.gap_px", 8)
	v.SetDefault("drag.move_threshold_px", reorder.DefaultMoveThresholdPx)
	v.SetDefault("drag.tap_max_move_px", reorder.DefaultTapMaxMovePx)
	v.SetDefault("drag.tap_max_ms", int(reorder.DefaultTapMaxDuration/time.Millisecond))
	v.SetDefault("ui.cell_width_px", 8)
	v.SetDefault("ui.cell_height_px", 16)
	v.SetDefault("ui.fps", 60)
	v.SetDefault("ui.spring_frequency", 7.0)
	v.SetDefault("ui.spring_damping", 0.8)
	v.SetDefault("log.file", defaultLogFile())
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("GRIDSORT_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "gridsort"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("GRIDSORT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path must exist; the default location is optional.
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Grid.Columns < 1:
		return fmt.Errorf("%w: grid.columns must be at least 1", ErrInvalidConfig)
	case c.Grid.GapPx < 0:
		return fmt.Errorf("%w: grid.gap_px must not be negative", ErrInvalidConfig)
	case c.Drag.MoveThresholdPx < 0 || c.Drag.TapMaxMovePx < 0 || c.Drag.TapMaxMs < 0:
		return fmt.Errorf("%w: drag thresholds must not be negative", ErrInvalidConfig)
	case c.UI.CellWidthPx <= 0 || c.UI.CellHeightPx <= 0:
		return fmt.Errorf("%w: ui cell size must be positive", ErrInvalidConfig)
	case c.UI.FPS < 1 || c.UI.FPS > 240:
		return fmt.Errorf("%w: ui.fps must be between 1 and 240", ErrInvalidConfig)
	}
	return nil
}

// defaultLogFile returns ~/.gridsort/logs/gridsort.log, or GRIDSORT_LOG_FILE.
func defaultLogFile() string {
	if custom := os.Getenv("GRIDSORT_LOG_FILE"); custom != "" {
		return custom
	}
	return filepath.Join(homeDir(), ".gridsort", "logs", "gridsort.log")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to the working directory
		return "."
	}
	return home
}
