// Package config loads the stage configuration from YAML. Every field has a
// default, so an empty or missing file yields a runnable stage.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var errInvalidConfig = errors.New("invalid config")

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type BeatConfig struct {
	TickMs    int     `yaml:"tick_ms"`
	DecayStep float64 `yaml:"decay_step"`
	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

type ProjectorConfig struct {
	MinSize       float32 `yaml:"min_size"`
	MaxCoverage   float32 `yaml:"max_coverage"`
	Every         int     `yaml:"every"`
	FixedFacing   float32 `yaml:"fixed_facing"`
	ExploreFacing float32 `yaml:"explore_facing"`
}

type Config struct {
	Window      WindowConfig    `yaml:"window"`
	TickRate    int             `yaml:"tick_rate"`
	FrameLimit  int             `yaml:"frame_limit"`
	Beat        BeatConfig      `yaml:"beat"`
	Projector   ProjectorConfig `yaml:"projector"`
	ThemesFile  string          `yaml:"themes_file"`
	WatchThemes bool            `yaml:"watch_themes"`
	StageModel  string          `yaml:"stage_model"`
	ScreenNode  string          `yaml:"screen_node"`

	ThumbnailURL   string   `yaml:"thumbnail_url"`
	TextureWorkers int      `yaml:"texture_workers"`
	Playlist       []string `yaml:"playlist"`
	Autoplay       bool     `yaml:"autoplay"`
	// TrackSeconds is the assumed track length for auto-advance; 0 waits for
	// the player to report the end.
	TrackSeconds int `yaml:"track_seconds"`

	CollectionFile string `yaml:"collection_file"`
	Metronome      bool   `yaml:"metronome"`
	Profiling      bool   `yaml:"profiling"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window:     WindowConfig{Title: "oxy-stage", Width: 1600, Height: 900},
		TickRate:   60,
		FrameLimit: 0,
		Beat:       BeatConfig{TickMs: 30, DecayStep: 0.08},
		Projector: ProjectorConfig{
			MinSize:       10,
			MaxCoverage:   0.7,
			Every:         3,
			FixedFacing:   0.55,
			ExploreFacing: 0.85,
		},
		ScreenNode:     "BackScreen",
		ThumbnailURL:   "https://img.youtube.com/vi/{id}/hqdefault.jpg",
		TextureWorkers: 4,
		Autoplay:       true,
		CollectionFile: "collection.yaml",
	}
}

// TickInterval returns the beat simulator tick as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Beat.TickMs) * time.Millisecond
}

// Validate checks ranges the rest of the stage relies on.
//
// Returns:
//   - error: the first violation, wrapping errInvalidConfig
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", errInvalidConfig, c.Window.Width, c.Window.Height)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate %d", errInvalidConfig, c.TickRate)
	case c.FrameLimit < 0:
		return fmt.Errorf("%w: frame_limit %d", errInvalidConfig, c.FrameLimit)
	case c.Beat.TickMs <= 0:
		return fmt.Errorf("%w: beat.tick_ms %d", errInvalidConfig, c.Beat.TickMs)
	case c.Beat.DecayStep <= 0 || c.Beat.DecayStep > 1:
		return fmt.Errorf("%w: beat.decay_step %v", errInvalidConfig, c.Beat.DecayStep)
	case c.Projector.Every <= 0:
		return fmt.Errorf("%w: projector.every %d", errInvalidConfig, c.Projector.Every)
	case c.Projector.MaxCoverage <= 0 || c.Projector.MaxCoverage > 1:
		return fmt.Errorf("%w: projector.max_coverage %v", errInvalidConfig, c.Projector.MaxCoverage)
	case c.Projector.FixedFacing < 0 || c.Projector.FixedFacing > 1 || c.Projector.ExploreFacing < 0 || c.Projector.ExploreFacing > 1:
		return fmt.Errorf("%w: projector facing thresholds must be in [0, 1]", errInvalidConfig)
	case c.TextureWorkers <= 0:
		return fmt.Errorf("%w: texture_workers %d", errInvalidConfig, c.TextureWorkers)
	case c.TrackSeconds < 0:
		return fmt.Errorf("%w: track_seconds %d", errInvalidConfig, c.TrackSeconds)
	}
	return nil
}

// Parse decodes YAML over the defaults. Keys absent from data keep their
// default values.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the merged configuration
//   - error: error if decoding or validation fails
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path. A missing file yields Default.
//
// Parameters:
//   - path: the YAML file, or "" for defaults
//
// Returns:
//   - Config: the configuration
//   - error: error if the file exists but is unreadable or invalid
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}
