package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults applied by the getters when a value is missing or out of range.
const (
	DefaultPixelsPerSecond = 4.0
	DefaultImageDuration   = 5.0
	// One cell, not the 5 pixels of a graphical timeline: a cell is
	// already wider than the pointer's precision.
	DefaultPlayheadTolerance = 1.0
	DefaultLogLevel          = "info"
	DefaultFFprobe           = "ffprobe"

	maxPixelsPerSecond = 400.0
)

type Config struct {
	MediaFolder       string  `koanf:"media_folder"`       // media bin root (default: cwd)
	PixelsPerSecond   float64 `koanf:"pixels_per_second"`  // timeline zoom, terminal cells per second
	ImageDuration     float64 `koanf:"image_duration"`     // seconds a still occupies on the timeline
	PlayheadTolerance float64 `koanf:"playhead_tolerance"` // grab distance around the playhead, in cells
	LogLevel          string  `koanf:"log_level"`          // "debug", "info", "warn", "error"
	FFprobe           string  `koanf:"ffprobe"`            // ffprobe binary for non-MP4 containers

	Preview PreviewConfig `koanf:"preview"`
}

// PreviewConfig holds preview pane settings.
type PreviewConfig struct {
	Kitty string `koanf:"kitty"` // "auto", "on", "off" (default: "auto")
}

// Load reads the layered config files. A path given explicitly is loaded
// last and must exist.
func Load(explicit ...string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}
	for _, path := range explicit {
		if path == "" {
			continue
		}
		if err := k.Load(file.Provider(expandPath(path)), toml.Parser()); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.MediaFolder = expandPath(cfg.MediaFolder)
	cfg.FFprobe = expandPath(cfg.FFprobe)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/clipline/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "clipline", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetPixelsPerSecond returns the timeline zoom with defaults applied.
func (c *Config) GetPixelsPerSecond() float64 {
	if c.PixelsPerSecond <= 0 || c.PixelsPerSecond > maxPixelsPerSecond {
		return DefaultPixelsPerSecond
	}
	return c.PixelsPerSecond
}

// GetImageDuration returns the still duration with defaults applied.
func (c *Config) GetImageDuration() float64 {
	if c.ImageDuration <= 0 {
		return DefaultImageDuration
	}
	return c.ImageDuration
}

// GetPlayheadTolerance returns the playhead grab distance with defaults applied.
func (c *Config) GetPlayheadTolerance() float64 {
	if c.PlayheadTolerance <= 0 {
		return DefaultPlayheadTolerance
	}
	return c.PlayheadTolerance
}

// GetLogLevel returns the normalized log level.
func (c *Config) GetLogLevel() string {
	switch lvl := strings.ToLower(strings.TrimSpace(c.LogLevel)); lvl {
	case "debug", "info", "warn", "error":
		return lvl
	case "warning":
		return "warn"
	default:
		return DefaultLogLevel
	}
}

// GetFFprobe returns the ffprobe binary with defaults applied.
func (c *Config) GetFFprobe() string {
	if c.FFprobe == "" {
		return DefaultFFprobe
	}
	return c.FFprobe
}

// KittyMode returns "on", "off" or "auto".
func (c *Config) KittyMode() string {
	switch strings.ToLower(c.Preview.Kitty) {
	case "on", "true", "yes":
		return "on"
	case "off", "false", "no":
		return "off"
	default:
		return "auto"
	}
}
