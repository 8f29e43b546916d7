// Package config loads the YAML-driven configuration for the capture
// pipeline, HTTP server, and optional detector bridge.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects which rendering path the capture loop runs: the cheap
// grayscale byte-4 extraction, or full Bayer demosaic + white balance.
type Mode string

const (
	ModeGrayscale Mode = "grayscale"
	ModeColor     Mode = "color"
)

// CaptureConfig is the immutable-per-instance snapshot described in
// spec.md §3. Defaults match the sensor's Rock5C deployment and the
// original Rust CaptureConfig::default().
type CaptureConfig struct {
	DevicePath     string  `yaml:"device_path"`
	SensorSubdev   string  `yaml:"sensor_subdev"`
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	Stride         int     `yaml:"stride"`
	GroupsPerRow   int     `yaml:"groups_per_row"`
	Mode           Mode    `yaml:"mode"`
	LinkFrequency  int     `yaml:"link_frequency"`
	JPEGQuality    int     `yaml:"jpeg_quality"`
	Gamma          float64 `yaml:"gamma"`
	WhiteBalance   bool    `yaml:"white_balance"`
	TempDir        string  `yaml:"temp_dir"`
	TempFileRotate int     `yaml:"temp_file_rotate"`
	TickIntervalMs int     `yaml:"tick_interval_ms"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	BindAddr string `yaml:"bind_addr"`
}

// DetectorConfig configures the optional object-detector subprocess bridge.
type DetectorConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Command      string   `yaml:"command"`
	Args         []string `yaml:"args"`
	EveryNTicks  int      `yaml:"every_n_ticks"`
	QueueDepth   int      `yaml:"queue_depth"`
	OverlayColor [3]uint8 `yaml:"overlay_color"`
}

// Config is the top-level structure loaded from config.yaml.
type Config struct {
	Capture  CaptureConfig  `yaml:"capture"`
	Server   ServerConfig   `yaml:"server"`
	Detector DetectorConfig `yaml:"detector"`
}

// Default returns the built-in defaults from spec.md §6, used when no
// config file is supplied and as the base merged with a loaded file.
func Default() *Config {
	return &Config{
		Capture: CaptureConfig{
			DevicePath:     "/dev/video9",
			SensorSubdev:   "/dev/v4l-subdev3",
			Width:          3840,
			Height:         2160,
			Stride:         4864,
			GroupsPerRow:   960,
			Mode:           ModeGrayscale,
			LinkFrequency:  0,
			JPEGQuality:    88,
			Gamma:          2.2,
			WhiteBalance:   true,
			TempDir:        "/tmp/imx415_capture",
			TempFileRotate: 4,
			TickIntervalMs: 33,
		},
		Server: ServerConfig{
			BindAddr: "0.0.0.0:8080",
		},
		Detector: DetectorConfig{
			Enabled:      false,
			EveryNTicks:  3,
			QueueDepth:   2,
			OverlayColor: [3]uint8{255, 50, 50},
		},
	}
}

// Load reads and parses a YAML config file over Default(): fields the
// file leaves out keep their default values, while fields it sets, even
// to zero, replace them; the capture section is then validated. An empty
// path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Capture.Validate(); err != nil {
		return nil, fmt.Errorf("invalid capture config: %w", err)
	}
	return cfg, nil
}

// Validate checks the invariants spec.md §3 requires of CaptureConfig.
func (c *CaptureConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width/height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.GroupsPerRow != c.Width/4 {
		return fmt.Errorf("groups_per_row (%d) must equal width/4 (%d)", c.GroupsPerRow, c.Width/4)
	}
	if c.Stride < c.GroupsPerRow*5 {
		return fmt.Errorf("stride (%d) must be >= groups_per_row*5 (%d)", c.Stride, c.GroupsPerRow*5)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be in [1,100], got %d", c.JPEGQuality)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("gamma must be > 0, got %f", c.Gamma)
	}
	if c.Mode != ModeGrayscale && c.Mode != ModeColor {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeGrayscale, ModeColor, c.Mode)
	}
	return nil
}
