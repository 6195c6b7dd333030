// Package config loads viewer settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/hares/pkg/typeface"
)

// Variants lists the scene variants in presentation order.
var Variants = []string{"basic", "glow", "glow-wireframe"}

// DefaultFontURL is the typeface fetched when no font is configured.
const DefaultFontURL = typeface.DefaultURL

// Config is the full set of viewer settings.
type Config struct {
	Variant string       `yaml:"variant"`
	Font    FontConfig   `yaml:"font"`
	Render  RenderConfig `yaml:"render"`
	Bloom   BloomConfig  `yaml:"bloom"`
	Log     LogConfig    `yaml:"log"`
}

// FontConfig selects where glyph outlines come from. Path wins over URL.
type FontConfig struct {
	URL      string        `yaml:"url"`
	Path     string        `yaml:"path,omitempty"`
	Fallback bool          `yaml:"fallback"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// RenderConfig controls the frame loop.
type RenderConfig struct {
	FPS          int    `yaml:"fps"`
	Background   uint32 `yaml:"background"`
	SmoothCamera bool   `yaml:"smooth_camera"`
}

// BloomConfig holds the bloom pass parameters.
type BloomConfig struct {
	Strength  float64 `yaml:"strength"`
	Radius    float64 `yaml:"radius"`
	Threshold float64 `yaml:"threshold"`
}

// LogConfig selects the log destination. An empty File disables logging
// for the interactive session.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Variant: "glow-wireframe",
		Font:    FontConfig{URL: DefaultFontURL},
		Render:  RenderConfig{FPS: 30},
		Bloom:   BloomConfig{Strength: 1.5, Radius: 0.4, Threshold: 0.85},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := Decode(f, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode merges YAML from r into cfg and validates the result.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case !slices.Contains(Variants, c.Variant):
		return fmt.Errorf("variant %q: want one of %v", c.Variant, Variants)
	case c.Font.URL == "" && c.Font.Path == "":
		return errors.New("font: url or path is required")
	case c.Font.Timeout < 0:
		return fmt.Errorf("font timeout %v is negative", c.Font.Timeout)
	case c.Render.FPS < 1 || c.Render.FPS > 240:
		return fmt.Errorf("render fps %d out of range [1, 240]", c.Render.FPS)
	case c.Bloom.Strength < 0:
		return fmt.Errorf("bloom strength %v is negative", c.Bloom.Strength)
	case c.Bloom.Radius < 0 || c.Bloom.Radius > 1:
		return fmt.Errorf("bloom radius %v out of range [0, 1]", c.Bloom.Radius)
	case c.Bloom.Threshold < 0:
		return fmt.Errorf("bloom threshold %v is negative", c.Bloom.Threshold)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level %q: want debug, info, warn or error", c.Log.Level)
	}
	return nil
}
