package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tinyrange/winframe/internal/graphics"
	"github.com/tinyrange/winframe/internal/text"
)

// Window describes a window opened at startup.
type Window struct {
	Title        string `yaml:"title"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	SwapInterval int    `yaml:"swap_interval"`
	StatsInTitle bool   `yaml:"stats_in_title,omitempty"`
}

type Config struct {
	// FontDir holds extra .ttf/.otf files. Empty means the embedded font only.
	FontDir string `yaml:"font_dir,omitempty"`
	Font    string `yaml:"font,omitempty"`

	LogLevel     string         `yaml:"log_level"`
	ClearColor   graphics.Color `yaml:"clear_color"`
	PumpInterval time.Duration  `yaml:"pump_interval"`
	Windows      []Window       `yaml:"windows"`
}

type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func DefaultConfig() *Config {
	return &Config{
		Font:         text.DefaultFont,
		LogLevel:     "info",
		ClearColor:   graphics.ColorLightGray,
		PumpInterval: time.Millisecond,
		Windows: []Window{
			{Title: "winframe", Width: 800, Height: 600, SwapInterval: 1},
		},
	}
}

func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "winframe", "config.yaml"), nil
}

// LoadFromPath reads the YAML file at path over the defaults. A missing file
// yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}
	if err := decodeStrictYAML(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	if c.PumpInterval < 0 {
		return &ValidationError{Path: "pump_interval", Err: fmt.Errorf("pump_interval must be >= 0")}
	}
	if len(c.Windows) == 0 {
		return &ValidationError{Path: "windows", Err: fmt.Errorf("at least one window is required")}
	}
	for i, w := range c.Windows {
		path := fmt.Sprintf("windows[%d]", i)
		if w.Width <= 0 || w.Height <= 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("width and height must be > 0")}
		}
		if w.SwapInterval < 0 {
			return &ValidationError{Path: path + ".swap_interval", Err: fmt.Errorf("swap_interval must be >= 0")}
		}
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log_level must be one of: debug, info, warn, error")
}
