package config

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// WindowConfig describes a window opened at startup.
type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	X           *int   `yaml:"x,omitempty"`
	Y           *int   `yaml:"y,omitempty"`
	Decorations bool   `yaml:"decorations"`
	Resizable   bool   `yaml:"resizable"`
	// ExitOnCloseRequest overrides the global setting for this window.
	ExitOnCloseRequest *bool `yaml:"exit_on_close_request,omitempty"`
}

type Config struct {
	Display              string         `yaml:"display,omitempty"`
	LogLevel             string         `yaml:"log_level"`
	ResizeBorder         int            `yaml:"resize_border"`
	ExitOnCloseRequest   bool           `yaml:"exit_on_close_request"`
	ExitWhenEmpty        bool           `yaml:"exit_when_empty"`
	Background           string         `yaml:"background"`
	CheckIntervalSeconds int            `yaml:"check_interval_seconds"`
	Windows              []WindowConfig `yaml:"windows"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:             "info",
		ResizeBorder:         8,
		ExitOnCloseRequest:   true,
		ExitWhenEmpty:        true,
		Background:           "#1e1e2e",
		CheckIntervalSeconds: 30,
		Windows: []WindowConfig{
			{Title: "winshell", Width: 800, Height: 600, Decorations: true, Resizable: true},
		},
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.ResizeBorder < 0 {
		return &ValidationError{Path: "resize_border", Err: fmt.Errorf("resize_border must be >= 0")}
	}
	if c.CheckIntervalSeconds < 0 {
		return &ValidationError{Path: "check_interval_seconds", Err: fmt.Errorf("check_interval_seconds must be >= 0")}
	}
	if _, err := ParseColor(c.Background); err != nil {
		return &ValidationError{Path: "background", Err: err}
	}
	for i, w := range c.Windows {
		path := fmt.Sprintf("windows.%d", i)
		if strings.TrimSpace(w.Title) == "" {
			return &ValidationError{Path: path + ".title", Err: fmt.Errorf("title is required")}
		}
		if w.Width <= 0 || w.Height <= 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("width and height must be > 0")}
		}
	}
	return nil
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// BackgroundColor returns the parsed background color, falling back to
// black when it is invalid.
func (c *Config) BackgroundColor() color.RGBA {
	col, err := ParseColor(c.Background)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return col
}

// CheckInterval returns the window index check period.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalSeconds) * time.Second
}

// WindowExitsOnCloseRequest resolves the close policy of window i.
func (c *Config) WindowExitsOnCloseRequest(i int) bool {
	if i >= 0 && i < len(c.Windows) && c.Windows[i].ExitOnCloseRequest != nil {
		return *c.Windows[i].ExitOnCloseRequest
	}
	return c.ExitOnCloseRequest
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q must be #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }
