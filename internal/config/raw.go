package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig is a single config file. Unset fields are nil so that files
// can be layered.
type RawConfig struct {
	Include              IncludeList    `yaml:"include"`
	Display              *string        `yaml:"display"`
	LogLevel             *string        `yaml:"log_level"`
	ResizeBorder         *int           `yaml:"resize_border"`
	ExitOnCloseRequest   *bool          `yaml:"exit_on_close_request"`
	ExitWhenEmpty        *bool          `yaml:"exit_when_empty"`
	Background           *string        `yaml:"background"`
	CheckIntervalSeconds *int           `yaml:"check_interval_seconds"`
	Windows              []WindowConfig `yaml:"windows"`
}

// merge layers overlay on top of c. The windows list is replaced as a
// whole.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.ResizeBorder != nil {
		out.ResizeBorder = overlay.ResizeBorder
	}
	if overlay.ExitOnCloseRequest != nil {
		out.ExitOnCloseRequest = overlay.ExitOnCloseRequest
	}
	if overlay.ExitWhenEmpty != nil {
		out.ExitWhenEmpty = overlay.ExitWhenEmpty
	}
	if overlay.Background != nil {
		out.Background = overlay.Background
	}
	if overlay.CheckIntervalSeconds != nil {
		out.CheckIntervalSeconds = overlay.CheckIntervalSeconds
	}
	if overlay.Windows != nil {
		out.Windows = overlay.Windows
	}
	return out
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.ResizeBorder != nil {
		cfg.ResizeBorder = *raw.ResizeBorder
	}
	if raw.ExitOnCloseRequest != nil {
		cfg.ExitOnCloseRequest = *raw.ExitOnCloseRequest
	}
	if raw.ExitWhenEmpty != nil {
		cfg.ExitWhenEmpty = *raw.ExitWhenEmpty
	}
	if raw.Background != nil {
		cfg.Background = *raw.Background
	}
	if raw.CheckIntervalSeconds != nil {
		cfg.CheckIntervalSeconds = *raw.CheckIntervalSeconds
	}
	if raw.Windows != nil {
		cfg.Windows = raw.Windows
	}
	return cfg
}
