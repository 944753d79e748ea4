package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	display
//	log_level
//	resize_border
//	exit_on_close_request
//	exit_when_empty
//	background
//	check_interval_seconds
//	windows
//	windows.<index>.title
//	windows.<index>.width
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins, then the enclosing list.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	if strings.HasPrefix(path, "windows.") {
		if src, ok := res.Sources["windows"]; ok {
			return value, src, nil
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "windows" {
		return lookupWindow(cfg, parts, path)
	}
	if len(parts) != 1 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[0] {
	case "display":
		return cfg.Display, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "resize_border":
		return cfg.ResizeBorder, nil
	case "exit_on_close_request":
		return cfg.ExitOnCloseRequest, nil
	case "exit_when_empty":
		return cfg.ExitWhenEmpty, nil
	case "background":
		return cfg.Background, nil
	case "check_interval_seconds":
		return cfg.CheckIntervalSeconds, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}

func lookupWindow(cfg *Config, parts []string, path string) (any, error) {
	if len(parts) == 1 {
		return cfg.Windows, nil
	}
	i, err := strconv.Atoi(parts[1])
	if err != nil || i < 0 || i >= len(cfg.Windows) {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	w := cfg.Windows[i]
	if len(parts) == 2 {
		return w, nil
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[2] {
	case "title":
		return w.Title, nil
	case "width":
		return w.Width, nil
	case "height":
		return w.Height, nil
	case "decorations":
		return w.Decorations, nil
	case "resizable":
		return w.Resizable, nil
	case "exit_on_close_request":
		return cfg.WindowExitsOnCloseRequest(i), nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
