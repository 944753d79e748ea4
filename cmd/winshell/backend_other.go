//go:build !linux

package main

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/winshell/internal/compositor"
	"github.com/1broseidon/winshell/internal/platform"
)

func openX11(string, *slog.Logger) (platform.Backend, compositor.Compositor, error) {
	return nil, nil, errors.New("the X11 backend is only available on linux; use --headless")
}
