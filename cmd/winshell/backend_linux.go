//go:build linux

package main

import (
	"log/slog"

	"github.com/1broseidon/winshell/internal/compositor"
	"github.com/1broseidon/winshell/internal/platform"
)

func openX11(display string, logger *slog.Logger) (platform.Backend, compositor.Compositor, error) {
	backend, err := platform.NewLinuxBackendFromDisplay(display, logger)
	if err != nil {
		return nil, nil, err
	}
	return backend, compositor.NewX11(backend.XUtil()), nil
}
