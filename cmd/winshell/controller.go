package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/winshell/internal/geom"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/shell"
	"github.com/1broseidon/winshell/internal/window"
)

// controller exposes a running shell to the IPC server.
type controller struct {
	shell   *shell.Shell
	backend platform.Backend
	demo    *demo
	name    string

	// openMu pairs each queued demo title with its Open call.
	openMu sync.Mutex
}

func (c *controller) BackendName() string { return c.name }

func (c *controller) Windows(ctx context.Context) ([]ipc.WindowInfo, error) {
	infos, err := c.shell.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ipc.WindowInfo, 0, len(infos))
	for _, info := range infos {
		w := ipc.WindowInfo{
			ID:               uint64(info.ID),
			Handle:           uint32(info.Handle),
			Title:            info.Title,
			Width:            info.Size.Width,
			Height:           info.Size.Height,
			ScaleFactor:      info.ScaleFactor,
			RedrawPending:    info.RedrawPending,
			ResizeEnabled:    info.ResizeEnabled,
			ViewportVersion:  info.ViewportVersion,
			MouseInteraction: info.MouseInteraction.String(),
		}
		if info.Position != nil {
			x, y := info.Position.X, info.Position.Y
			w.X, w.Y = &x, &y
		}
		out = append(out, w)
	}
	return out, nil
}

func (c *controller) Monitors(context.Context) ([]ipc.MonitorInfo, error) {
	monitors, err := c.backend.Monitors()
	if err != nil {
		return nil, err
	}
	out := make([]ipc.MonitorInfo, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, ipc.MonitorInfo{
			ID:          m.ID,
			Name:        m.Name,
			X:           m.Bounds.X,
			Y:           m.Bounds.Y,
			Width:       m.Bounds.Width,
			Height:      m.Bounds.Height,
			ScaleFactor: m.ScaleFactor,
		})
	}
	return out, nil
}

func (c *controller) OpenWindow(ctx context.Context, p ipc.OpenWindowPayload) (uint64, error) {
	settings := shell.Settings{
		Settings: platform.Settings{
			Title:       p.Title,
			Size:        geom.Size{Width: p.Width, Height: p.Height},
			Decorations: p.Decorations,
			Resizable:   p.Resizable,
		},
		ExitOnCloseRequest: p.ExitOnCloseRequest,
	}
	if p.X != nil && p.Y != nil {
		settings.Position = &geom.Point{X: *p.X, Y: *p.Y}
	}

	c.openMu.Lock()
	defer c.openMu.Unlock()
	c.demo.expect(p.Title)
	id, err := c.shell.Open(ctx, settings)
	if err != nil {
		c.demo.unexpect()
		return 0, err
	}
	return uint64(id), nil
}

func (c *controller) CloseWindow(ctx context.Context, id uint64) error {
	return describe(id, c.shell.Close(ctx, window.ID(id)))
}

func (c *controller) RequestRedraw(ctx context.Context, id uint64) error {
	return describe(id, c.shell.Redraw(ctx, window.ID(id)))
}

func (c *controller) Check(ctx context.Context) error {
	return c.shell.Check(ctx)
}

func describe(id uint64, err error) error {
	if errors.Is(err, shell.ErrNotFound) {
		return fmt.Errorf("window %d: %w", id, err)
	}
	return err
}
