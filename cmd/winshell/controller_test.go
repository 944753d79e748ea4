package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/winshell/internal/compositor"
	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/shell"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startController(t *testing.T) (*controller, *platform.Headless) {
	t.Helper()
	backend := platform.NewHeadless()
	program := newDemo()
	sh := shell.New(backend, compositor.NewMemory(), program, shell.Options{
		ResizeBorder: 8,
		Logger:       discardLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("shell did not stop")
		}
	})

	return &controller{shell: sh, backend: backend, demo: program, name: "headless"}, backend
}

func TestControllerOpenListClose(t *testing.T) {
	ctrl, _ := startController(t)
	ctx := context.Background()

	x, y := float32(100), float32(50)
	first, err := ctrl.OpenWindow(ctx, ipc.OpenWindowPayload{Title: "editor", Width: 640, Height: 480, X: &x, Y: &y})
	if err != nil {
		t.Fatalf("OpenWindow() error = %v", err)
	}
	second, err := ctrl.OpenWindow(ctx, ipc.OpenWindowPayload{Title: "preview", Width: 320, Height: 240, Resizable: true})
	if err != nil {
		t.Fatalf("OpenWindow() error = %v", err)
	}

	windows, err := ctrl.Windows(ctx)
	if err != nil {
		t.Fatalf("Windows() error = %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("Windows() returned %d windows, want 2", len(windows))
	}
	if windows[0].ID != first || windows[1].ID != second {
		t.Fatalf("Windows() ids = %d,%d, want %d,%d", windows[0].ID, windows[1].ID, first, second)
	}
	if windows[0].Title != "editor" || windows[1].Title != "preview" {
		t.Fatalf("titles = %q,%q, want editor,preview", windows[0].Title, windows[1].Title)
	}
	if windows[0].X == nil || *windows[0].X != 100 || windows[0].Width != 640 {
		t.Fatalf("first window = %+v, want 640 wide at x=100", windows[0])
	}
	if !windows[1].ResizeEnabled {
		t.Fatal("resizable window reported resize disabled")
	}

	if err := ctrl.RequestRedraw(ctx, second); err != nil {
		t.Fatalf("RequestRedraw() error = %v", err)
	}
	if err := ctrl.CloseWindow(ctx, first); err != nil {
		t.Fatalf("CloseWindow() error = %v", err)
	}
	if err := ctrl.CloseWindow(ctx, first); !errors.Is(err, shell.ErrNotFound) {
		t.Fatalf("second CloseWindow() error = %v, want ErrNotFound", err)
	}
	if err := ctrl.Check(ctx); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
}

func TestControllerMonitors(t *testing.T) {
	ctrl, _ := startController(t)
	monitors, err := ctrl.Monitors(context.Background())
	if err != nil {
		t.Fatalf("Monitors() error = %v", err)
	}
	if len(monitors) != 1 || monitors[0].Width != 1920 || monitors[0].ScaleFactor != 1 {
		t.Fatalf("Monitors() = %+v, want one 1920 wide monitor", monitors)
	}
}

func TestShellOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	x, y := 10, 20
	no := false
	cfg.Windows = append(cfg.Windows, config.WindowConfig{
		Title: "second", Width: 300, Height: 200, X: &x, Y: &y, ExitOnCloseRequest: &no,
	})

	opts := shellOptions(cfg, discardLogger())
	if opts.ResizeBorder != 8 || !opts.ExitWhenEmpty || opts.CheckInterval != 30*time.Second {
		t.Fatalf("shellOptions() = %+v", opts)
	}
	if len(opts.Windows) != 2 {
		t.Fatalf("shellOptions() opened %d windows, want 2", len(opts.Windows))
	}
	if !opts.Windows[0].ExitOnCloseRequest || opts.Windows[1].ExitOnCloseRequest {
		t.Fatal("per-window close policy not applied")
	}
	if p := opts.Windows[1].Position; p == nil || p.X != 10 || p.Y != 20 {
		t.Fatalf("second window position = %+v, want 10,20", p)
	}
	if opts.Windows[0].Position != nil {
		t.Fatal("window without x/y got a position")
	}
}
