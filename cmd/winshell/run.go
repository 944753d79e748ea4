package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/winshell/internal/compositor"
	"github.com/1broseidon/winshell/internal/config"
	"github.com/1broseidon/winshell/internal/geom"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/shell"
)

func runShell(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winshell/config.yaml)")
	headless := fs.Bool("headless", false, "Run without a display server")
	display := fs.String("display", "", "X11 display to connect to (default: $DISPLAY or config)")
	watch := fs.Bool("watch", true, "Apply log_level and background changes from the config file while running")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winshell run [--path PATH] [--headless] [--display DISPLAY] [--watch=false]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the configured windows and serve IPC requests until every window")
		fmt.Fprintln(os.Stderr, "is closed or the process is interrupted.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var (
		backend platform.Backend
		comp    compositor.Compositor
		name    string
	)
	if *headless {
		backend, comp, name = platform.NewHeadless(), compositor.NewMemory(), "headless"
	} else {
		dpy := *display
		if dpy == "" {
			dpy = cfg.Display
		}
		backend, comp, err = openX11(dpy, logger)
		if err != nil {
			logger.Error("failed to connect to display", "error", err)
			return 1
		}
		name = "x11"
	}
	defer backend.Close()

	program := newDemo()
	opts := shellOptions(cfg, logger)
	for _, w := range opts.Windows {
		program.expect(w.Title)
	}
	sh := shell.New(backend, comp, program, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := ipc.NewServer(&controller{shell: sh, backend: backend, demo: program, name: name}, logger)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		return 1
	}
	if err := server.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		return 1
	}
	defer server.Stop()

	if *watch {
		watchConfig(ctx, *path, logger, func(res *config.LoadResult) {
			level.Set(res.Config.SlogLevel())
			if err := sh.SetBackground(ctx, res.Config.BackgroundColor()); err != nil {
				logger.Debug("background not applied", "error", err)
			}
		})
	}

	if err := sh.Run(ctx); err != nil {
		logger.Error("shell failed", "error", err)
		return 1
	}
	return 0
}

// shellOptions translates the effective configuration into shell options.
func shellOptions(cfg *config.Config, logger *slog.Logger) shell.Options {
	opts := shell.Options{
		ResizeBorder:  uint32(max(cfg.ResizeBorder, 0)),
		Background:    cfg.BackgroundColor(),
		ExitWhenEmpty: cfg.ExitWhenEmpty,
		CheckInterval: cfg.CheckInterval(),
		Logger:        logger,
	}
	for i, w := range cfg.Windows {
		settings := shell.Settings{
			Settings: platform.Settings{
				Title:       w.Title,
				Size:        geom.Size{Width: float32(w.Width), Height: float32(w.Height)},
				Decorations: w.Decorations,
				Resizable:   w.Resizable,
			},
			ExitOnCloseRequest: cfg.WindowExitsOnCloseRequest(i),
		}
		if w.X != nil && w.Y != nil {
			settings.Position = &geom.Point{X: float32(*w.X), Y: float32(*w.Y)}
		}
		opts.Windows = append(opts.Windows, settings)
	}
	return opts
}

// watchConfig starts reloading the config file in the background. Failure to
// watch is logged and otherwise ignored.
func watchConfig(ctx context.Context, path string, logger *slog.Logger, apply func(*config.LoadResult)) {
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			logger.Warn("config watch disabled", "error", err)
			return
		}
		path = p
	}
	w, err := config.NewWatcher(path, logger)
	if err != nil {
		logger.Warn("config watch disabled", "path", path, "error", err)
		return
	}
	go w.Run(ctx, apply)
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}
