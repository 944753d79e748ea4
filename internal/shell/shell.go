// Package shell runs the event loop that connects a platform backend, the
// window manager and the application.
package shell

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/1broseidon/winshell/internal/compositor"
	"github.com/1broseidon/winshell/internal/conversion"
	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/geom"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/window"
)

var (
	// ErrNotFound is returned by commands naming a window that is not open.
	ErrNotFound = errors.New("window not found")
	// ErrStopped is returned by commands issued after Run has returned.
	ErrStopped = errors.New("shell stopped")
	// ErrClosed is returned by Open when the program closed the window as
	// soon as it opened.
	ErrClosed = errors.New("window closed on open")
)

// Settings describes a window to open.
type Settings struct {
	platform.Settings
	// ExitOnCloseRequest makes a close request from this window stop the
	// whole shell instead of being delivered to the program.
	ExitOnCloseRequest bool
}

// Options configures a Shell.
type Options struct {
	// ResizeBorder is the drag-resize grab width of undecorated windows, in
	// logical pixels.
	ResizeBorder uint32
	Background   color.Color
	// ExitWhenEmpty stops the shell once the last window is closed.
	ExitWhenEmpty bool
	// CheckInterval enables a periodic consistency check of the window
	// indices. Zero disables it.
	CheckInterval time.Duration
	Windows       []Settings
	Logger        *slog.Logger
}

// Shell owns a window.Manager and drives it from a single goroutine.
type Shell struct {
	backend    platform.Backend
	compositor compositor.Compositor
	program    Program
	opts       Options
	logger     *slog.Logger

	manager  *window.Manager
	commands chan func() bool
	stopped  chan struct{}
}

// New creates a shell. Run must be called to start it.
func New(backend platform.Backend, comp compositor.Compositor, program Program, opts Options) *Shell {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Background == nil {
		opts.Background = color.Black
	}
	return &Shell{
		backend:    backend,
		compositor: comp,
		program:    program,
		opts:       opts,
		logger:     opts.Logger,
		manager:    window.NewManager(),
		commands:   make(chan func() bool),
		stopped:    make(chan struct{}),
	}
}

// Run processes events and commands until ctx is done, the program exits,
// or the backend fails. Every open window is closed before Run returns.
func (s *Shell) Run(ctx context.Context) error {
	defer close(s.stopped)
	defer s.closeAll()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	backendErr := make(chan error, 1)
	go func() {
		backendErr <- s.backend.Run(runCtx)
	}()

	for _, settings := range s.opts.Windows {
		_, res, err := s.open(settings)
		if err != nil {
			return err
		}
		if res == stopped {
			return nil
		}
	}

	var check <-chan time.Time
	if s.opts.CheckInterval > 0 {
		ticker := time.NewTicker(s.opts.CheckInterval)
		defer ticker.Stop()
		check = ticker.C
	}

	s.logger.Info("shell started", "windows", s.manager.Len())
	defer s.logger.Info("shell stopped")

	events := s.backend.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-backendErr:
			if err != nil {
				return fmt.Errorf("backend: %w", err)
			}
			return nil
		case ev := <-events:
			if s.handle(ev) == stopped {
				return nil
			}
		case cmd := <-s.commands:
			// Commands observe every event queued before them.
			stop := s.drain()
			if cmd() || stop {
				return nil
			}
		case <-check:
			s.check()
		}
	}
}

// drain handles queued events without blocking and reports whether one of
// them stopped the shell.
func (s *Shell) drain() bool {
	events := s.backend.Events()
	for {
		select {
		case ev := <-events:
			if s.handle(ev) == stopped {
				return true
			}
		default:
			return false
		}
	}
}

func (s *Shell) check() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("window check panic recovered", "error", r)
		}
	}()
	if err := s.manager.Check(); err != nil {
		s.logger.Error("window index inconsistent", "error", err)
	}
}

// result is what delivering an event left behind.
type result uint8

const (
	delivered result = iota
	// closed means the event's window is gone.
	closed
	// stopped means the shell should stop.
	stopped
)

// handle processes one platform event.
func (s *Shell) handle(ev platform.Event) result {
	id, w, ok := s.manager.GetAlias(ev.Window)
	if !ok {
		s.logger.Debug("event for unknown window dropped", "window", ev.Window, "kind", ev.Kind)
		return delivered
	}

	if w.ResizeEnabled && w.DragResize != nil && w.DragResize(w.Native, ev) {
		return delivered
	}

	scale := w.State.ScaleFactor()

	switch ev.Kind {
	case platform.EventExpose:
		s.render(id, w)
		return delivered

	case platform.EventConfigure:
		if !w.State.Resize(ev.Size) {
			return delivered
		}
		return s.update(id, w, event.Resized{Size: w.State.LogicalSize()})

	case platform.EventMotion:
		pos := ev.Position.ToLogical(scale)
		w.State.SetCursor(pos)
		if res := s.syncModifiers(id, w, ev.Modifiers); res != delivered {
			return res
		}
		return s.update(id, w, event.CursorMoved{Position: pos})

	case platform.EventButtonPress, platform.EventButtonRelease:
		button, ok := conversion.PointerButton(ev.Button)
		if !ok {
			return delivered
		}
		if res := s.syncModifiers(id, w, ev.Modifiers); res != delivered {
			return res
		}
		pos := ev.Position.ToLogical(scale)
		w.State.SetCursor(pos)
		if ev.Kind == platform.EventButtonPress {
			return s.update(id, w, event.ButtonPressed{Button: button, Position: pos})
		}
		return s.update(id, w, event.ButtonReleased{Button: button, Position: pos})

	case platform.EventAxis:
		delta, ok := conversion.PointerAxis(ev.AxisSource, ev.Horizontal, ev.Vertical)
		if !ok {
			return delivered
		}
		return s.update(id, w, event.WheelScrolled{Delta: delta})

	case platform.EventKeyPress:
		if res := s.syncModifiers(id, w, ev.Modifiers); res != delivered {
			return res
		}
		return s.update(id, w, event.KeyPressed{Text: ev.Text, Modifiers: w.State.Modifiers()})

	case platform.EventFocusIn:
		return s.update(id, w, event.Focused{})

	case platform.EventFocusOut:
		w.State.ClearCursor()
		return s.update(id, w, event.Unfocused{})

	case platform.EventCloseRequest:
		if w.ExitOnCloseRequest {
			s.logger.Info("close requested, exiting", "window", id)
			return stopped
		}
		return s.update(id, w, event.CloseRequested{})

	case platform.EventDestroy:
		return s.remove(id, false)
	}
	return delivered
}

func (s *Shell) syncModifiers(id window.ID, w *window.Window, native conversion.NativeModifiers) result {
	if !w.State.SetModifiers(conversion.Modifiers(native)) {
		return delivered
	}
	return s.update(id, w, event.ModifiersChanged{Modifiers: w.State.Modifiers()})
}

// update delivers ev to the program, applies the returned action, and
// schedules a repaint if the window is still open.
func (s *Shell) update(id window.ID, w *window.Window, ev event.Event) result {
	switch action := s.program.Update(id, ev); action {
	case ActionExit:
		s.logger.Info("program requested exit", "window", id)
		return stopped
	case ActionClose:
		return s.remove(id, true)
	}

	w.State.Synchronize(s.program, id, w.Native)
	s.syncDropTargets(id, w)
	w.RequestRedraw()
	return delivered
}

func (s *Shell) syncDropTargets(id window.ID, w *window.Window) {
	dt, ok := s.program.(DropTargeter)
	if !ok {
		return
	}
	targets := dt.DropTargets(id)
	if len(targets) == w.PrevDnDDestinationCount {
		return
	}
	w.PrevDnDDestinationCount = len(targets)
	s.logger.Debug("drop targets changed", "window", id, "count", len(targets))
}

func (s *Shell) render(id window.ID, w *window.Window) {
	if w.ViewportVersion != w.State.ViewportVersion() {
		size := w.State.PhysicalSize()
		w.Surface.Resize(size.Width, size.Height)
		w.ViewportVersion = w.State.ViewportVersion()
	}

	w.Renderer.Clear(s.opts.Background)
	s.program.Draw(id, w.Renderer, w.State)
	if err := s.compositor.Present(w.Surface, w.Renderer); err != nil {
		s.logger.Warn("present failed", "window", id, "error", err)
	}
	w.FrameDone()

	if mi, ok := s.program.(MouseInteractor); ok {
		interaction := mi.MouseInteraction(id)
		if interaction != w.MouseInteraction {
			w.Native.SetCursor(interaction)
			w.MouseInteraction = interaction
		}
	}
}

// open creates a native window, registers it, and delivers Opened. Windows
// without a position or monitor are placed on the monitor of the most recent
// window. The result tells whether the program closed the window or stopped
// the shell in response.
func (s *Shell) open(settings Settings) (window.ID, result, error) {
	if settings.Position == nil && settings.Monitor == nil {
		if mon, ok := s.manager.LastMonitor(); ok {
			settings.Monitor = &mon
		}
	}

	native, err := s.backend.CreateWindow(settings.Settings)
	if err != nil {
		return 0, delivered, fmt.Errorf("failed to create window %q: %w", settings.Title, err)
	}

	id := window.NewID()
	w := s.manager.Insert(id, native, s.program, s.compositor, settings.ExitOnCloseRequest, s.opts.ResizeBorder)
	w.ResizeEnabled = settings.Resizable

	s.logger.Info("window opened", "window", id, "handle", native.ID(), "title", w.State.Title())

	var pos *geom.Point
	if p, ok := w.Position(); ok {
		pos = &p
	}
	return id, s.update(id, w, event.Opened{Position: pos, Size: w.Size()}), nil
}

// remove unregisters a window and releases its resources. closeNative also
// destroys the native window.
func (s *Shell) remove(id window.ID, closeNative bool) result {
	w, ok := s.manager.Remove(id)
	if !ok {
		return closed
	}
	w.Release()
	if closeNative {
		if err := w.Native.Close(); err != nil {
			s.logger.Warn("failed to close native window", "window", id, "error", err)
		}
	}
	s.logger.Info("window closed", "window", id)

	exit := s.program.Update(id, event.Closed{}) == ActionExit
	if exit || (s.opts.ExitWhenEmpty && s.manager.IsEmpty()) {
		return stopped
	}
	return closed
}

func (s *Shell) closeAll() {
	for _, id := range s.manager.IDs() {
		w, ok := s.manager.Remove(id)
		if !ok {
			continue
		}
		w.Release()
		if err := w.Native.Close(); err != nil {
			s.logger.Warn("failed to close native window", "window", id, "error", err)
		}
	}
}
