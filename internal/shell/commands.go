package shell

import (
	"context"
	"image/color"

	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/geom"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/window"
)

// Info describes an open window.
type Info struct {
	ID               window.ID
	Handle           platform.WindowID
	Title            string
	Size             geom.Size
	Position         *geom.Point
	ScaleFactor      float64
	RedrawPending    bool
	ResizeEnabled    bool
	ViewportVersion  uint64
	MouseInteraction event.Interaction
}

// do runs f on the shell goroutine and waits for it to finish. f reports
// whether the shell should stop.
func (s *Shell) do(ctx context.Context, f func() bool) error {
	done := make(chan struct{})
	cmd := func() bool {
		defer close(done)
		return f()
	}
	select {
	case s.commands <- cmd:
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// Open opens a new window. It fails with ErrClosed if the program closed
// the window in response to Opened, and with ErrStopped if it stopped the
// shell.
func (s *Shell) Open(ctx context.Context, settings Settings) (window.ID, error) {
	var (
		id  window.ID
		res result
		err error
	)
	if doErr := s.do(ctx, func() bool {
		id, res, err = s.open(settings)
		return res == stopped
	}); doErr != nil {
		return 0, doErr
	}
	switch {
	case err != nil:
		return 0, err
	case res == closed:
		return 0, ErrClosed
	case res == stopped:
		return 0, ErrStopped
	}
	return id, nil
}

// Close closes window id as if the program had returned ActionClose.
func (s *Shell) Close(ctx context.Context, id window.ID) error {
	var err error
	if doErr := s.do(ctx, func() bool {
		if _, ok := s.manager.Get(id); !ok {
			err = ErrNotFound
			return false
		}
		return s.remove(id, true) == stopped
	}); doErr != nil {
		return doErr
	}
	return err
}

// Redraw requests a repaint of window id.
func (s *Shell) Redraw(ctx context.Context, id window.ID) error {
	var err error
	if doErr := s.do(ctx, func() bool {
		w, ok := s.manager.Get(id)
		if !ok {
			err = ErrNotFound
			return false
		}
		w.RequestRedraw()
		return false
	}); doErr != nil {
		return doErr
	}
	return err
}

// Snapshot describes every open window in ascending ID order.
func (s *Shell) Snapshot(ctx context.Context) ([]Info, error) {
	var out []Info
	err := s.do(ctx, func() bool {
		out = make([]Info, 0, s.manager.Len())
		for id, w := range s.manager.All() {
			info := Info{
				ID:               id,
				Handle:           w.Native.ID(),
				Title:            w.State.Title(),
				Size:             w.Size(),
				ScaleFactor:      w.State.ScaleFactor(),
				RedrawPending:    w.RedrawRequested(),
				ResizeEnabled:    w.ResizeEnabled,
				ViewportVersion:  w.State.ViewportVersion(),
				MouseInteraction: w.MouseInteraction,
			}
			if pos, ok := w.Position(); ok {
				info.Position = &pos
			}
			out = append(out, info)
		}
		return false
	})
	return out, err
}

// Check verifies the window indices on the shell goroutine.
func (s *Shell) Check(ctx context.Context) error {
	var err error
	if doErr := s.do(ctx, func() bool {
		err = s.manager.Check()
		return false
	}); doErr != nil {
		return doErr
	}
	return err
}

// SetBackground changes the clear color and repaints every window.
func (s *Shell) SetBackground(ctx context.Context, c color.Color) error {
	return s.do(ctx, func() bool {
		s.opts.Background = c
		for _, w := range s.manager.All() {
			w.RequestRedraw()
		}
		return false
	})
}
