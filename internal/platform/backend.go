package platform

import (
	"context"
	"errors"

	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/geom"
)

// WindowID is the handle the windowing system assigns to a native window.
type WindowID uint32

// ErrPositionUnavailable is returned by NativeWindow.InnerPosition when the
// windowing system cannot report a window position.
var ErrPositionUnavailable = errors.New("window position unavailable")

// Monitor describes a physical display and its usable work area.
type Monitor struct {
	ID          int
	Name        string
	Bounds      geom.Rect
	Usable      geom.Rect
	ScaleFactor float64
}

// ResizeDirection is the edge or corner a drag-resize starts from.
type ResizeDirection uint8

const (
	ResizeNorth ResizeDirection = iota + 1
	ResizeSouth
	ResizeEast
	ResizeWest
	ResizeNorthEast
	ResizeNorthWest
	ResizeSouthEast
	ResizeSouthWest
)

// Settings describes a native window to create.
type Settings struct {
	Title       string
	Size        geom.Size
	Position    *geom.Point
	Monitor     *Monitor
	Decorations bool
	Resizable   bool
}

// NativeWindow is a window owned by the windowing system. Several holders may
// share one NativeWindow; methods that only read state are safe to call from
// any goroutine.
type NativeWindow interface {
	ID() WindowID
	Title() string
	ScaleFactor() float64
	// InnerPosition returns the position of the client area in physical
	// pixels, or an error if the platform cannot report it.
	InnerPosition() (geom.PhysicalPosition, error)
	SurfaceSize() geom.PhysicalSize
	CurrentMonitor() (Monitor, bool)
	Decorated() bool
	RequestRedraw()
	DragResize(dir ResizeDirection) error
	SetCursor(i event.Interaction)
	Close() error
}

// Backend abstracts the windowing system.
type Backend interface {
	CreateWindow(s Settings) (NativeWindow, error)
	Monitors() ([]Monitor, error)
	// Events returns the stream of raw window events.
	Events() <-chan Event
	// Run pumps the windowing system until ctx is done or the connection
	// fails.
	Run(ctx context.Context) error
	Close()
}

// PlaceOn returns the top-left corner that centers a window of the given
// physical size on the monitor's usable area.
func PlaceOn(m Monitor, size geom.PhysicalSize) geom.PhysicalPosition {
	area := m.Usable
	if area.Empty() {
		area = m.Bounds
	}
	cx, cy := area.Center()
	return geom.PhysicalPosition{
		X: cx - int(size.Width)/2,
		Y: cy - int(size.Height)/2,
	}
}
