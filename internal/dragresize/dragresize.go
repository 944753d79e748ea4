// Package dragresize lets undecorated windows be resized by dragging their
// edges.
package dragresize

import (
	"github.com/1broseidon/winshell/internal/conversion"
	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/geom"
	"github.com/1broseidon/winshell/internal/platform"
)

// Func inspects a raw window event and reports whether it started a resize.
// Consumed events must not be delivered to the application.
type Func func(native platform.NativeWindow, ev platform.Event) bool

// New returns the drag-resize handler for native, with border being the
// width of the grab area in physical pixels. Decorated windows are resized
// by the window manager, and get a nil Func.
//
// The handler owns the cursor while the pointer is on the border. When the
// pointer leaves it, the cursor is reset to idle and onLeave, if set, is
// called so the owner can reapply its own cursor.
func New(native platform.NativeWindow, border float64, onLeave func()) Func {
	if native == nil || native.Decorated() || border <= 0 {
		return nil
	}

	var (
		cursor  geom.PhysicalPosition
		current platform.ResizeDirection
		inside  bool
	)

	return func(native platform.NativeWindow, ev platform.Event) bool {
		switch ev.Kind {
		case platform.EventMotion:
			cursor = ev.Position
			dir, ok := HitTest(native.SurfaceSize(), cursor, border)
			switch {
			case ok && (!inside || dir != current):
				native.SetCursor(Interaction(dir))
			case !ok && inside:
				native.SetCursor(event.InteractionIdle)
				if onLeave != nil {
					onLeave()
				}
			}
			current, inside = dir, ok
		case platform.EventButtonPress:
			if ev.Button != conversion.BtnLeft {
				return false
			}
			dir, ok := HitTest(native.SurfaceSize(), ev.Position, border)
			if !ok {
				return false
			}
			return native.DragResize(dir) == nil
		}
		return false
	}
}

// HitTest returns the edge or corner of a window of the given size that pos
// falls on, if it is within border pixels of one.
func HitTest(size geom.PhysicalSize, pos geom.PhysicalPosition, border float64) (platform.ResizeDirection, bool) {
	w, h := float64(size.Width), float64(size.Height)
	x, y := float64(pos.X), float64(pos.Y)
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0, false
	}

	north := y < border
	south := y >= h-border
	west := x < border
	east := x >= w-border

	switch {
	case north && west:
		return platform.ResizeNorthWest, true
	case north && east:
		return platform.ResizeNorthEast, true
	case south && west:
		return platform.ResizeSouthWest, true
	case south && east:
		return platform.ResizeSouthEast, true
	case north:
		return platform.ResizeNorth, true
	case south:
		return platform.ResizeSouth, true
	case west:
		return platform.ResizeWest, true
	case east:
		return platform.ResizeEast, true
	}
	return 0, false
}

// Interaction returns the cursor shown while hovering the given edge.
func Interaction(dir platform.ResizeDirection) event.Interaction {
	switch dir {
	case platform.ResizeEast, platform.ResizeWest:
		return event.InteractionResizingHorizontally
	case platform.ResizeNorth, platform.ResizeSouth:
		return event.InteractionResizingVertically
	case platform.ResizeNorthEast, platform.ResizeSouthWest:
		return event.InteractionResizingDiagonallyUp
	case platform.ResizeNorthWest, platform.ResizeSouthEast:
		return event.InteractionResizingDiagonallyDown
	}
	return event.InteractionIdle
}
