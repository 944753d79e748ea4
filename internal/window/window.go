package window

import (
	"github.com/1broseidon/winshell/internal/compositor"
	"github.com/1broseidon/winshell/internal/dragresize"
	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/geom"
	"github.com/1broseidon/winshell/internal/platform"
)

// Window is a managed window and the resources attached to it.
type Window struct {
	// Native may be shared with the platform layer; it outlives the entry
	// while anyone still holds it.
	Native platform.NativeWindow
	State  *State
	// ViewportVersion is the State viewport version last rendered.
	ViewportVersion    uint64
	ExitOnCloseRequest bool
	// DragResize is nil for decorated windows.
	DragResize              dragresize.Func
	PrevDnDDestinationCount int
	MouseInteraction        event.Interaction
	Surface                 compositor.Surface
	Renderer                compositor.Renderer
	ResizeEnabled           bool

	redrawRequested bool
}

// Position returns the logical position of the client area, if the
// platform can report it.
func (w *Window) Position() (geom.Point, bool) {
	pos, err := w.Native.InnerPosition()
	if err != nil {
		return geom.Point{}, false
	}
	return pos.ToLogical(w.Native.ScaleFactor()), true
}

// Size returns the logical size of the window surface.
func (w *Window) Size() geom.Size {
	return w.Native.SurfaceSize().ToLogical(w.Native.ScaleFactor())
}

// RequestRedraw asks the native window for a repaint unless one is already
// pending.
func (w *Window) RequestRedraw() {
	if w.redrawRequested {
		return
	}
	w.redrawRequested = true
	w.Native.RequestRedraw()
}

// RedrawRequested reports whether a repaint is pending.
func (w *Window) RedrawRequested() bool { return w.redrawRequested }

// FrameDone clears the pending repaint. Only the render loop calls it, after
// a frame has been presented.
func (w *Window) FrameDone() { w.redrawRequested = false }

// Release frees the surface and renderer. The native window is left alone.
func (w *Window) Release() {
	if w.Surface != nil {
		w.Surface.Release()
	}
	if w.Renderer != nil {
		w.Renderer.Release()
	}
}
