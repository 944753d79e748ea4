package window

import (
	"math"
	"sync/atomic"

	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/geom"
	"github.com/1broseidon/winshell/internal/platform"
)

// ID is the application's identifier for a window. IDs are totally ordered.
type ID uint64

var lastID atomic.Uint64

// NewID returns a fresh ID, greater than every ID returned before.
func NewID() ID {
	return ID(lastID.Add(1))
}

// Program is the part of the application a window's State is derived from.
type Program interface {
	Title(id ID) string
	// ScaleFactor is the application's zoom for the window, applied on top
	// of the display scale.
	ScaleFactor(id ID) float64
}

// State is the UI-facing snapshot of a window.
type State struct {
	title           string
	appScale        float64
	systemScale     float64
	physicalSize    geom.PhysicalSize
	viewportVersion uint64

	cursor    geom.Point
	hasCursor bool
	modifiers event.Modifiers
}

// NewState builds the state of window id from the program and the native
// window.
func NewState(program Program, id ID, native platform.NativeWindow) *State {
	return &State{
		title:        program.Title(id),
		appScale:     validScale(program.ScaleFactor(id)),
		systemScale:  validScale(native.ScaleFactor()),
		physicalSize: native.SurfaceSize(),
	}
}

func validScale(scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1
	}
	return scale
}

func (s *State) Title() string { return s.title }

// ScaleFactor is the combined application and display scale.
func (s *State) ScaleFactor() float64 { return s.appScale * s.systemScale }

func (s *State) PhysicalSize() geom.PhysicalSize { return s.physicalSize }

func (s *State) LogicalSize() geom.Size {
	return s.physicalSize.ToLogical(s.ScaleFactor())
}

// ViewportVersion changes every time the physical size or scale changes.
func (s *State) ViewportVersion() uint64 { return s.viewportVersion }

// Resize records a new physical size and reports whether it changed.
func (s *State) Resize(size geom.PhysicalSize) bool {
	if size == s.physicalSize {
		return false
	}
	s.physicalSize = size
	s.viewportVersion++
	return true
}

// Synchronize refreshes the title and scale from the program and native
// window.
func (s *State) Synchronize(program Program, id ID, native platform.NativeWindow) {
	s.title = program.Title(id)
	app := validScale(program.ScaleFactor(id))
	sys := validScale(native.ScaleFactor())
	if app != s.appScale || sys != s.systemScale {
		s.appScale, s.systemScale = app, sys
		s.viewportVersion++
	}
}

// Cursor returns the last pointer position in logical coordinates.
func (s *State) Cursor() (geom.Point, bool) { return s.cursor, s.hasCursor }

func (s *State) SetCursor(p geom.Point) {
	s.cursor, s.hasCursor = p, true
}

// ClearCursor forgets the pointer position, e.g. when focus is lost.
func (s *State) ClearCursor() {
	s.cursor, s.hasCursor = geom.Point{}, false
}

func (s *State) Modifiers() event.Modifiers { return s.modifiers }

// SetModifiers records the modifier state and reports whether it changed.
func (s *State) SetModifiers(m event.Modifiers) bool {
	if m == s.modifiers {
		return false
	}
	s.modifiers = m
	return true
}
