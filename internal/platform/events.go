package platform

import (
	"fmt"

	"github.com/1broseidon/winshell/internal/conversion"
	"github.com/1broseidon/winshell/internal/geom"
)

// EventKind identifies a raw window event.
type EventKind uint8

const (
	EventExpose EventKind = iota + 1
	EventConfigure
	EventButtonPress
	EventButtonRelease
	EventAxis
	EventMotion
	EventKeyPress
	EventFocusIn
	EventFocusOut
	EventCloseRequest
	EventDestroy
)

var eventKindNames = map[EventKind]string{
	EventExpose:        "expose",
	EventConfigure:     "configure",
	EventButtonPress:   "button-press",
	EventButtonRelease: "button-release",
	EventAxis:          "axis",
	EventMotion:        "motion",
	EventKeyPress:      "key-press",
	EventFocusIn:       "focus-in",
	EventFocusOut:      "focus-out",
	EventCloseRequest:  "close-request",
	EventDestroy:       "destroy",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Event is a raw event reported by the windowing system for one window.
// Only the fields relevant to Kind are set.
type Event struct {
	Window WindowID
	Kind   EventKind

	// Position is the pointer position for input events and the window
	// position for configure events, in physical pixels.
	Position geom.PhysicalPosition
	// Size is the new surface size for configure events.
	Size geom.PhysicalSize

	// Button is the native button code for button events.
	Button uint32
	// AxisSource, Horizontal and Vertical describe axis events.
	AxisSource *conversion.AxisSource
	Horizontal conversion.AxisScroll
	Vertical   conversion.AxisScroll

	// Modifiers is the keyboard state at the time of an input event.
	Modifiers conversion.NativeModifiers
	// Text is the text produced by a key press.
	Text string
}

// IsInput reports whether the event carries pointer or keyboard input.
func (e Event) IsInput() bool {
	switch e.Kind {
	case EventButtonPress, EventButtonRelease, EventAxis, EventMotion, EventKeyPress:
		return true
	}
	return false
}
