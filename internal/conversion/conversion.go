// Package conversion maps platform-native pointer and keyboard input onto the
// neutral types in package event. Every function is pure; inputs without a
// semantic counterpart report ok == false and callers drop them.
package conversion

import (
	"math"

	"github.com/1broseidon/winshell/internal/event"
)

// Pointer button codes from linux/input-event-codes.h.
const (
	BtnLeft   uint32 = 0x110
	BtnRight  uint32 = 0x111
	BtnMiddle uint32 = 0x112
	BtnSide   uint32 = 0x113
	BtnExtra  uint32 = 0x114
)

// AxisSource describes the device that produced a scroll axis sample.
type AxisSource uint8

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
	AxisSourceWheelTilt
)

// AxisScroll is a single-axis scroll sample.
type AxisScroll struct {
	// Absolute is the continuous scroll distance.
	Absolute float64
	// Discrete is the number of wheel steps.
	Discrete int32
	// Stop is set when the axis has stopped scrolling.
	Stop bool
}

// NativeModifiers is the keyboard modifier state reported by the platform.
type NativeModifiers struct {
	Ctrl     bool
	Alt      bool
	Shift    bool
	CapsLock bool
	Logo     bool
	NumLock  bool
}

// PointerButton converts a native button code to a semantic button.
func PointerButton(button uint32) (event.Button, bool) {
	switch button {
	case BtnLeft:
		return event.Left, true
	case BtnRight:
		return event.Right, true
	case BtnMiddle:
		return event.Middle, true
	case BtnSide:
		return event.Back, true
	case BtnExtra:
		return event.Forward, true
	}
	if button > math.MaxUint16 {
		return event.Button{}, false
	}
	return event.Other(uint16(button)), true
}

// PointerAxis converts a scroll sample to a scroll delta. Without a source
// the sample cannot be classified and is not mapped. Both axes are inverted.
func PointerAxis(source *AxisSource, horizontal, vertical AxisScroll) (event.ScrollDelta, bool) {
	if source == nil {
		return event.ScrollDelta{}, false
	}
	switch *source {
	case AxisSourceWheel, AxisSourceWheelTilt:
		return event.ScrollDelta{
			Unit: event.Lines,
			X:    -1 * float32(horizontal.Discrete),
			Y:    -1 * float32(vertical.Discrete),
		}, true
	default:
		return event.ScrollDelta{
			Unit: event.Pixels,
			X:    -1 * float32(horizontal.Absolute),
			Y:    -1 * float32(vertical.Absolute),
		}, true
	}
}

// Modifiers converts native modifier state to a semantic modifier set.
func Modifiers(mods NativeModifiers) event.Modifiers {
	var m event.Modifiers
	if mods.Alt {
		m |= event.Alt
	}
	if mods.Ctrl {
		m |= event.Ctrl
	}
	if mods.Logo {
		m |= event.Logo
	}
	if mods.Shift {
		m |= event.Shift
	}
	if mods.CapsLock {
		m |= event.CapsLock
	}
	// NumLock has no semantic counterpart in event.Modifiers.
	return m
}
