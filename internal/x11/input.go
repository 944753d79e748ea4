package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/1broseidon/winshell/internal/conversion"
)

// Core protocol pointer buttons.
const (
	xButtonLeft       = 1
	xButtonMiddle     = 2
	xButtonRight      = 3
	xButtonWheelUp    = 4
	xButtonWheelDown  = 5
	xButtonWheelLeft  = 6
	xButtonWheelRight = 7
	xButtonBack       = 8
	xButtonForward    = 9
)

// Continuous distance reported per wheel step, matching libinput's default.
const wheelStepDistance = 10

// ButtonCode maps a core protocol button to an evdev button code. Buttons
// 4-7 are wheel steps and report ok == false; use WheelAxis for those.
func ButtonCode(detail xproto.Button) (code uint32, ok bool) {
	switch detail {
	case xButtonLeft:
		return conversion.BtnLeft, true
	case xButtonMiddle:
		return conversion.BtnMiddle, true
	case xButtonRight:
		return conversion.BtnRight, true
	case xButtonBack:
		return conversion.BtnSide, true
	case xButtonForward:
		return conversion.BtnExtra, true
	case xButtonWheelUp, xButtonWheelDown, xButtonWheelLeft, xButtonWheelRight:
		return 0, false
	}
	return uint32(detail), true
}

// WheelAxis maps wheel buttons 4-7 to a single axis step. Negative values
// scroll up/left, following the wayland axis convention.
func WheelAxis(detail xproto.Button) (source conversion.AxisSource, horizontal, vertical conversion.AxisScroll, ok bool) {
	step := func(n int32) conversion.AxisScroll {
		return conversion.AxisScroll{Discrete: n, Absolute: float64(n * wheelStepDistance)}
	}
	switch detail {
	case xButtonWheelUp:
		return conversion.AxisSourceWheel, conversion.AxisScroll{}, step(-1), true
	case xButtonWheelDown:
		return conversion.AxisSourceWheel, conversion.AxisScroll{}, step(1), true
	case xButtonWheelLeft:
		return conversion.AxisSourceWheelTilt, step(-1), conversion.AxisScroll{}, true
	case xButtonWheelRight:
		return conversion.AxisSourceWheelTilt, step(1), conversion.AxisScroll{}, true
	}
	return 0, conversion.AxisScroll{}, conversion.AxisScroll{}, false
}

// StateModifiers maps a core protocol modifier mask to native modifiers.
// Mod1 is Alt, Mod2 is NumLock and Mod4 is Super on common keymaps.
func StateModifiers(state uint16) conversion.NativeModifiers {
	return conversion.NativeModifiers{
		Shift:    state&xproto.ModMaskShift != 0,
		CapsLock: state&xproto.ModMaskLock != 0,
		Ctrl:     state&xproto.ModMaskControl != 0,
		Alt:      state&xproto.ModMask1 != 0,
		NumLock:  state&xproto.ModMask2 != 0,
		Logo:     state&xproto.ModMask4 != 0,
	}
}

// controlKeys maps named keysyms to the control character they produce.
var controlKeys = map[string]string{
	"Escape":    "\x1b",
	"Return":    "\r",
	"KP_Enter":  "\r",
	"Tab":       "\t",
	"BackSpace": "\b",
	"Delete":    "\x7f",
}

// KeyText returns the text a key press produces, or "" for keys such as
// arrows and modifiers.
func (c *Connection) KeyText(state uint16, keycode xproto.Keycode) string {
	s := keybind.LookupString(c.XUtil, state, keycode)
	if text, ok := controlKeys[s]; ok {
		return text
	}
	if len([]rune(s)) != 1 {
		// Named keysyms like "Left" or "Shift_L".
		return ""
	}
	return s
}
