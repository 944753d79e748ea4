package event

import (
	"fmt"
	"strings"
)

// ButtonKind identifies a semantic mouse button.
type ButtonKind uint8

const (
	ButtonLeft ButtonKind = iota + 1
	ButtonRight
	ButtonMiddle
	ButtonBack
	ButtonForward
	ButtonOther
)

// Button is a semantic mouse button. Buttons without a well-known meaning use
// ButtonOther and carry the raw code.
type Button struct {
	Kind ButtonKind
	Code uint16
}

var (
	Left    = Button{Kind: ButtonLeft}
	Right   = Button{Kind: ButtonRight}
	Middle  = Button{Kind: ButtonMiddle}
	Back    = Button{Kind: ButtonBack}
	Forward = Button{Kind: ButtonForward}
)

// Other returns the generic button carrying code.
func Other(code uint16) Button {
	return Button{Kind: ButtonOther, Code: code}
}

func (b Button) String() string {
	switch b.Kind {
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonMiddle:
		return "Middle"
	case ButtonBack:
		return "Back"
	case ButtonForward:
		return "Forward"
	case ButtonOther:
		return fmt.Sprintf("Other(%d)", b.Code)
	default:
		return "Unknown"
	}
}

// ScrollUnit is the unit of a ScrollDelta.
type ScrollUnit uint8

const (
	// Lines is used for stepped input such as a physical mouse wheel.
	Lines ScrollUnit = iota + 1
	// Pixels is used for continuous input such as a touchpad.
	Pixels
)

// ScrollDelta is the amount scrolled along each axis.
type ScrollDelta struct {
	Unit ScrollUnit
	X    float32
	Y    float32
}

func (d ScrollDelta) String() string {
	unit := "lines"
	if d.Unit == Pixels {
		unit = "pixels"
	}
	return fmt.Sprintf("%s(%g, %g)", unit, d.X, d.Y)
}

// Interaction is the cursor shape a window wants to show.
type Interaction uint8

const (
	InteractionNone Interaction = iota
	InteractionIdle
	InteractionPointer
	InteractionGrab
	InteractionGrabbing
	InteractionText
	InteractionCrosshair
	InteractionWorking
	InteractionNotAllowed
	InteractionResizingHorizontally
	InteractionResizingVertically
	InteractionResizingDiagonallyUp
	InteractionResizingDiagonallyDown
)

var interactionNames = map[Interaction]string{
	InteractionNone:                   "none",
	InteractionIdle:                   "idle",
	InteractionPointer:                "pointer",
	InteractionGrab:                   "grab",
	InteractionGrabbing:               "grabbing",
	InteractionText:                   "text",
	InteractionCrosshair:              "crosshair",
	InteractionWorking:                "working",
	InteractionNotAllowed:             "not-allowed",
	InteractionResizingHorizontally:   "resize-horizontal",
	InteractionResizingVertically:     "resize-vertical",
	InteractionResizingDiagonallyUp:   "resize-diagonal-up",
	InteractionResizingDiagonallyDown: "resize-diagonal-down",
}

func (i Interaction) String() string {
	if name, ok := interactionNames[i]; ok {
		return name
	}
	return fmt.Sprintf("interaction(%d)", uint8(i))
}

// ParseInteraction parses the name produced by Interaction.String.
func ParseInteraction(s string) (Interaction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range interactionNames {
		if name == s {
			return i, true
		}
	}
	return InteractionNone, false
}
