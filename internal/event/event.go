// Package event defines the toolkit-neutral events delivered to an
// application for each of its windows.
package event

import "github.com/1broseidon/winshell/internal/geom"

// Event is implemented by every event type in this package.
type Event interface {
	isEvent()
}

// Opened is delivered once a window has been created and registered.
type Opened struct {
	Position *geom.Point
	Size     geom.Size
}

// Closed is delivered after a window has been removed.
type Closed struct{}

// CloseRequested is delivered when the user asks to close a window whose
// close policy leaves the decision to the application.
type CloseRequested struct{}

// Resized is delivered when the logical size of a window changes.
type Resized struct {
	Size geom.Size
}

// Focused is delivered when a window gains keyboard focus.
type Focused struct{}

// Unfocused is delivered when a window loses keyboard focus.
type Unfocused struct{}

// CursorMoved is delivered when the pointer moves inside a window.
type CursorMoved struct {
	Position geom.Point
}

// ButtonPressed is delivered when a mouse button is pressed.
type ButtonPressed struct {
	Button   Button
	Position geom.Point
}

// ButtonReleased is delivered when a mouse button is released.
type ButtonReleased struct {
	Button   Button
	Position geom.Point
}

// WheelScrolled is delivered for scroll wheel and touchpad input.
type WheelScrolled struct {
	Delta ScrollDelta
}

// ModifiersChanged is delivered when the keyboard modifier state changes.
type ModifiersChanged struct {
	Modifiers Modifiers
}

// KeyPressed is delivered when a key is pressed. Text holds the characters
// the key produces, if any.
type KeyPressed struct {
	Text      string
	Modifiers Modifiers
}

func (Opened) isEvent()           {}
func (Closed) isEvent()           {}
func (CloseRequested) isEvent()   {}
func (Resized) isEvent()          {}
func (Focused) isEvent()          {}
func (Unfocused) isEvent()        {}
func (CursorMoved) isEvent()      {}
func (ButtonPressed) isEvent()    {}
func (ButtonReleased) isEvent()   {}
func (WheelScrolled) isEvent()    {}
func (ModifiersChanged) isEvent() {}
func (KeyPressed) isEvent()       {}
