package shell

import (
	"github.com/1broseidon/winshell/internal/compositor"
	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/geom"
	"github.com/1broseidon/winshell/internal/window"
)

// Action is what the program asks the shell to do after an update.
type Action uint8

const (
	ActionNone Action = iota
	// ActionClose closes the window the event was delivered to.
	ActionClose
	// ActionExit closes every window and stops the shell.
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionClose:
		return "close"
	case ActionExit:
		return "exit"
	}
	return "unknown"
}

// Program is the application driven by the shell. All methods are called
// from the shell's goroutine.
type Program interface {
	window.Program
	Update(id window.ID, ev event.Event) Action
	// Draw records the frame for window id. The renderer has already been
	// cleared to the background color.
	Draw(id window.ID, r compositor.Renderer, state *window.State)
}

// MouseInteractor is implemented by programs that choose the cursor shape.
type MouseInteractor interface {
	MouseInteraction(id window.ID) event.Interaction
}

// DropTargeter is implemented by programs that accept drag-and-drop. The
// returned rectangles are in logical coordinates.
type DropTargeter interface {
	DropTargets(id window.ID) []geom.Rect
}
