package mcp

import "github.com/1broseidon/winshell/internal/ipc"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
	Count   int              `json:"count"`
}

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	Title              string   `json:"title" jsonschema:"Window title"`
	Width              float32  `json:"width" jsonschema:"Logical width of the window, must be > 0"`
	Height             float32  `json:"height" jsonschema:"Logical height of the window, must be > 0"`
	X                  *float32 `json:"x,omitempty" jsonschema:"Optional logical x position; the window is centered on the last used monitor when omitted"`
	Y                  *float32 `json:"y,omitempty" jsonschema:"Optional logical y position"`
	Decorations        bool     `json:"decorations,omitempty" jsonschema:"Ask the window manager to draw a title bar and borders"`
	Resizable          bool     `json:"resizable,omitempty" jsonschema:"Allow resizing, including edge drags on undecorated windows"`
	ExitOnCloseRequest bool     `json:"exit_on_close_request,omitempty" jsonschema:"Stop the shell when this window is asked to close"`
}

// OpenWindowOutput is the output for the open_window tool.
type OpenWindowOutput struct {
	ID uint64 `json:"id"`
}

// WindowInput names a window for close_window and request_redraw.
type WindowInput struct {
	ID uint64 `json:"id" jsonschema:"Window id as returned by open_window or list_windows"`
}

// WindowOutput is the output for close_window and request_redraw.
type WindowOutput struct {
	ID uint64 `json:"id"`
	OK bool   `json:"ok"`
}

// StatusInput is the input for the get_status tool.
type StatusInput struct{}
