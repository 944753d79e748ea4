package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetMonitors   CommandType = "GET_MONITORS"
	CommandListWindows   CommandType = "LIST_WINDOWS"
	CommandOpenWindow    CommandType = "OPEN_WINDOW"
	CommandCloseWindow   CommandType = "CLOSE_WINDOW"
	CommandRequestRedraw CommandType = "REQUEST_REDRAW"
	CommandCheck         CommandType = "CHECK"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount   int    `json:"window_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Backend       string `json:"backend"`
	ShellRunning  bool   `json:"shell_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ScaleFactor float64 `json:"scale_factor"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// WindowInfo describes one managed window. Sizes and positions are logical.
type WindowInfo struct {
	ID               uint64   `json:"id"`
	Handle           uint32   `json:"handle"`
	Title            string   `json:"title"`
	Width            float32  `json:"width"`
	Height           float32  `json:"height"`
	X                *float32 `json:"x,omitempty"`
	Y                *float32 `json:"y,omitempty"`
	ScaleFactor      float64  `json:"scale_factor"`
	RedrawPending    bool     `json:"redraw_pending"`
	ResizeEnabled    bool     `json:"resize_enabled"`
	ViewportVersion  uint64   `json:"viewport_version"`
	MouseInteraction string   `json:"mouse_interaction"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// OpenWindowPayload represents the payload for OPEN_WINDOW command
type OpenWindowPayload struct {
	Title              string   `json:"title"`
	Width              float32  `json:"width"`
	Height             float32  `json:"height"`
	X                  *float32 `json:"x,omitempty"`
	Y                  *float32 `json:"y,omitempty"`
	Decorations        bool     `json:"decorations,omitempty"`
	Resizable          bool     `json:"resizable,omitempty"`
	ExitOnCloseRequest bool     `json:"exit_on_close_request,omitempty"`
}

// OpenWindowData represents the data returned by OPEN_WINDOW
type OpenWindowData struct {
	ID uint64 `json:"id"`
}

// WindowPayload names a window for CLOSE_WINDOW and REQUEST_REDRAW.
type WindowPayload struct {
	ID uint64 `json:"id"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
