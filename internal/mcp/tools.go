package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winshell/internal/ipc"
)

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	if windows == nil {
		windows = []ipc.WindowInfo{}
	}
	return nil, ListWindowsOutput{Windows: windows, Count: len(windows)}, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, OpenWindowOutput, error) {
	title := strings.TrimSpace(args.Title)
	if title == "" {
		return nil, OpenWindowOutput{}, fmt.Errorf("title is required")
	}
	if args.Width <= 0 || args.Height <= 0 {
		return nil, OpenWindowOutput{}, fmt.Errorf("width and height must be > 0, got %gx%g", args.Width, args.Height)
	}
	if (args.X == nil) != (args.Y == nil) {
		return nil, OpenWindowOutput{}, fmt.Errorf("x and y must be given together")
	}

	id, err := s.client.OpenWindow(ipc.OpenWindowPayload{
		Title:              title,
		Width:              args.Width,
		Height:             args.Height,
		X:                  args.X,
		Y:                  args.Y,
		Decorations:        args.Decorations,
		Resizable:          args.Resizable,
		ExitOnCloseRequest: args.ExitOnCloseRequest,
	})
	if err != nil {
		return nil, OpenWindowOutput{}, err
	}
	return nil, OpenWindowOutput{ID: id}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := s.client.CloseWindow(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{ID: args.ID, OK: true}, nil
}

func (s *Server) handleRequestRedraw(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := s.client.RequestRedraw(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{ID: args.ID, OK: true}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *status, nil
}
