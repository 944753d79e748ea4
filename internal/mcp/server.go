package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winshell/internal/ipc"
)

const (
	ServerName    = "winshell"
	ServerVersion = "0.1.0"
)

// WindowClient is the IPC surface used by the tools. *ipc.Client satisfies
// it.
type WindowClient interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	OpenWindow(p ipc.OpenWindowPayload) (uint64, error)
	CloseWindow(id uint64) error
	RequestRedraw(id uint64) error
}

// Server is the MCP server exposing the running shell's windows.
type Server struct {
	mcpServer *mcpsdk.Server
	client    WindowClient
}

// NewServer creates an MCP server that forwards to a running shell over IPC.
func NewServer(client WindowClient) *Server {
	if client == nil {
		client = ipc.NewClient()
	}
	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows managed by the running winshell in ascending id order, with their logical size, position and redraw state.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a new window. Width and height are logical pixels. Returns the window id for later calls.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window by id. Fails if the window is not open.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "request_redraw",
		Description: "Ask a window to repaint. Requests made while a repaint is already pending are merged into it.",
	}, s.handleRequestRedraw)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report whether winshell is running, its backend, uptime and window count.",
	}, s.handleGetStatus)
}
