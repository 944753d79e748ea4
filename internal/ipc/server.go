package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/winshell/internal/runtimepath"
)

// requestTimeout bounds how long a request may wait on the shell.
const requestTimeout = 4 * time.Second

// Controller is the window shell as seen by the IPC server.
type Controller interface {
	Windows(ctx context.Context) ([]WindowInfo, error)
	Monitors(ctx context.Context) ([]MonitorInfo, error)
	OpenWindow(ctx context.Context, p OpenWindowPayload) (uint64, error)
	CloseWindow(ctx context.Context, id uint64) error
	RequestRedraw(ctx context.Context, id uint64) error
	Check(ctx context.Context) error
	BackendName() string
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server on the default socket path
func NewServer(ctrl Controller, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, ctrl, logger), nil
}

// NewServerAt creates a new IPC server listening on socketPath
func NewServerAt(socketPath string, ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandGetMonitors:
		return s.handleGetMonitors(ctx)
	case CommandListWindows:
		return s.handleListWindows(ctx)
	case CommandOpenWindow:
		return s.handleOpenWindow(ctx, req.Payload)
	case CommandCloseWindow:
		return s.handleWindowCommand(ctx, req.Payload, s.ctrl.CloseWindow)
	case CommandRequestRedraw:
		return s.handleWindowCommand(ctx, req.Payload, s.ctrl.RequestRedraw)
	case CommandCheck:
		if err := s.ctrl.Check(ctx); err != nil {
			return NewErrorResponse(err.Error())
		}
		return okResponse(nil)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	windows, err := s.ctrl.Windows(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}
	return okResponse(StatusData{
		WindowCount:   len(windows),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Backend:       s.ctrl.BackendName(),
		ShellRunning:  true,
	})
}

func (s *Server) handleGetMonitors(ctx context.Context) *Response {
	monitors, err := s.ctrl.Monitors(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}
	return okResponse(MonitorsData{Monitors: monitors})
}

func (s *Server) handleListWindows(ctx context.Context) *Response {
	windows, err := s.ctrl.Windows(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}
	if windows == nil {
		windows = []WindowInfo{}
	}
	return okResponse(WindowsData{Windows: windows})
}

func (s *Server) handleOpenWindow(ctx context.Context, payload json.RawMessage) *Response {
	var p OpenWindowPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if p.Width <= 0 || p.Height <= 0 {
		return NewErrorResponse("width and height must be > 0")
	}
	id, err := s.ctrl.OpenWindow(ctx, p)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open window: %v", err))
	}
	return okResponse(OpenWindowData{ID: id})
}

func (s *Server) handleWindowCommand(ctx context.Context, payload json.RawMessage, fn func(context.Context, uint64) error) *Response {
	var p WindowPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if err := fn(ctx, p.ID); err != nil {
		return NewErrorResponse(fmt.Sprintf("window %d: %v", p.ID, err))
	}
	return okResponse(nil)
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, err := resp.Marshal()
	if err != nil {
		return
	}
	conn.Write(append(data, '\n'))
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}
