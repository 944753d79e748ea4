package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type fakeController struct {
	mu       sync.Mutex
	windows  []WindowInfo
	nextID   uint64
	redraws  []uint64
	checkErr error
}

func (f *fakeController) Windows(context.Context) ([]WindowInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]WindowInfo, len(f.windows))
	copy(out, f.windows)
	return out, nil
}

func (f *fakeController) Monitors(context.Context) ([]MonitorInfo, error) {
	return []MonitorInfo{{ID: 0, Name: "headless-0", Width: 1920, Height: 1080, ScaleFactor: 1}}, nil
}

func (f *fakeController) OpenWindow(_ context.Context, p OpenWindowPayload) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.windows = append(f.windows, WindowInfo{ID: f.nextID, Title: p.Title, Width: p.Width, Height: p.Height})
	return f.nextID, nil
}

func (f *fakeController) CloseWindow(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.windows {
		if w.ID == id {
			f.windows = append(f.windows[:i], f.windows[i+1:]...)
			return nil
		}
	}
	return errors.New("window not found")
}

func (f *fakeController) RequestRedraw(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redraws = append(f.redraws, id)
	return nil
}

func (f *fakeController) Check(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checkErr
}

func (f *fakeController) setCheckErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkErr = err
}

func (f *fakeController) redrawn() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64(nil), f.redraws...)
}

func (f *fakeController) BackendName() string { return "headless" }

func startServer(t *testing.T, ctrl Controller) *Client {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "ws.sock")
	srv := NewServerAt(socket, ctrl, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(socket)
}

func TestWindowLifecycleOverSocket(t *testing.T) {
	ctrl := &fakeController{}
	client := startServer(t, ctrl)

	id, err := client.OpenWindow(OpenWindowPayload{Title: "editor", Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("OpenWindow() error: %v", err)
	}
	if id != 1 {
		t.Fatalf("OpenWindow() id = %d, want 1", id)
	}

	windows, err := client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows() error: %v", err)
	}
	if len(windows) != 1 || windows[0].Title != "editor" || windows[0].Width != 640 {
		t.Fatalf("ListWindows() = %+v, want one 640-wide editor window", windows)
	}

	if err := client.RequestRedraw(id); err != nil {
		t.Fatalf("RequestRedraw() error: %v", err)
	}
	if got := ctrl.redrawn(); len(got) != 1 || got[0] != id {
		t.Fatalf("redraws = %v, want [%d]", got, id)
	}

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error: %v", err)
	}
	if status.WindowCount != 1 || status.Backend != "headless" || !status.ShellRunning {
		t.Fatalf("GetStatus() = %+v", status)
	}

	if err := client.CloseWindow(id); err != nil {
		t.Fatalf("CloseWindow() error: %v", err)
	}
	err = client.CloseWindow(id)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("second CloseWindow() error = %v, want not found", err)
	}

	windows, err = client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows() error: %v", err)
	}
	if windows == nil || len(windows) != 0 {
		t.Fatalf("ListWindows() = %#v, want empty list", windows)
	}
}

func TestOpenWindowRejectsEmptySize(t *testing.T) {
	client := startServer(t, &fakeController{})
	if _, err := client.OpenWindow(OpenWindowPayload{Title: "bad"}); err == nil {
		t.Fatal("OpenWindow() with zero size succeeded")
	}
}

func TestMonitorsAndCheck(t *testing.T) {
	ctrl := &fakeController{}
	client := startServer(t, ctrl)

	monitors, err := client.GetMonitors()
	if err != nil {
		t.Fatalf("GetMonitors() error: %v", err)
	}
	if len(monitors.Monitors) != 1 || monitors.Monitors[0].Name != "headless-0" {
		t.Fatalf("GetMonitors() = %+v", monitors)
	}

	if err := client.Check(); err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	ctrl.setCheckErr(errors.New("index mismatch"))
	if err := client.Check(); err == nil || !strings.Contains(err.Error(), "index mismatch") {
		t.Fatalf("Check() error = %v, want index mismatch", err)
	}
}

func TestHandleCommandUnknown(t *testing.T) {
	srv := NewServerAt(filepath.Join(t.TempDir(), "unused.sock"), &fakeController{}, nil)
	resp := srv.handleCommand(context.Background(), &Request{Command: "NOPE"})
	if resp.Status != "ERROR" || !strings.Contains(resp.Error, "Unknown command") {
		t.Fatalf("handleCommand() = %+v, want unknown command error", resp)
	}
}

func TestClientWithoutServer(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if _, err := client.GetStatus(); err == nil || !strings.Contains(err.Error(), "is winshell running") {
		t.Fatalf("GetStatus() error = %v, want connection error", err)
	}
}
