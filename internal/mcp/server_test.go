package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/winshell/internal/ipc"
)

type fakeClient struct {
	windows []ipc.WindowInfo
	opened  []ipc.OpenWindowPayload
	closed  []uint64
	redrawn []uint64
	err     error
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{WindowCount: len(f.windows), Backend: "headless", ShellRunning: true}, nil
}

func (f *fakeClient) ListWindows() ([]ipc.WindowInfo, error) { return f.windows, f.err }

func (f *fakeClient) OpenWindow(p ipc.OpenWindowPayload) (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.opened = append(f.opened, p)
	return uint64(len(f.opened)), nil
}

func (f *fakeClient) CloseWindow(id uint64) error {
	f.closed = append(f.closed, id)
	return f.err
}

func (f *fakeClient) RequestRedraw(id uint64) error {
	f.redrawn = append(f.redrawn, id)
	return f.err
}

func float32Ptr(v float32) *float32 { return &v }

func TestHandleOpenWindow(t *testing.T) {
	tests := []struct {
		name    string
		input   OpenWindowInput
		wantErr bool
	}{
		{"valid", OpenWindowInput{Title: "editor", Width: 640, Height: 480}, false},
		{"positioned", OpenWindowInput{Title: "editor", Width: 640, Height: 480, X: float32Ptr(10), Y: float32Ptr(20)}, false},
		{"blank title", OpenWindowInput{Title: "  ", Width: 640, Height: 480}, true},
		{"zero width", OpenWindowInput{Title: "editor", Height: 480}, true},
		{"x without y", OpenWindowInput{Title: "editor", Width: 640, Height: 480, X: float32Ptr(10)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			s := NewServer(client)
			_, out, err := s.handleOpenWindow(context.Background(), nil, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("handleOpenWindow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if len(client.opened) != 0 {
					t.Fatalf("invalid input reached the shell: %+v", client.opened)
				}
				return
			}
			if out.ID != 1 || len(client.opened) != 1 || client.opened[0].Width != 640 {
				t.Fatalf("handleOpenWindow() = %+v, opened %+v", out, client.opened)
			}
		})
	}
}

func TestHandleListWindowsNeverNil(t *testing.T) {
	s := NewServer(&fakeClient{})
	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("handleListWindows() error = %v", err)
	}
	if out.Windows == nil || out.Count != 0 {
		t.Fatalf("handleListWindows() = %+v, want empty non-nil list", out)
	}
}

func TestHandleWindowCommands(t *testing.T) {
	client := &fakeClient{}
	s := NewServer(client)
	ctx := context.Background()

	if _, out, err := s.handleRequestRedraw(ctx, nil, WindowInput{ID: 3}); err != nil || !out.OK {
		t.Fatalf("handleRequestRedraw() = %+v, %v", out, err)
	}
	if _, out, err := s.handleCloseWindow(ctx, nil, WindowInput{ID: 3}); err != nil || !out.OK {
		t.Fatalf("handleCloseWindow() = %+v, %v", out, err)
	}
	if len(client.redrawn) != 1 || len(client.closed) != 1 {
		t.Fatalf("redrawn %v closed %v, want one each", client.redrawn, client.closed)
	}

	client.err = errors.New("shell error: window 3: window not found")
	if _, _, err := s.handleCloseWindow(ctx, nil, WindowInput{ID: 3}); err == nil {
		t.Fatal("handleCloseWindow() succeeded for a missing window")
	}
	if _, _, err := s.handleGetStatus(ctx, nil, StatusInput{}); err == nil {
		t.Fatal("handleGetStatus() succeeded with a failing client")
	}
}
