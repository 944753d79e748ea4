// Package tui is an interactive inspector for a running winshell.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/winshell/internal/ipc"
)

// Client is the IPC surface the inspector needs. *ipc.Client satisfies it.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	CloseWindow(id uint64) error
	RequestRedraw(id uint64) error
}

// Run starts the inspector and blocks until the user quits.
func Run(client Client) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if client == nil {
		client = ipc.NewClient()
	}

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
