package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winshell/internal/ipc"
)

// renderStatusBar renders the top connection bar.
func renderStatusBar(status *ipc.StatusData, lastErr string, width int) string {
	var text string
	if status != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " shell running",
			"backend:" + status.Backend,
			fmt.Sprintf("windows:%d", status.WindowCount),
			"uptime:" + (time.Duration(status.UptimeSeconds) * time.Second).String(),
		}
		text = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " shell not running"
	}
	if lastErr != "" {
		text += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(lastErr)
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(text)
}

// renderHelpBar renders the bottom keybinding bar.
func renderHelpBar(width int) string {
	help := "↑/↓: select  r: redraw  x: close  ctrl-r: refresh  q/ctrl-c: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
