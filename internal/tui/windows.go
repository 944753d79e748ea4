package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winshell/internal/ipc"
)

// windowItem is a list item for one managed window.
type windowItem struct {
	info ipc.WindowInfo
}

func (i windowItem) Title() string {
	marker := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("·")
	if i.info.RedrawPending {
		marker = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render("●")
	}
	return fmt.Sprintf("%s %d %s", marker, i.info.ID, i.info.Title)
}

func (i windowItem) Description() string {
	return fmt.Sprintf("%gx%g @%gx", i.info.Width, i.info.Height, i.info.ScaleFactor)
}

func (i windowItem) FilterValue() string { return i.info.Title }

func newWindowList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func windowItems(windows []ipc.WindowInfo) []list.Item {
	items := make([]list.Item, 0, len(windows))
	for _, w := range windows {
		items = append(items, windowItem{info: w})
	}
	return items
}

func renderWindowDetail(info ipc.WindowInfo, width, height int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	position := "unknown"
	if info.X != nil && info.Y != nil {
		position = fmt.Sprintf("%g, %g", *info.X, *info.Y)
	}

	rows := [][2]string{
		{"handle", fmt.Sprintf("0x%x", info.Handle)},
		{"size", fmt.Sprintf("%g x %g", info.Width, info.Height)},
		{"position", position},
		{"scale", fmt.Sprintf("%g", info.ScaleFactor)},
		{"viewport", fmt.Sprintf("v%d", info.ViewportVersion)},
		{"redraw", fmt.Sprintf("%t", info.RedrawPending)},
		{"resizable", fmt.Sprintf("%t", info.ResizeEnabled)},
		{"cursor", info.MouseInteraction},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(info.Title))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", row[0])))
		b.WriteString(row[1])
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 2).
		Render(b.String())
}
