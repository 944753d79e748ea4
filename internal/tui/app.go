package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winshell/internal/ipc"
)

const pollInterval = time.Second

// tickMsg schedules the next poll of the shell.
type tickMsg time.Time

// snapshotMsg carries the result of one poll.
type snapshotMsg struct {
	status  *ipc.StatusData
	windows []ipc.WindowInfo
	err     error
}

// actionMsg reports the outcome of a redraw or close request.
type actionMsg struct {
	err error
}

// model is the root bubbletea model for the inspector.
type model struct {
	client Client

	list    list.Model
	status  *ipc.StatusData
	lastErr string

	width  int
	height int
}

func newModel(client Client) model {
	return model{
		client: client,
		list:   newWindowList(),
	}
}

func (m model) poll() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		status, err := client.GetStatus()
		if err != nil {
			return snapshotMsg{err: err}
		}
		windows, err := client.ListWindows()
		return snapshotMsg{status: status, windows: windows, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) selected() (ipc.WindowInfo, bool) {
	item, ok := m.list.SelectedItem().(windowItem)
	if !ok {
		return ipc.WindowInfo{}, false
	}
	return item.info, true
}

// act runs f against the selected window and then re-polls.
func (m model) act(f func(id uint64) error) tea.Cmd {
	info, ok := m.selected()
	if !ok {
		return nil
	}
	poll := m.poll()
	return func() tea.Msg {
		if err := f(info.ID); err != nil {
			return actionMsg{err: err}
		}
		return poll()
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.poll(), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.act(m.client.RequestRedraw)
		case "x":
			return m, m.act(m.client.CloseWindow)
		case "ctrl+r":
			return m, m.poll()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width/2, m.contentHeight())
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.poll(), tick())

	case snapshotMsg:
		if msg.err != nil {
			m.status = nil
			m.lastErr = msg.err.Error()
			m.list.SetItems(nil)
			return m, nil
		}
		m.status = msg.status
		m.lastErr = ""
		cmd := m.list.SetItems(windowItems(msg.windows))
		return m, cmd

	case actionMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// contentHeight returns the height left between the status and help bars.
func (m model) contentHeight() int {
	return max(m.height-2, 1)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.lastErr, m.width)
	helpBar := renderHelpBar(m.width)
	contentHeight := m.contentHeight()

	leftWidth := m.width / 2
	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(contentHeight).
		Render(m.list.View())

	right := ""
	if info, ok := m.selected(); ok {
		right = renderWindowDetail(info, m.width-leftWidth, contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		helpBar,
	)
}
