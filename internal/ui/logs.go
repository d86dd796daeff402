package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wayfarer/internal/logtail"
)

const logTailLines = 400

// logsState holds the log view.
type logsState struct {
	viewport viewport.Model
	entries  []logtail.Entry
	err      error
	from     view
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Tail(path, logTailLines)
		return logsMsg{entries: entries, err: err}
	}
}

func (m Model) openLogs() (tea.Model, tea.Cmd) {
	if m.logPath == "" {
		m.status = "Logging is not configured"
		return m, nil
	}
	m.logs.from = m.current
	m.logs.entries = nil
	m.logs.err = nil
	m.logs.viewport = viewport.New(max(m.width-4, 10), max(m.contentHeight()-2, 3))
	m.current = viewLogs
	m.updateLogsViewport()
	return m, loadLogsCmd(m.logPath)
}

func (m *Model) updateLogsViewport() {
	if m.current != viewLogs {
		return
	}
	m.logs.viewport.Width = max(m.width-4, 10)
	m.logs.viewport.Height = max(m.contentHeight()-2, 3)
	m.logs.viewport.SetContent(m.renderLogLines())
}

func (m Model) renderLogLines() string {
	styles := m.theme.Styles()
	if m.logs.err != nil {
		return styles.DangerText.Render("Could not read log: " + m.logs.err.Error())
	}
	if len(m.logs.entries) == 0 {
		return styles.FaintText.Render("No log entries yet.")
	}

	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		line := truncate(e.String(), max(m.width-6, 10))
		switch strings.ToUpper(e.Level) {
		case "ERROR":
			line = styles.DangerText.Render(line)
		case "WARN":
			line = styles.WarningText.Render(line)
		case "DEBUG":
			line = styles.FaintText.Render(line)
		default:
			line = styles.Text.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Logs):
		m.current = m.logs.from
		if m.current == viewDetail {
			if _, ok := m.detailItem(); !ok {
				m.current = viewList
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, loadLogsCmd(m.logPath)
	case key.Matches(msg, m.keys.Top):
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.logs.viewport, cmd = m.logs.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) renderLogs() string {
	title := m.theme.Styles().AccentText.Bold(true).Render("Log") + " " +
		m.theme.Styles().FaintText.Render(m.logPath)
	return m.renderTitledBox(title+"\n"+m.logs.viewport.View(), m.width)
}
