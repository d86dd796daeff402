package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// renderTitledBox wraps content in the theme's rounded border at width.
func (m Model) renderTitledBox(content string, width int) string {
	box := m.theme.Styles().Box
	if width > 2 {
		box = box.Width(width - 2)
	}
	return box.Render(content)
}

// fitHeight pads or clips s to exactly n lines.
func fitHeight(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// contentHeight returns the rows left for the body under the header and
// command bar.
func (m Model) contentHeight() int {
	return max(m.height-lipgloss.Height(m.renderHeader())-lipgloss.Height(m.renderCommandBar()), 3)
}
