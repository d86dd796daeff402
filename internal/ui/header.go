package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wayfarer/internal/state"
)

// renderHeader renders the status bar with stats and warnings.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{styles.Logo.Render("wayfarer")}

	if m.snapshot.Loading {
		parts = append(parts, styles.WarningText.Render(m.spinner.View()+" Loading destinations…"))
		return m.headerBar(strings.Join(parts, sep))
	}

	stats := m.snapshot.Stats
	parts = append(parts,
		styles.MutedText.Render("Total:")+" "+styles.Text.Render(fmt.Sprintf("%d", stats.Total)),
		styles.MutedText.Render("Visited:")+" "+
			lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Visited)).Render(fmt.Sprintf("%d", stats.Visited)),
		styles.MutedText.Render("Done:")+" "+styles.AccentText.Render(fmt.Sprintf("%d%%", stats.Percentage)),
		styles.MutedText.Render("Countries:")+" "+styles.Text.Render(fmt.Sprintf("%d", stats.UniqueCountries)),
	)
	if m.width >= 80 {
		parts = append(parts, styles.MutedText.Render("Filter:")+" "+styles.InfoText.Render(filterLabel(m.filter)))
	}

	if warning := persistenceWarning(m.snapshot.LastError); warning != "" {
		parts = append(parts, styles.DangerText.Render(warning))
	} else if m.status != "" {
		parts = append(parts, styles.WarningText.Render(m.status))
	}

	return m.headerBar(strings.Join(parts, sep))
}

func (m Model) headerBar(content string) string {
	return m.theme.Styles().Header.Width(m.width).Render(content)
}

// persistenceWarning summarises a store error for the header.
func persistenceWarning(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, state.ErrPersistence):
		return "⚠ changes not saved"
	case errors.Is(err, state.ErrReadOnly):
		return "⚠ saved list unreadable, changes disabled"
	default:
		return "⚠ saved list unreadable, started empty"
	}
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	var hints [][2]string
	switch m.current {
	case viewDetail:
		hints = [][2]string{{"esc", "back"}, {"space", "visited"}, {"e", "edit"}, {"j/k", "scroll"}}
	case viewForm:
		hints = [][2]string{{"tab", "next"}, {"ctrl+s", "save"}, {"esc", "cancel"}}
	case viewLogs:
		hints = [][2]string{{"esc/L", "back"}, {"r", "reload"}, {"j/k", "scroll"}}
	default:
		hints = [][2]string{{"a", "add"}, {"enter", "open"}, {"space", "visited"}, {"e", "edit"}, {"x", "delete"}, {"f", "filter"}, {"?", "help"}, {"q", "quit"}}
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, styles.AccentText.Render(h[0])+" "+styles.MutedText.Render(h[1]))
	}
	return styles.Footer.Width(m.width).Render(strings.Join(parts, "  "))
}
