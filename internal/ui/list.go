package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wayfarer/internal/destination"
	"github.com/five82/wayfarer/internal/prefs"
)

// filterOrder is the cycle used by the filter key.
var filterOrder = []string{prefs.FilterAll, prefs.FilterPlanned, prefs.FilterVisited}

func nextFilter(current string) string {
	for i, f := range filterOrder {
		if f == current {
			return filterOrder[(i+1)%len(filterOrder)]
		}
	}
	return prefs.FilterAll
}

func filterLabel(filter string) string {
	switch filter {
	case prefs.FilterPlanned:
		return "Planned"
	case prefs.FilterVisited:
		return "Visited"
	default:
		return "All"
	}
}

// filterDestinations keeps insertion order.
func filterDestinations(items []destination.Destination, filter string) []destination.Destination {
	if filter != prefs.FilterPlanned && filter != prefs.FilterVisited {
		return items
	}
	wantVisited := filter == prefs.FilterVisited
	out := make([]destination.Destination, 0, len(items))
	for _, d := range items {
		if d.Visited == wantVisited {
			out = append(out, d)
		}
	}
	return out
}

// visibleItems returns the destinations shown under the current filter.
func (m Model) visibleItems() []destination.Destination {
	return filterDestinations(m.snapshot.Destinations, m.filter)
}

// selectedItem returns the highlighted destination, if any.
func (m Model) selectedItem() (destination.Destination, bool) {
	items := m.visibleItems()
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return destination.Destination{}, false
	}
	return items[m.selectedRow], true
}

// reselect keeps the cursor on the same destination across list changes,
// falling back to the nearest row when it disappeared.
func (m *Model) reselect() {
	items := m.visibleItems()
	if len(items) == 0 {
		m.selectedRow = 0
		m.selectedID = ""
		return
	}
	if m.selectedID != "" {
		for i, d := range items {
			if d.ID == m.selectedID {
				m.selectedRow = i
				return
			}
		}
	}
	if m.selectedRow >= len(items) {
		m.selectedRow = len(items) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
	m.selectedID = items[m.selectedRow].ID
}

func (m *Model) moveSelection(row int) {
	items := m.visibleItems()
	if len(items) == 0 {
		return
	}
	row = max(0, min(row, len(items)-1))
	m.selectedRow = row
	m.selectedID = items[row].ID
}

// renderList renders the destination table.
func (m Model) renderList(height int) string {
	styles := m.theme.Styles()
	items := m.visibleItems()

	if len(items) == 0 {
		msg := "No destinations yet. Press a to add one."
		if len(m.snapshot.Destinations) > 0 {
			msg = fmt.Sprintf("No %s destinations.", strings.ToLower(filterLabel(m.filter)))
		}
		return m.renderTitledBox(styles.MutedText.Render(msg), m.width)
	}

	inner := max(m.width-4, 20)
	cityW := max(inner*28/100, 8)
	countryW := max(inner*22/100, 8)
	tagsW := max(inner-cityW-countryW-12, 6)

	var b strings.Builder
	header := fmt.Sprintf("%-3s %-*s %-*s %-*s %s",
		"", cityW, "City", countryW, "Country", tagsW, "Tags", "Map")
	b.WriteString(styles.FaintText.Render(header))
	b.WriteString("\n")

	start, end := visibleWindow(len(items), m.selectedRow, max(height-3, 1))
	for i := start; i < end; i++ {
		d := items[i]
		mark := "○"
		if d.Visited {
			mark = "✓"
		}
		located := " "
		if d.Located() {
			located = "◆"
		}
		line := fmt.Sprintf("%-3s %-*s %-*s %-*s %s",
			mark,
			cityW, truncate(d.City, cityW),
			countryW, truncate(d.Country, countryW),
			tagsW, truncate(strings.Join(d.Tags, ", "), tagsW),
			located,
		)

		switch {
		case i == m.selectedRow:
			line = styles.Selected.Width(inner).Render(line)
		case m.pendingDelete == d.ID:
			line = styles.DangerText.Render(line)
		case d.Visited:
			line = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Visited)).Render(line)
		default:
			line = styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.pendingDelete != "" {
		if d, ok := m.selectedItem(); ok && d.ID == m.pendingDelete {
			b.WriteString(styles.DangerText.Render(fmt.Sprintf("Delete %s? y to confirm, any other key to cancel", d.Label())))
		}
	}

	return m.renderTitledBox(strings.TrimRight(b.String(), "\n"), m.width)
}

// visibleWindow returns the [start, end) rows that keep selected on screen.
func visibleWindow(total, selected, rows int) (int, int) {
	if total <= rows {
		return 0, total
	}
	start := selected - rows/2
	start = max(0, min(start, total-rows))
	return start, start + rows
}
