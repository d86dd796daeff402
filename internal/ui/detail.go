package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wayfarer/internal/destination"
	"github.com/five82/wayfarer/internal/enrich"
)

// detailState holds the detail view for one destination.
type detailState struct {
	id       string
	viewport viewport.Model

	weather        *enrich.Conditions
	weatherErr     error
	weatherLoading bool
}

func (m *Model) initDetailViewport() {
	m.detail.viewport = viewport.New(max(m.width-4, 10), max(m.height-4, 3))
}

// openDetail switches to the detail view and fetches weather when possible.
func (m *Model) openDetail(d destination.Destination) tea.Cmd {
	m.current = viewDetail
	m.detail.id = d.ID
	m.detail.weather = nil
	m.detail.weatherErr = nil
	m.detail.weatherLoading = false

	var cmd tea.Cmd
	if coords, ok := d.Coordinates(); ok && m.lookup != nil {
		m.detail.weatherLoading = true
		cmd = tea.Batch(weatherCmd(m.ctx, m.lookup, d.ID, coords), m.spinner.Tick)
	}
	m.detail.viewport.GotoTop()
	m.updateDetailViewport()
	return cmd
}

func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	m.detail.viewport.Width = max(m.width-4, 10)
	m.detail.viewport.Height = max(m.height-4, 3)
	d, ok := m.detailItem()
	if !ok {
		m.detail.viewport.SetContent(m.theme.Styles().MutedText.Render("This destination no longer exists."))
		return
	}
	m.detail.viewport.SetContent(m.renderDetailContent(d))
}

func (m Model) detailItem() (destination.Destination, bool) {
	for _, d := range m.snapshot.Destinations {
		if d.ID == m.detail.id {
			return d, true
		}
	}
	return destination.Destination{}, false
}

func (m Model) renderDetailContent(d destination.Destination) string {
	styles := m.theme.Styles()
	var b strings.Builder

	title := styles.Text.Bold(true).Render(d.Label())
	badge := styles.PlannedBadge.Render("PLANNED")
	if d.Visited {
		badge = styles.VisitedBadge.Render("VISITED")
	}
	fmt.Fprintf(&b, "%s  %s\n\n", title, badge)

	row := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = styles.FaintText.Render("—")
		} else {
			value = styles.Text.Render(value)
		}
		fmt.Fprintf(&b, "%s%s\n", styles.MutedText.Width(14).Render(label), value)
	}

	row("Description", d.Description)
	row("Why visit", d.WhyVisit)
	row("Tags", strings.Join(d.Tags, ", "))
	row("Added", d.DateAdded.Local().Format("2006-01-02 15:04"))

	coords, located := d.Coordinates()
	if located {
		row("Coordinates", formatCoordinates(coords))
	} else {
		row("Coordinates", "")
	}
	row("Image", describeImage(d.ImageURL))

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Right now"))
	b.WriteString("\n")

	if !located {
		b.WriteString(styles.FaintText.Render("Add coordinates to see local weather and time."))
		b.WriteString("\n")
		return b.String()
	}

	now := m.now()
	switch {
	case m.detail.weather != nil:
		w := m.detail.weather
		row("Weather", fmt.Sprintf("%.1f°C, %s, %d%% humidity", w.TemperatureC, w.Description, w.Humidity))
		local := w.LocalTime(now)
		row("Local time", fmt.Sprintf("%s (%s)", local.Format("Mon 15:04"), local.Format("MST")))
	default:
		switch {
		case m.detail.weatherLoading:
			row("Weather", m.spinner.View()+" fetching…")
		case m.detail.weatherErr != nil:
			row("Weather", "unavailable")
		default:
			row("Weather", "")
		}
		clock := enrich.ApproximateLocalTime(coords.Lng, now)
		row("Local time", fmt.Sprintf("%s (≈ %s)", clock.Time.Format("Mon 15:04"), clock.Zone))
	}

	return b.String()
}

func (m Model) renderDetail() string {
	return m.renderTitledBox(m.detail.viewport.View(), m.width)
}

func formatCoordinates(c destination.Coordinates) string {
	ns, ew := "N", "E"
	lat, lng := c.Lat, c.Lng
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lng < 0 {
		ew, lng = "W", -lng
	}
	return fmt.Sprintf("%.4f°%s, %.4f°%s", lat, ns, lng, ew)
}
