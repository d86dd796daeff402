package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wayfarer/internal/destination"
	"github.com/five82/wayfarer/internal/enrich"
)

// Messages

// lookupMsg carries the result of a geocode or image lookup for a freshly
// added destination.
type lookupMsg struct {
	id     string
	coords *destination.Coordinates
	image  string
	err    error
}

type weatherMsg struct {
	id   string
	cond enrich.Conditions
	err  error
}

// Commands

func geocodeCmd(ctx context.Context, lookup enrich.Lookup, d destination.Destination) tea.Cmd {
	return func() tea.Msg {
		coords, err := lookup.Geocode(ctx, d.Label())
		if err != nil {
			return lookupMsg{id: d.ID, err: err}
		}
		return lookupMsg{id: d.ID, coords: &coords}
	}
}

func imageCmd(ctx context.Context, lookup enrich.Lookup, d destination.Destination) tea.Cmd {
	return func() tea.Msg {
		url, err := lookup.Image(ctx, d.City+" "+d.Country)
		if err != nil {
			return lookupMsg{id: d.ID, err: err}
		}
		return lookupMsg{id: d.ID, image: url}
	}
}

func weatherCmd(ctx context.Context, lookup enrich.Lookup, id string, at destination.Coordinates) tea.Cmd {
	return func() tea.Msg {
		cond, err := lookup.Weather(ctx, at)
		return weatherMsg{id: id, cond: cond, err: err}
	}
}

// enrichCmds starts the lookups a new destination still needs.
func enrichCmds(ctx context.Context, lookup enrich.Lookup, d destination.Destination) []tea.Cmd {
	if lookup == nil {
		return nil
	}
	var cmds []tea.Cmd
	if !d.Located() {
		cmds = append(cmds, geocodeCmd(ctx, lookup, d))
	}
	if strings.TrimSpace(d.ImageURL) == "" {
		cmds = append(cmds, imageCmd(ctx, lookup, d))
	}
	return cmds
}

// fillPatch builds an update from a lookup result that only touches fields the
// destination still lacks. The user may have edited the entry while the
// lookup was in flight; those edits win.
func fillPatch(current destination.Destination, msg lookupMsg) (destination.Patch, bool) {
	var p destination.Patch
	if msg.coords != nil && !current.Located() && msg.coords.Valid() {
		c := *msg.coords
		p.Coordinates = &c
	}
	if msg.image != "" && strings.TrimSpace(current.ImageURL) == "" {
		img := msg.image
		p.ImageURL = &img
	}
	return p, !p.Empty()
}
