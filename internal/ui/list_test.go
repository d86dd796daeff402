package ui

import (
	"testing"

	"github.com/five82/wayfarer/internal/destination"
	"github.com/five82/wayfarer/internal/prefs"
	"github.com/five82/wayfarer/internal/state"
)

func sampleItems() []destination.Destination {
	return []destination.Destination{
		{ID: "a", Country: "Japan", City: "Kyoto"},
		{ID: "b", Country: "France", City: "Paris", Visited: true},
		{ID: "c", Country: "Peru", City: "Cusco"},
		{ID: "d", Country: "Italy", City: "Rome", Visited: true},
	}
}

func ids(items []destination.Destination) []string {
	out := make([]string, len(items))
	for i, d := range items {
		out[i] = d.ID
	}
	return out
}

func TestFilterDestinations_KeepsOrder(t *testing.T) {
	cases := []struct {
		filter string
		want   []string
	}{
		{prefs.FilterAll, []string{"a", "b", "c", "d"}},
		{prefs.FilterPlanned, []string{"a", "c"}},
		{prefs.FilterVisited, []string{"b", "d"}},
		{"bogus", []string{"a", "b", "c", "d"}},
	}
	for _, tc := range cases {
		t.Run(tc.filter, func(t *testing.T) {
			got := ids(filterDestinations(sampleItems(), tc.filter))
			if len(got) != len(tc.want) {
				t.Fatalf("filter %q = %v, want %v", tc.filter, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("filter %q = %v, want %v", tc.filter, got, tc.want)
				}
			}
		})
	}
}

func TestNextFilter(t *testing.T) {
	if got := nextFilter(prefs.FilterAll); got != prefs.FilterPlanned {
		t.Fatalf("nextFilter(all) = %q, want planned", got)
	}
	if got := nextFilter(prefs.FilterPlanned); got != prefs.FilterVisited {
		t.Fatalf("nextFilter(planned) = %q, want visited", got)
	}
	if got := nextFilter(prefs.FilterVisited); got != prefs.FilterAll {
		t.Fatalf("nextFilter(visited) = %q, want all", got)
	}
	if got := nextFilter("unknown"); got != prefs.FilterAll {
		t.Fatalf("nextFilter(unknown) = %q, want all", got)
	}
}

func TestReselect_FollowsIDAcrossChanges(t *testing.T) {
	m := Model{filter: prefs.FilterAll, snapshot: state.Snapshot{Destinations: sampleItems()}}
	m.moveSelection(2)
	if m.selectedID != "c" {
		t.Fatalf("selectedID = %q, want c", m.selectedID)
	}

	// Item a removed: c moves up a row but stays selected.
	items := sampleItems()[1:]
	m.snapshot = state.Snapshot{Destinations: items}
	m.reselect()
	if m.selectedRow != 1 || m.selectedID != "c" {
		t.Fatalf("after removal row=%d id=%q, want 1/c", m.selectedRow, m.selectedID)
	}

	// Selected item removed: cursor clamps to the last row.
	m.snapshot = state.Snapshot{Destinations: items[:1]}
	m.reselect()
	if m.selectedRow != 0 || m.selectedID != "b" {
		t.Fatalf("after clamp row=%d id=%q, want 0/b", m.selectedRow, m.selectedID)
	}

	m.snapshot = state.Snapshot{}
	m.reselect()
	if m.selectedRow != 0 || m.selectedID != "" {
		t.Fatalf("empty list row=%d id=%q, want 0/empty", m.selectedRow, m.selectedID)
	}
}

func TestMoveSelection_Clamps(t *testing.T) {
	m := Model{filter: prefs.FilterPlanned, snapshot: state.Snapshot{Destinations: sampleItems()}}
	m.moveSelection(10)
	if m.selectedRow != 1 || m.selectedID != "c" {
		t.Fatalf("row=%d id=%q, want 1/c", m.selectedRow, m.selectedID)
	}
	m.moveSelection(-3)
	if m.selectedRow != 0 || m.selectedID != "a" {
		t.Fatalf("row=%d id=%q, want 0/a", m.selectedRow, m.selectedID)
	}
}

func TestVisibleWindow(t *testing.T) {
	cases := []struct {
		total, selected, rows int
		start, end            int
	}{
		{3, 0, 10, 0, 3},
		{20, 0, 5, 0, 5},
		{20, 10, 5, 8, 13},
		{20, 19, 5, 15, 20},
	}
	for _, tc := range cases {
		start, end := visibleWindow(tc.total, tc.selected, tc.rows)
		if start != tc.start || end != tc.end {
			t.Fatalf("visibleWindow(%d,%d,%d) = %d,%d want %d,%d",
				tc.total, tc.selected, tc.rows, start, end, tc.start, tc.end)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  Kyoto  ", 10); got != "Kyoto" {
		t.Fatalf("truncate = %q, want Kyoto", got)
	}
	if got := truncate("San Francisco", 8); got != "San F..." {
		t.Fatalf("truncate = %q, want San F...", got)
	}
	if got := truncate("abcd", 2); got != "ab" {
		t.Fatalf("truncate limit<=3 = %q, want ab", got)
	}
}

func TestFitHeight(t *testing.T) {
	if got := fitHeight("a\nb\nc", 2); got != "a\nb" {
		t.Fatalf("fitHeight clip = %q", got)
	}
	if got := fitHeight("a", 3); got != "a\n\n" {
		t.Fatalf("fitHeight pad = %q", got)
	}
}

func TestFormatCoordinates(t *testing.T) {
	got := formatCoordinates(destination.Coordinates{Lat: -33.8688, Lng: -70.5})
	if got != "33.8688°S, 70.5000°W" {
		t.Fatalf("formatCoordinates = %q", got)
	}
}
