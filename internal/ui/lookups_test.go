package ui

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/five82/wayfarer/internal/destination"
	"github.com/five82/wayfarer/internal/enrich"
)

type fakeLookup struct {
	mu      sync.Mutex
	coords  destination.Coordinates
	image   string
	weather enrich.Conditions
	err     error
	queries []string
}

func (f *fakeLookup) Geocode(_ context.Context, query string) (destination.Coordinates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, "geocode:"+query)
	return f.coords, f.err
}

func (f *fakeLookup) Weather(_ context.Context, at destination.Coordinates) (enrich.Conditions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, "weather")
	return f.weather, f.err
}

func (f *fakeLookup) Image(_ context.Context, query string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, "image:"+query)
	return f.image, f.err
}

func TestFillPatch_OnlyFillsEmptyFields(t *testing.T) {
	lat, lng := 1.0, 2.0
	coords := destination.Coordinates{Lat: 35, Lng: 135}

	empty := destination.Destination{ID: "x", Country: "Japan", City: "Kyoto"}
	p, ok := fillPatch(empty, lookupMsg{id: "x", coords: &coords})
	if !ok || p.Coordinates == nil || p.Coordinates.Lat != 35 {
		t.Fatalf("fillPatch on empty coords = %+v ok=%v, want coordinates", p, ok)
	}

	located := destination.Destination{ID: "x", Lat: &lat, Lng: &lng}
	if _, ok := fillPatch(located, lookupMsg{id: "x", coords: &coords}); ok {
		t.Fatalf("fillPatch must not overwrite user coordinates")
	}

	withImage := destination.Destination{ID: "x", ImageURL: "mine.jpg"}
	if _, ok := fillPatch(withImage, lookupMsg{id: "x", image: "theirs.jpg"}); ok {
		t.Fatalf("fillPatch must not overwrite user image")
	}

	p, ok = fillPatch(empty, lookupMsg{id: "x", image: "theirs.jpg"})
	if !ok || p.ImageURL == nil || *p.ImageURL != "theirs.jpg" || p.Coordinates != nil {
		t.Fatalf("fillPatch image = %+v ok=%v, want only image", p, ok)
	}

	bad := destination.Coordinates{Lat: 200}
	if _, ok := fillPatch(empty, lookupMsg{id: "x", coords: &bad}); ok {
		t.Fatalf("fillPatch accepted out-of-range coordinates")
	}
}

func TestEnrichCmds(t *testing.T) {
	d := destination.Destination{ID: "x", Country: "Japan", City: "Kyoto"}
	if cmds := enrichCmds(context.Background(), nil, d); cmds != nil {
		t.Fatalf("enrichCmds without lookup = %d cmds, want none", len(cmds))
	}

	lookup := &fakeLookup{coords: destination.Coordinates{Lat: 35, Lng: 135}, image: "img"}
	cmds := enrichCmds(context.Background(), lookup, d)
	if len(cmds) != 2 {
		t.Fatalf("enrichCmds = %d cmds, want geocode and image", len(cmds))
	}
	for _, cmd := range cmds {
		msg, ok := cmd().(lookupMsg)
		if !ok || msg.id != "x" || msg.err != nil {
			t.Fatalf("lookup cmd returned %#v", msg)
		}
	}
	if lookup.queries[0] != "geocode:Kyoto, Japan" || lookup.queries[1] != "image:Kyoto Japan" {
		t.Fatalf("queries = %v", lookup.queries)
	}

	lat, lng := 1.0, 2.0
	complete := destination.Destination{ID: "y", Lat: &lat, Lng: &lng, ImageURL: "set"}
	if cmds := enrichCmds(context.Background(), lookup, complete); len(cmds) != 0 {
		t.Fatalf("enrichCmds for complete destination = %d cmds, want none", len(cmds))
	}
}

func TestLookupCmds_PropagateErrors(t *testing.T) {
	lookup := &fakeLookup{err: enrich.ErrUnavailable}
	d := destination.Destination{ID: "x", Country: "Japan", City: "Kyoto"}

	msg := geocodeCmd(context.Background(), lookup, d)().(lookupMsg)
	if !errors.Is(msg.err, enrich.ErrUnavailable) || msg.coords != nil {
		t.Fatalf("geocode msg = %#v, want ErrUnavailable", msg)
	}
	w := weatherCmd(context.Background(), lookup, "x", destination.Coordinates{})().(weatherMsg)
	if !errors.Is(w.err, enrich.ErrUnavailable) {
		t.Fatalf("weather msg = %#v, want ErrUnavailable", w)
	}
}
