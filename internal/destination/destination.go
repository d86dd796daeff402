// Package destination defines the bucket-list data model shared by the store,
// the persistence layer and the UI.
package destination

import (
	"math"
	"strings"
	"time"
)

// Destination is one place the user wants to visit or has visited.
// JSON field names are part of the persisted snapshot format.
type Destination struct {
	ID          string    `json:"id"`
	Country     string    `json:"country"`
	City        string    `json:"city"`
	Description string    `json:"description"`
	WhyVisit    string    `json:"whyVisit"`
	Tags        []string  `json:"tags"`
	Lat         *float64  `json:"lat"`
	Lng         *float64  `json:"lng"`
	ImageURL    string    `json:"imageUrl"`
	Visited     bool      `json:"visited"`
	DateAdded   time.Time `json:"dateAdded"`
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Valid reports whether both halves are finite and inside their ranges.
func (c Coordinates) Valid() bool {
	return validLat(c.Lat) && validLng(c.Lng)
}

// Coordinates returns the destination's position and whether it can be placed
// on a map. Both halves must be present and valid.
func (d Destination) Coordinates() (Coordinates, bool) {
	if d.Lat == nil || d.Lng == nil {
		return Coordinates{}, false
	}
	c := Coordinates{Lat: *d.Lat, Lng: *d.Lng}
	if !c.Valid() {
		return Coordinates{}, false
	}
	return c, true
}

// Located reports whether the destination is eligible for map placement.
func (d Destination) Located() bool {
	_, ok := d.Coordinates()
	return ok
}

// Label returns "City, Country" for display and lookups.
func (d Destination) Label() string {
	return strings.TrimSpace(strings.Join(nonEmpty(d.City, d.Country), ", "))
}

// Clone returns a deep copy so callers cannot reach the store's slices or
// coordinate pointers.
func (d Destination) Clone() Destination {
	dup := d
	if d.Tags != nil {
		dup.Tags = make([]string, len(d.Tags))
		copy(dup.Tags, d.Tags)
	}
	dup.Lat = cloneFloat(d.Lat)
	dup.Lng = cloneFloat(d.Lng)
	return dup
}

// CloneAll deep-copies a collection, preserving order.
func CloneAll(items []Destination) []Destination {
	if len(items) == 0 {
		return []Destination{}
	}
	dup := make([]Destination, len(items))
	for i, item := range items {
		dup[i] = item.Clone()
	}
	return dup
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

func validLat(v float64) bool {
	return !math.IsNaN(v) && v >= -90 && v <= 90
}

func validLng(v float64) bool {
	return !math.IsNaN(v) && v >= -180 && v <= 180
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
