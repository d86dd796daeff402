package destination

import (
	"strings"
)

// Field names used in ValidationError.Field.
const (
	FieldCountry = "country"
	FieldCity    = "city"
	FieldLat     = "lat"
	FieldLng     = "lng"
)

// Input carries the user-editable fields of a new destination. The store
// assigns id, dateAdded and visited itself.
type Input struct {
	Country     string
	City        string
	Description string
	WhyVisit    string
	Tags        []string
	Lat         *float64
	Lng         *float64
	ImageURL    string
}

// Normalize trims free-text fields and cleans the tag list.
func (in Input) Normalize() Input {
	in.Country = strings.TrimSpace(in.Country)
	in.City = strings.TrimSpace(in.City)
	in.Description = strings.TrimSpace(in.Description)
	in.WhyVisit = strings.TrimSpace(in.WhyVisit)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Tags = NormalizeTags(in.Tags)
	in.Lat = cloneFloat(in.Lat)
	in.Lng = cloneFloat(in.Lng)
	return in
}

// Validate enforces the required fields and coordinate ranges.
//   - Country and City must be non-empty after trimming.
//   - Lat and Lng must be supplied together and lie within range.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Country) == "" {
		return invalid(FieldCountry, "country is required")
	}
	if strings.TrimSpace(in.City) == "" {
		return invalid(FieldCity, "city is required")
	}
	return validatePair(in.Lat, in.Lng)
}

// Patch is a partial update. A nil field is left untouched. id, dateAdded and
// visited are deliberately absent: they cannot be changed through Update.
type Patch struct {
	Country     *string
	City        *string
	Description *string
	WhyVisit    *string
	Tags        *[]string
	ImageURL    *string

	// Coordinates replaces both halves. ClearCoordinates removes them and
	// wins over Coordinates when both are set.
	Coordinates      *Coordinates
	ClearCoordinates bool
}

// Empty reports whether the patch carries no changes.
func (p Patch) Empty() bool {
	return p.Country == nil && p.City == nil && p.Description == nil &&
		p.WhyVisit == nil && p.Tags == nil && p.ImageURL == nil &&
		p.Coordinates == nil && !p.ClearCoordinates
}

// Validate checks only the fields the patch carries.
func (p Patch) Validate() error {
	if p.Country != nil && strings.TrimSpace(*p.Country) == "" {
		return invalid(FieldCountry, "country is required")
	}
	if p.City != nil && strings.TrimSpace(*p.City) == "" {
		return invalid(FieldCity, "city is required")
	}
	if p.Coordinates != nil && !p.ClearCoordinates {
		lat, lng := p.Coordinates.Lat, p.Coordinates.Lng
		return validatePair(&lat, &lng)
	}
	return nil
}

// Apply merges the patch into d and returns the result. The caller validates
// first; Apply never fails.
func (p Patch) Apply(d Destination) Destination {
	out := d.Clone()
	if p.Country != nil {
		out.Country = strings.TrimSpace(*p.Country)
	}
	if p.City != nil {
		out.City = strings.TrimSpace(*p.City)
	}
	if p.Description != nil {
		out.Description = strings.TrimSpace(*p.Description)
	}
	if p.WhyVisit != nil {
		out.WhyVisit = strings.TrimSpace(*p.WhyVisit)
	}
	if p.Tags != nil {
		out.Tags = NormalizeTags(*p.Tags)
	}
	if p.ImageURL != nil {
		out.ImageURL = strings.TrimSpace(*p.ImageURL)
	}
	switch {
	case p.ClearCoordinates:
		out.Lat, out.Lng = nil, nil
	case p.Coordinates != nil:
		lat, lng := p.Coordinates.Lat, p.Coordinates.Lng
		out.Lat, out.Lng = &lat, &lng
	}
	return out
}

func validatePair(lat, lng *float64) error {
	switch {
	case lat == nil && lng == nil:
		return nil
	case lat == nil:
		return invalid(FieldLat, "latitude is required when longitude is set")
	case lng == nil:
		return invalid(FieldLng, "longitude is required when latitude is set")
	}
	if !validLat(*lat) {
		return invalid(FieldLat, "latitude must be between -90 and 90")
	}
	if !validLng(*lng) {
		return invalid(FieldLng, "longitude must be between -180 and 180")
	}
	return nil
}

// NormalizeTags trims each tag and drops empty ones, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ParseTags splits a comma-separated tag list as typed into a form.
func ParseTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}
