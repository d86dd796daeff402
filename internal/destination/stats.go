package destination

import "math"

// Stats is the progress summary derived from a collection. It is never
// stored; callers recompute it from the current list.
type Stats struct {
	Total           int
	Visited         int
	Percentage      int
	UniqueCountries int
}

// ComputeStats derives Stats from items.
func ComputeStats(items []Destination) Stats {
	s := Stats{Total: len(items)}
	for _, item := range items {
		if item.Visited {
			s.Visited++
		}
	}
	if s.Total > 0 {
		s.Percentage = int(math.Round(float64(s.Visited) / float64(s.Total) * 100))
	}
	s.UniqueCountries = UniqueCountryCount(items)
	return s
}

// UniqueCountryCount counts distinct country values. Comparison is
// case-sensitive, so "France" and "france" count twice.
func UniqueCountryCount(items []Destination) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.Country] = struct{}{}
	}
	return len(seen)
}
