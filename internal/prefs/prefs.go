// Package prefs persists wayfarer's UI preferences as TOML under the "prefs"
// key of the same storage backend that holds destinations.
package prefs

import (
	"context"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/wayfarer/internal/storage"
)

// Prefs holds user preferences.
type Prefs struct {
	Theme  string `toml:"theme"`
	Filter string `toml:"filter"`
}

// Key is the storage key preferences live under.
const Key = "prefs"

// List filters.
const (
	FilterAll     = "all"
	FilterPlanned = "planned"
	FilterVisited = "visited"
)

const defaultTheme = "Nightfox"

// Defaults returns the preferences used when nothing valid is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, Filter: FilterAll}
}

// Load reads preferences from kv, falling back to defaults when the value is
// missing, unreadable or malformed.
func Load(ctx context.Context, kv storage.KV) Prefs {
	if kv == nil {
		return Defaults()
	}
	data, err := kv.Get(ctx, Key)
	if err != nil {
		return Defaults()
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults()
	}
	return p.normalized()
}

// Save replaces the stored preferences.
func Save(ctx context.Context, kv storage.KV, p Prefs) error {
	if kv == nil {
		return fmt.Errorf("save prefs: no storage")
	}
	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := kv.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	switch f := strings.ToLower(strings.TrimSpace(p.Filter)); f {
	case FilterAll, FilterPlanned, FilterVisited:
		p.Filter = f
	default:
		p.Filter = FilterAll
	}
	return p
}
