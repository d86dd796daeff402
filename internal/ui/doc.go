// Package ui implements wayfarer's terminal interface with Bubble Tea.
//
// The Model renders a snapshot of the destination store and never mutates
// it directly: every change runs as a tea.Cmd that calls the store and reports
// back with a mutationMsg. Re-rendering is push-based; the model subscribes to
// the store and refetches its snapshot whenever a change is signalled.
//
// # Views
//
//   - list: insertion-ordered destinations with a visited/planned filter
//   - detail: every field plus weather and local time for located entries
//   - form: add and edit, with per-field validation messages
//   - logs: the tail of wayfarer's own JSON log (L), read via logtail
//
// A help overlay (h or ?) lists every key binding.
//
// # Lookups
//
// When Options.Lookup is set, a newly added destination is geocoded (if it
// has no coordinates) and given an image (if it has none). Results only fill
// fields that are still empty when they arrive, so user edits made in the
// meantime are kept. Lookup failures are logged at debug level and otherwise
// ignored.
package ui
