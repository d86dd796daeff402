// Package logtail reads the tail of wayfarer's JSON log for the in-app log
// view.
//
// # Reading Log Files
//
// Read returns the last N lines of a file using a ring buffer of size N, so
// memory stays O(N) regardless of file size and lines come back in
// chronological order. A missing file is not an error; it simply has no
// lines yet.
//
//	lines, err := logtail.Read(cfg.LogPath(), 200)
//
// # Decoding Records
//
// Tail combines Read with Parse, which decodes one log/slog JSON record into
// an Entry (time, level, message, remaining attributes). Lines that are not
// JSON objects, such as a panic trace appended by the runtime, are kept
// verbatim in Entry.Raw.
//
// Entry.String renders a compact single line:
//
//	12:30:45 WARN  destination snapshot unreadable, starting empty error="corrupt snapshot: ..."
//
// Attributes are sorted by key so repeated renders are stable.
package logtail
