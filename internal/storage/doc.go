// Package storage persists Wayfarer data on the local machine.
//
// # Overview
//
// Everything the application keeps between runs goes through the small KV
// interface: a key maps to one opaque value that is always replaced whole.
// Two backends implement it:
//
//   - FileKV: one JSON file per key under the data directory
//   - SQLiteKV: a single kv table in <data_dir>/wayfarer.db (modernc.org/sqlite)
//
// Open picks a backend from the "storage" config value.
//
// # Snapshots
//
// Snapshots is the codec for the destination collection. The whole list is
// encoded as a JSON array of destination records and written under the fixed
// key "travelBucketList":
//
//	[
//	  {
//	    "id": "0192f6c4-...",
//	    "country": "Japan",
//	    "city": "Kyoto",
//	    "description": "",
//	    "whyVisit": "Temples in autumn",
//	    "tags": ["temples", "food"],
//	    "lat": 35.0116,
//	    "lng": 135.7681,
//	    "imageUrl": "https://images.unsplash.com/...",
//	    "visited": false,
//	    "dateAdded": "2026-10-17T09:30:00.123Z"
//	  }
//	]
//
// There is no version field; readers ignore unknown fields, so additions stay
// backward compatible.
//
// # Load Semantics
//
//	Key absent       → empty collection, nil error
//	Valid JSON array → decoded collection
//	Anything else    → error wrapping ErrCorruptSnapshot
//
// The store decides what to do with a corrupt snapshot (it starts empty and
// reports the problem); this package only classifies it.
//
// # Durability
//
// FileKV writes to a temp file in the target directory, fsyncs it and renames
// it over the old file. A crash between mutation and write can lose the last
// change but never leaves a half-written snapshot. SQLiteKV relies on SQLite's
// journal for the same guarantee.
package storage
