// Package app is wayfarer's composition root.
//
// # Startup
//
// Run performs these steps, in order:
//
//  1. Load configuration (TOML file, .env, environment, then flag overrides)
//  2. Open the JSON log file under the data directory
//  3. Build the enrichment client unless [enrich] enabled = false
//  4. Open the storage backend (file or sqlite)
//  5. Create the destination store and start its initial load on a goroutine
//  6. Read UI preferences from the same backend
//  7. Start the terminal UI and block until the user quits or ctx is cancelled
//
// The UI starts while the store is still loading and shows a spinner until
// the store signals that it is ready. A corrupt snapshot does not stop
// startup: the store starts empty and the header shows a warning.
//
// # Shutdown
//
// Resources are released in reverse order once the UI exits. Close waits for
// the initial load so the backend is never closed underneath it.
package app
