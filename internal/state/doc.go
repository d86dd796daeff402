// Package state owns the destination collection for a Wayfarer session.
//
// # Overview
//
// Store is the single source of truth for the bucket list. It is constructed
// explicitly by the app package and handed to the UI; there is no package
// level instance. Every consumer reads copies and every change goes through
// one of the mutations:
//
//   - Add: validate, assign id/dateAdded, append
//   - ToggleVisited: flip the visited flag
//   - Update: merge a typed destination.Patch
//   - UpdateWith: build the patch from the current value under the lock
//   - Delete: remove permanently
//
// Each mutation writes the full collection through the Persister before it
// returns, then notifies subscribers.
//
// # Lifecycle
//
//	New()        → Loading() == true, empty collection, mutations → ErrNotReady
//	LoadAsync()  → goroutine calls Persister.Load
//	   ok        → collection seeded, Loading() == false, subscribers notified
//	               (empty or repeated ids replaced and saved)
//	   corrupt   → warn logged, empty collection, LastError set, notified
//	   other err → error logged, empty collection, read-only, notified
//	mutations    → synchronous, persisted, notified
//
// The initial load is the only asynchronous step. A failed load never stops
// startup; the user sees an empty list and a warning. Only a corrupt snapshot
// may be replaced by later saves. Any other read failure leaves the store
// read-only for the session so the stored data is not overwritten.
//
// # Error Semantics
//
//	destination.ErrValidation  Add/Update input rejected, nothing applied
//	destination.ErrNotFound    ToggleVisited/Update/Delete on an unknown id
//	ErrPersistence             write failed; the in-memory change stands
//	ErrNotReady                mutation before the initial load finished
//	ErrReadOnly                mutation after a non-corrupt read failure
//
// All three id-based mutations report ErrNotFound the same way. The UI
// ignores it so that acting on a stale selection is an invisible no-op.
//
// A failed write keeps the in-memory state authoritative for the rest of the
// session. Snapshot().LastError carries the failure until a later write
// succeeds, which is what the header uses to warn the user.
//
// # Change Notifications
//
//	ch, cancel := store.Subscribe()
//	defer cancel()
//	for range ch {
//		render(store.Snapshot())
//	}
//
// Channels have a buffer of one and sends never block, so bursts of
// mutations collapse into a single wake-up.
//
// # Concurrency
//
// A sync.RWMutex guards the collection. Writers hold it across the snapshot
// write so saves land in mutation order. Enrichment results arrive from
// background lookups and go through UpdateWith, which checks which fields
// are still empty under the same lock as the write. Plain Update calls are
// last-write-wins.
package state
