package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/wayfarer/internal/destination"
	"github.com/five82/wayfarer/internal/storage"
)

// ErrNotReady is returned by mutations issued before the initial load has
// finished.
var ErrNotReady = errors.New("store is still loading")

// ErrPersistence marks a failed snapshot write. The in-memory change it
// accompanies has already been applied.
var ErrPersistence = errors.New("persist snapshot")

// ErrReadOnly is returned by mutations when the initial load failed for a
// reason other than a corrupt snapshot. The stored data is left untouched.
var ErrReadOnly = errors.New("saved destinations could not be read, changes disabled")

// Persister reads and writes the full destination collection.
// *storage.Snapshots implements it.
type Persister interface {
	Load(ctx context.Context) ([]destination.Destination, error)
	Save(ctx context.Context, items []destination.Destination) error
}

// Snapshot is a point-in-time copy of the store for rendering.
type Snapshot struct {
	Destinations []destination.Destination
	Stats        destination.Stats
	Loading      bool
	LastError    error
	LastSaved    time.Time
}

// Store owns the destination collection. All reads return copies and all
// writes go through the mutation methods, each of which persists the whole
// collection before returning.
type Store struct {
	persist Persister
	log     *slog.Logger
	now     func() time.Time
	newID   func() string

	mu        sync.RWMutex
	items     []destination.Destination
	loading   bool
	readErr   error
	lastErr   error
	lastSaved time.Time

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and save failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source used for dateAdded.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how new ids are drawn. The store still rejects
// collisions by drawing again.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New returns a store in the loading state. Call Load or LoadAsync before
// mutating it.
func New(persist Persister, opts ...Option) *Store {
	s := &Store{
		persist: persist,
		log:     slog.Default(),
		now:     time.Now,
		newID:   newUUID,
		items:   []destination.Destination{},
		loading: true,
		subs:    make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Load seeds the collection from the persister. The store is ready
// afterwards whatever the outcome; the returned error is for reporting.
//
// A corrupt snapshot is logged and the store starts empty, so the next save
// replaces it. Any other read error also leaves the store empty but makes it
// read-only: mutations return ErrReadOnly and nothing is written.
//
// Records with an empty or repeated id get a fresh one and the repaired
// collection is saved straight away.
func (s *Store) Load(ctx context.Context) error {
	items, err := s.persist.Load(ctx)

	s.mu.Lock()
	var saveErr error
	switch {
	case err == nil:
		s.items = destination.CloneAll(items)
		s.lastErr = nil
		if n := s.reassignIDsLocked(); n > 0 {
			saveErr = s.saveLocked(ctx)
		}
		s.log.Info("destinations loaded", "count", len(items))
	case errors.Is(err, storage.ErrCorruptSnapshot):
		s.log.Warn("destination snapshot unreadable, starting empty", "error", err)
		s.items = []destination.Destination{}
		s.lastErr = err
	default:
		s.log.Error("destination snapshot read failed, changes disabled", "error", err)
		s.items = []destination.Destination{}
		s.readErr = fmt.Errorf("%w: %w", ErrReadOnly, err)
		s.lastErr = s.readErr
	}
	s.loading = false
	s.mu.Unlock()

	s.notify()
	if err != nil {
		return fmt.Errorf("load destinations: %w", err)
	}
	return saveErr
}

// reassignIDsLocked gives every record whose id is empty or already taken by
// an earlier record a fresh id. It returns how many ids changed.
func (s *Store) reassignIDsLocked() int {
	taken := make(map[string]bool, len(s.items))
	for _, d := range s.items {
		taken[d.ID] = true
	}
	seen := make(map[string]bool, len(s.items))
	changed := 0
	for i := range s.items {
		id := s.items[i].ID
		if id != "" && !seen[id] {
			seen[id] = true
			continue
		}
		fresh := s.newID()
		for fresh == "" || taken[fresh] {
			fresh = s.newID()
		}
		taken[fresh] = true
		seen[fresh] = true
		s.log.Warn("destination id reassigned", "old_id", id, "id", fresh, "city", s.items[i].City)
		s.items[i].ID = fresh
		changed++
	}
	return changed
}

// LoadAsync runs Load on a goroutine. The returned channel receives Load's
// result and is then closed.
func (s *Store) LoadAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.Load(ctx)
	}()
	return done
}

// Loading reports whether the initial load is still in flight. Until it
// finishes the collection is provisional.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Add validates in, assigns id and dateAdded, appends the new destination and
// persists. A persistence failure returns the created destination together
// with an error wrapping ErrPersistence.
func (s *Store) Add(ctx context.Context, in destination.Input) (destination.Destination, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return destination.Destination{}, err
	}

	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return destination.Destination{}, err
	}
	d := destination.Destination{
		ID:          s.uniqueIDLocked(),
		Country:     in.Country,
		City:        in.City,
		Description: in.Description,
		WhyVisit:    in.WhyVisit,
		Tags:        in.Tags,
		Lat:         in.Lat,
		Lng:         in.Lng,
		ImageURL:    in.ImageURL,
		Visited:     false,
		DateAdded:   s.now().UTC(),
	}
	s.items = append(s.items, d)
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	s.notify()
	return d.Clone(), err
}

// ToggleVisited flips the visited flag of the destination with id.
func (s *Store) ToggleVisited(ctx context.Context, id string) (destination.Destination, error) {
	d, _, err := s.mutate(ctx, id, func(d destination.Destination) (destination.Destination, bool, error) {
		d.Visited = !d.Visited
		return d, true, nil
	})
	return d, err
}

// Update merges patch into the destination with id. id, dateAdded and visited
// cannot be changed this way. Concurrent updates are last-write-wins.
func (s *Store) Update(ctx context.Context, id string, patch destination.Patch) (destination.Destination, error) {
	if err := patch.Validate(); err != nil {
		return destination.Destination{}, err
	}
	d, _, err := s.mutate(ctx, id, func(d destination.Destination) (destination.Destination, bool, error) {
		return patch.Apply(d), true, nil
	})
	return d, err
}

// UpdateWith builds a patch from the current destination with id and applies
// it under the same lock, so nothing can change in between. When fn returns
// false the destination is left alone, nothing is saved and changed is false.
func (s *Store) UpdateWith(ctx context.Context, id string, fn func(destination.Destination) (destination.Patch, bool)) (d destination.Destination, changed bool, err error) {
	return s.mutate(ctx, id, func(cur destination.Destination) (destination.Destination, bool, error) {
		patch, ok := fn(cur.Clone())
		if !ok {
			return cur, false, nil
		}
		if err := patch.Validate(); err != nil {
			return cur, false, err
		}
		return patch.Apply(cur), true, nil
	})
}

// Delete removes the destination with id permanently.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete %q: %w", id, destination.ErrNotFound)
	}
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	s.notify()
	return err
}

func (s *Store) mutate(ctx context.Context, id string, fn func(destination.Destination) (destination.Destination, bool, error)) (destination.Destination, bool, error) {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return destination.Destination{}, false, err
	}
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return destination.Destination{}, false, fmt.Errorf("%q: %w", id, destination.ErrNotFound)
	}

	orig := s.items[idx]
	next, changed, err := fn(orig.Clone())
	if err != nil {
		s.mu.Unlock()
		return destination.Destination{}, false, err
	}
	if !changed {
		s.mu.Unlock()
		return orig.Clone(), false, nil
	}
	next.ID = orig.ID
	next.DateAdded = orig.DateAdded
	s.items[idx] = next
	err = s.saveLocked(ctx)
	s.mu.Unlock()

	s.notify()
	return next.Clone(), true, err
}

// writableLocked reports why the store cannot be mutated, if it cannot. The
// caller holds s.mu.
func (s *Store) writableLocked() error {
	switch {
	case s.loading:
		return ErrNotReady
	case s.readErr != nil:
		return s.readErr
	}
	return nil
}

// saveLocked writes the current collection. The caller holds s.mu.
func (s *Store) saveLocked(ctx context.Context) error {
	if err := s.persist.Save(ctx, s.items); err != nil {
		s.log.Error("destination snapshot write failed", "error", err, "count", len(s.items))
		s.lastErr = fmt.Errorf("%w: %w", ErrPersistence, err)
		return s.lastErr
	}
	s.lastErr = nil
	s.lastSaved = s.now()
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueIDLocked() string {
	for {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id
		}
	}
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []destination.Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return destination.CloneAll(s.items)
}

// Get returns a copy of the destination with id.
func (s *Store) Get(id string) (destination.Destination, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return destination.Destination{}, false
	}
	return s.items[idx].Clone(), true
}

// Stats recomputes progress statistics from the current collection.
func (s *Store) Stats() destination.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return destination.ComputeStats(s.items)
}

// UniqueCountryCount counts distinct countries in the collection.
func (s *Store) UniqueCountryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return destination.UniqueCountryCount(s.items)
}

// Snapshot returns a consistent copy of everything the UI renders.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Destinations: destination.CloneAll(s.items),
		Stats:        destination.ComputeStats(s.items),
		Loading:      s.loading,
		LastSaved:    s.lastSaved,
	}
	if s.lastErr != nil {
		snap.LastError = fmt.Errorf("%w", s.lastErr)
	}
	return snap
}
