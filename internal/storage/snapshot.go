package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/five82/wayfarer/internal/destination"
)

// SnapshotKey is the fixed key the destination collection lives under.
const SnapshotKey = "travelBucketList"

// ErrCorruptSnapshot reports a stored snapshot that exists but cannot be
// decoded. It is distinct from an absent snapshot.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Snapshots serialises the whole destination collection under one key.
type Snapshots struct {
	kv  KV
	key string
}

// NewSnapshots returns a snapshot codec over kv using SnapshotKey.
func NewSnapshots(kv KV) *Snapshots {
	return &Snapshots{kv: kv, key: SnapshotKey}
}

// Save replaces the stored snapshot with items.
func (s *Snapshots) Save(ctx context.Context, items []destination.Destination) error {
	if items == nil {
		items = []destination.Destination{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the stored collection. An absent key yields an empty
// collection and a nil error; undecodable data wraps ErrCorruptSnapshot.
func (s *Snapshots) Load(ctx context.Context) ([]destination.Destination, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return []destination.Destination{}, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrCorruptSnapshot)
	}

	var items []destination.Destination
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if items == nil {
		items = []destination.Destination{}
	}
	return items, nil
}
