// Package contract provides interfaces and shared utilities for pkgpulse's
// internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/pkgpulse/schema"
)

// CountSource fetches one daily snapshot of leaf-level cumulative totals.
// Retries, pagination and rate limiting live behind this interface; the
// rollup engine sees a completed mapping. A source may omit leaf keys it
// failed to retrieve after its own retry policy, and must never return
// negative totals (the engine clamps them to zero regardless).
type CountSource interface {
	Fetch(ctx context.Context, asOf schema.Date) (schema.Snapshot, error)
}

// RecordStore persists one LevelRecord per hierarchy key.
// Load returns an empty record, not an error, when the key has never been
// written. Save overwrites atomically, creating parent storage locations as
// needed.
type RecordStore interface {
	Load(key schema.Key) (*schema.LevelRecord, error)
	Save(key schema.Key, rec *schema.LevelRecord) error
	Keys() ([]schema.Key, error)
	Status() (schema.StoreStatus, error)
	Close() error
}
