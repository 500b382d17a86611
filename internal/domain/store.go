package domain

import "time"

// SnapshotStore persists named JSON snapshots. Absence is a valid state:
// IsStale never errors, and Load reports absence and corruption through
// ErrSnapshotNotFound and ErrSnapshotMalformed, both of which callers treat
// as "regenerate", never as fatal.
type SnapshotStore interface {
	// IsStale reports whether the named snapshot is absent, empty, or, when
	// maxAge is positive, older than maxAge per its embedded timestamp.
	IsStale(name string, maxAge time.Duration) bool
	// Load decodes the named snapshot into v.
	Load(name string, v any) error
	// Save overwrites the named snapshot atomically enough that a concurrent
	// reader never observes a half-written file.
	Save(name string, v any) error
}
