// Package snapshot persists named JSON snapshots as flat files on disk. One
// file per named resource; absence and emptiness are valid states meaning
// "regenerate", never errors.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/alanyoungcy/relicbot/internal/domain"
)

// Snapshot names. Each maps to "<dir>/<name>.json".
const (
	Relics        = "relics"
	Items         = "items"
	Orders        = "orders"
	Statistics    = "statistics"
	ValueRanking  = "value_ranking"
	ProfitRanking = "profit_ranking"
)

// Store implements domain.SnapshotStore on a flat directory of JSON files.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created lazily on the
// first Save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// IsStale reports whether the named snapshot must be regenerated: it is
// absent, empty, or, when maxAge is positive, carries an embedded epoch
// "timestamp" older than maxAge. A positive maxAge with a missing or
// unreadable timestamp also counts as stale. IsStale never errors.
func (s *Store) IsStale(name string, maxAge time.Duration) bool {
	raw, err := os.ReadFile(s.path(name))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return true
	}
	if maxAge <= 0 {
		return false
	}

	var stamped struct {
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &stamped); err != nil || stamped.Timestamp == 0 {
		return true
	}
	return time.Unix(stamped.Timestamp, 0).Add(maxAge).Before(time.Now())
}

// Load decodes the named snapshot into v. It returns
// domain.ErrSnapshotNotFound when the file is absent or empty and
// domain.ErrSnapshotMalformed when it is not valid JSON for v.
func (s *Store) Load(name string, v any) error {
	raw, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("snapshot: load %s: %w", name, domain.ErrSnapshotNotFound)
	}
	if err != nil {
		return fmt.Errorf("snapshot: load %s: %w", name, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("snapshot: load %s: %w", name, domain.ErrSnapshotNotFound)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("snapshot: load %s: %w: %v", name, domain.ErrSnapshotMalformed, err)
	}
	return nil
}

// Save writes v as the named snapshot. The write goes to a temp file in the
// same directory followed by a rename, so a concurrent reader sees either
// the old or the new content, never a torn file.
func (s *Store) Save(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", name, err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("snapshot: save %s: encode: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: save %s: %w", name, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: save %s: write: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: save %s: close: %w", name, err)
	}
	if err := os.Rename(tmpPath, s.path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: save %s: rename: %w", name, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.SnapshotStore = (*Store)(nil)
