package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alanyoungcy/relicbot/internal/domain"
)

func writeSnapshot(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestIsStale(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	now := time.Now().Unix()
	writeSnapshot(t, dir, "empty", "")
	writeSnapshot(t, dir, "fresh", `{"timestamp":`+strconv.FormatInt(now, 10)+`}`)
	writeSnapshot(t, dir, "expired", `{"timestamp":`+strconv.FormatInt(now-90000, 10)+`}`)
	writeSnapshot(t, dir, "unstamped", `{"relics":{}}`)
	writeSnapshot(t, dir, "garbage", `{{{`)

	tests := []struct {
		name   string
		file   string
		maxAge time.Duration
		want   bool
	}{
		{name: "absent file", file: "missing", maxAge: 0, want: true},
		{name: "empty file", file: "empty", maxAge: 0, want: true},
		{name: "present with no age check", file: "unstamped", maxAge: 0, want: false},
		{name: "fresh timestamp", file: "fresh", maxAge: 24 * time.Hour, want: false},
		{name: "expired timestamp", file: "expired", maxAge: 24 * time.Hour, want: true},
		{name: "age check without timestamp", file: "unstamped", maxAge: 24 * time.Hour, want: true},
		{name: "age check on bad json", file: "garbage", maxAge: 24 * time.Hour, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.IsStale(tt.file, tt.maxAge); got != tt.want {
				t.Errorf("IsStale(%q, %v) = %v, want %v", tt.file, tt.maxAge, got, tt.want)
			}
		})
	}
}

func TestLoadSentinels(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	writeSnapshot(t, dir, "empty", "")
	writeSnapshot(t, dir, "broken", `{"relics":`)

	var v map[string]any
	if err := s.Load("missing", &v); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrSnapshotNotFound", err)
	}
	if err := s.Load("empty", &v); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("Load(empty) error = %v, want ErrSnapshotNotFound", err)
	}
	if err := s.Load("broken", &v); !errors.Is(err, domain.ErrSnapshotMalformed) {
		t.Errorf("Load(broken) error = %v, want ErrSnapshotMalformed", err)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := New(dir)

	in := domain.RelicsSnapshot{
		Relics: map[string]*domain.Relic{
			"Lith G1 Intact": {
				Tier:     "Lith",
				BaseName: "G1",
				State:    domain.StateIntact,
				Name:     "Lith G1 Intact",
				Slug:     "lith_g1_relic",
				Rewards: []domain.Reward{
					{ItemName: "Forma Blueprint", Rarity: "Common", Chance: 25.33},
				},
			},
		},
		Timestamp: 1700000000,
	}
	if err := s.Save(Relics, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var out domain.RelicsSnapshot
	if err := s.Load(Relics, &out); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("roundtrip = %+v, want %+v", out, in)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := s.Save(Orders, map[string]int{"a": 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := s.Save(Items, []string{"first"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(Items, []string{"second"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var out []string
	if err := s.Load(Items, &out); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(out) != 1 || out[0] != "second" {
		t.Errorf("Load() = %v, want [second]", out)
	}
}
