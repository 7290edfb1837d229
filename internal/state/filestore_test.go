package state

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"penaudit/internal/detect"
	"penaudit/internal/tier"
)

func TestFileStoreRoundtrip(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir, nil)

	candidates := []detect.Candidate{
		candidate("screen", "Home", tier.TierStatic),
		candidate("form", "Home::form", tier.TierStandard),
	}
	saved, _, err := Reconcile(nil, candidates, "app.json", t0)
	if err != nil {
		t.Fatal(err)
	}
	saved.Features[candidates[0].ID].Status = StatusImplemented

	if err := fs.Save(saved); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.ScanCount != 1 || loaded.SourceFile != "app.json" {
		t.Errorf("header = %+v", loaded)
	}
	if len(loaded.Features) != 2 {
		t.Fatalf("loaded %d features, want 2", len(loaded.Features))
	}
	if loaded.Features[candidates[0].ID].Status != StatusImplemented {
		t.Error("status lost in roundtrip")
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	fs := NewFileStore(t.TempDir(), nil)

	s, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(s.Features) != 0 || s.ScanCount != 0 {
		t.Errorf("missing file should yield empty state, got %+v", s)
	}
}

func TestFileStoreCorruptFallsBackToBackup(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir, nil)

	good, _, err := Reconcile(nil, []detect.Candidate{candidate("screen", "Home", tier.TierStatic)}, "", t0)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(good); err != nil {
		t.Fatal(err)
	}
	// Second save moves the first state into the compressed backup.
	if err := fs.Save(good); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(fs.Path(), []byte("{truncated"), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Features) != 1 {
		t.Errorf("loaded %d features from backup, want 1", len(loaded.Features))
	}
}

func TestFileStoreCorruptWithoutBackupStartsFresh(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir, nil)

	if err := os.MkdirAll(filepath.Join(dir, StateDir), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fs.Path(), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Features) != 0 {
		t.Error("corrupt state without backup should start fresh")
	}
}

func TestFileStoreSaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir, nil)

	first, _, err := Reconcile(nil, []detect.Candidate{candidate("screen", "Home", tier.TierStatic)}, "", t0)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(first); err != nil {
		t.Fatal(err)
	}
	second, _, err := Reconcile(first, []detect.Candidate{candidate("screen", "Profile", tier.TierStatic)}, "", t0)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(second); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, StateDir))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}

	loaded, err := fs.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids2(loaded), ids2(second)) {
		t.Error("load does not reflect the last save")
	}
}

func ids2(s *State) map[string]bool {
	out := make(map[string]bool, len(s.Features))
	for id := range s.Features {
		out[id] = true
	}
	return out
}
