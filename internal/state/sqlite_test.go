package state

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"penaudit/internal/detect"
	"penaudit/internal/errors"
	"penaudit/internal/tier"
)

func TestSQLiteStoreRoundtrip(t *testing.T) {
	store, err := OpenSQLite(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer store.Close()

	candidates := []detect.Candidate{
		candidate("screen", "Home", tier.TierStatic),
		candidate("crud", "Home::crud", tier.TierStandard),
	}
	saved, _, err := Reconcile(nil, candidates, "app.json", t0)
	if err != nil {
		t.Fatal(err)
	}
	saved.Features[candidates[1].ID].Status = StatusDeferred
	saved.Features[candidates[1].ID].NameOverride = "Home actions"

	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.ScanCount != 1 || loaded.SourceFile != "app.json" || loaded.LastScan != Timestamp(t0) {
		t.Errorf("header = %+v", loaded)
	}
	r := loaded.Get(candidates[1].ID)
	if r == nil {
		t.Fatal("record missing after roundtrip")
	}
	if r.Status != StatusDeferred || r.NameOverride != "Home actions" {
		t.Errorf("record = %+v, resolution fields lost", r)
	}
	if r.Tier != int(tier.TierStandard) || r.Detector != "crud" {
		t.Errorf("record = %+v", r)
	}
}

func TestSQLiteStoreLoadEmpty(t *testing.T) {
	store, err := OpenSQLite(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	s, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(s.Features) != 0 || s.ScanCount != 0 {
		t.Errorf("fresh database should yield empty state, got %+v", s)
	}
}

func TestSQLiteStoreSaveReplacesSnapshot(t *testing.T) {
	store, err := OpenSQLite(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	a := candidate("screen", "Home", tier.TierStatic)
	b := candidate("screen", "Profile", tier.TierStatic)

	first, _, err := Reconcile(nil, []detect.Candidate{a, b}, "", t0)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(first); err != nil {
		t.Fatal(err)
	}

	second, _, err := Reconcile(first, []detect.Candidate{a}, "", t0.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Features) != 1 {
		t.Fatalf("loaded %d features, want dropped feature gone", len(loaded.Features))
	}
	if loaded.Get(b.ID) != nil {
		t.Error("dropped feature still present after save")
	}
}

func TestSQLiteStoreScanHistory(t *testing.T) {
	store, err := OpenSQLite(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	a := candidate("screen", "Home", tier.TierStatic)
	s, _, err := Reconcile(nil, []detect.Candidate{a}, "app.json", t0)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(s); err != nil {
		t.Fatal(err)
	}
	s2, _, err := Reconcile(s, []detect.Candidate{a}, "app.json", t0.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(s2); err != nil {
		t.Fatal(err)
	}

	history, err := store.ScanHistory(10)
	if err != nil {
		t.Fatalf("ScanHistory() error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d scans, want 2", len(history))
	}
	if history[0].RanAt != Timestamp(t0.Add(time.Hour)) {
		t.Errorf("history[0] = %+v, want most recent first", history[0])
	}
	if history[0].ScanID == history[1].ScanID {
		t.Error("scan IDs must be unique")
	}
}

func TestSQLiteStoreHistoryIgnoresResolveSaves(t *testing.T) {
	store, err := OpenSQLite(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	a := candidate("screen", "Home", tier.TierStatic)
	s, _, err := Reconcile(nil, []detect.Candidate{a}, "app.json", t0)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(s); err != nil {
		t.Fatal(err)
	}

	// A resolve re-saves the state without a scan having run; the scan
	// timestamp is unchanged and the history must not grow.
	if _, err := Resolve(s, a.ID, StatusImplemented, t0.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(s); err != nil {
		t.Fatal(err)
	}

	history, err := store.ScanHistory(10)
	if err != nil {
		t.Fatalf("ScanHistory() error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d scans after one scan and one resolve, want 1", len(history))
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Get(a.ID).Status != StatusImplemented {
		t.Error("resolve save lost the status change")
	}
}

func TestSQLiteStoreRejectsUnknownSchema(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenSQLite(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	store.Close()

	conn, err := sql.Open("sqlite", filepath.Join(dir, StateDir, "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`UPDATE schema_info SET version = ?`, schemaVersion+1); err != nil {
		t.Fatal(err)
	}
	conn.Close()

	_, err = OpenSQLite(dir, nil)
	if err == nil {
		t.Fatal("expected error for newer schema version")
	}
	if !errors.HasCode(err, errors.StateCorrupt) {
		t.Errorf("error = %v, want STATE_CORRUPT", err)
	}
}

func TestSQLiteStoreMetaRoundtrip(t *testing.T) {
	store, err := OpenSQLite(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	c := candidate("screen", "Home", tier.TierStatic)
	c.Meta = map[string]interface{}{"platform": "mobile", "width": 390.0}

	s, _, err := Reconcile(nil, []detect.Candidate{c}, "", t0)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(s); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	meta := loaded.Get(c.ID).Meta
	if meta["platform"] != "mobile" || meta["width"] != 390.0 {
		t.Errorf("meta = %v", meta)
	}
}
