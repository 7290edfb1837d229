package scan

import (
	"context"
	"fmt"
	"testing"

	"penaudit/internal/detect"
	"penaudit/internal/pen"
	"penaudit/internal/state"
	"penaudit/internal/tier"
)

// settingsExport is a minimal mobile settings screen: a labeled text input,
// a toggle, and a save button.
const settingsExport = `{
  "id": "root",
  "type": "frame",
  "name": "App",
  "width": 2000,
  "height": 2000,
  "children": [
    {
      "id": "settings",
      "type": "frame",
      "name": "Settings",
      "width": 390,
      "height": 844,
      "children": [
        {"id": "lbl", "type": "text", "content": "Name"},
        {"id": "email", "type": "frame", "name": "Email", "width": 320, "height": 44},
        {"id": "tog", "type": "frame", "name": "Notifications Toggle", "width": 48, "height": 28},
        {"id": "save", "type": "frame", "name": "Save Button", "width": 320, "height": 48}
      ]
    }
  ]
}`

func parseExport(t *testing.T, data string) *pen.Document {
	t.Helper()
	doc, err := pen.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	doc.SourceFile = "app.json"
	return doc
}

func newEngine(t *testing.T) (*Engine, state.Store) {
	t.Helper()
	store := state.NewFileStore(t.TempDir(), nil)
	pipeline := detect.NewPipeline(detect.DefaultDetectors(nil), nil, false)
	return NewEngine(store, pipeline, nil), store
}

func TestScanSettingsScreen(t *testing.T) {
	engine, _ := newEngine(t)
	doc := parseExport(t, settingsExport)

	result, err := engine.Scan(context.Background(), doc)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(result.Candidates) != 2 {
		for _, c := range result.Candidates {
			t.Logf("candidate: %s %s T%d", c.Detector, c.Name, c.Tier)
		}
		t.Fatalf("got %d candidates, want screen + form", len(result.Candidates))
	}

	var screen, form *detect.Candidate
	for i := range result.Candidates {
		switch result.Candidates[i].Detector {
		case "screen":
			screen = &result.Candidates[i]
		case "form":
			form = &result.Candidates[i]
		}
	}
	if screen == nil || form == nil {
		t.Fatalf("candidates = %+v, want one screen and one form", result.Candidates)
	}
	if screen.Tier != tier.TierStatic || screen.Meta["platform"] != "mobile" {
		t.Errorf("screen = T%d %v, want T1 mobile", screen.Tier, screen.Meta["platform"])
	}
	if form.Tier != tier.TierStandard {
		t.Errorf("form tier = %v, want T2", form.Tier)
	}
	if form.Meta["input_count"] != 2 {
		t.Errorf("input_count = %v, want text input + toggle", form.Meta["input_count"])
	}

	if len(result.State.Features) != 2 {
		t.Fatalf("persisted %d records, want 2", len(result.State.Features))
	}
	for _, r := range result.State.Features {
		if r.Status != state.StatusOpen {
			t.Errorf("record %s status = %s, want open", r.ID, r.Status)
		}
	}
	if result.Screens != 1 {
		t.Errorf("screens = %d, want 1", result.Screens)
	}
}

func TestScanRenamedButtonKeepsIdentity(t *testing.T) {
	engine, _ := newEngine(t)
	doc := parseExport(t, settingsExport)

	first, err := engine.Scan(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}

	var formID string
	for id, r := range first.State.Features {
		if r.Detector == "form" {
			formID = id
		}
	}
	if formID == "" {
		t.Fatal("no form record after first scan")
	}
	if _, _, err := engine.Resolve(formID, state.StatusImplemented); err != nil {
		t.Fatal(err)
	}

	// The rename touches an unrelated sibling of the form's inputs.
	renamed := parseExport(t, settingsExport)
	renamed.Root.Children[0].Children[3].Name = "Continue Button"

	second, err := engine.Scan(context.Background(), renamed)
	if err != nil {
		t.Fatal(err)
	}

	r := second.State.Get(formID)
	if r == nil {
		t.Fatal("form fingerprint changed on sibling rename")
	}
	if r.Status != state.StatusImplemented {
		t.Errorf("status = %s, want implemented to survive the re-scan", r.Status)
	}
	if len(second.Diff.Added) != 0 || len(second.Diff.Removed) != 0 {
		t.Errorf("diff = %+v, want pure update", second.Diff)
	}
}

func TestScanRepeatIsStable(t *testing.T) {
	engine, _ := newEngine(t)
	doc := parseExport(t, settingsExport)

	first, err := engine.Scan(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Scan(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}

	if len(second.Diff.Added) != 0 || len(second.Diff.Removed) != 0 {
		t.Errorf("re-scan diff = %+v, want no churn", second.Diff)
	}
	if second.State.ScanCount != first.State.ScanCount+1 {
		t.Errorf("scan count = %d", second.State.ScanCount)
	}
	for id, r := range second.State.Features {
		if first.State.Get(id) == nil {
			t.Errorf("record %s appeared only on the second scan", id)
		}
		if r.FirstSeen != first.State.Get(id).FirstSeen {
			t.Errorf("record %s first seen drifted", id)
		}
	}
}

// twoScreenExport carries two screens with several children each, so both
// root-level screen order and in-screen sibling order can be permuted.
const twoScreenExport = `{
  "id": "root",
  "type": "frame",
  "name": "App",
  "width": 2000,
  "height": 2000,
  "children": [
    {
      "id": "settings",
      "type": "frame",
      "name": "Settings",
      "width": 390,
      "height": 844,
      "children": [
        {"id": "lbl", "type": "text", "content": "Name"},
        {"id": "email", "type": "frame", "name": "Email", "width": 320, "height": 44},
        {"id": "tog", "type": "frame", "name": "Notifications Toggle", "width": 48, "height": 28},
        {"id": "save", "type": "frame", "name": "Save Button", "width": 320, "height": 48}
      ]
    },
    {
      "id": "log",
      "type": "frame",
      "name": "Food Log",
      "width": 390,
      "height": 844,
      "children": [
        {"id": "hdr", "type": "frame", "name": "Header", "width": 390, "height": 56},
        {"id": "meals", "type": "frame", "name": "Meal List", "width": 390, "height": 500},
        {"id": "add", "type": "frame", "name": "Add Food Button", "width": 56, "height": 56}
      ]
    }
  ]
}`

func reverseNodes(nodes []*pen.Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}

func TestScanSiblingReorderKeepsFingerprints(t *testing.T) {
	engineA, _ := newEngine(t)
	first, err := engineA.Scan(context.Background(), parseExport(t, twoScreenExport))
	if err != nil {
		t.Fatal(err)
	}
	if len(first.State.Features) < 4 {
		t.Fatalf("got %d features, fixture should produce several", len(first.State.Features))
	}

	// A re-export may list screens and children in any order.
	shuffled := parseExport(t, twoScreenExport)
	reverseNodes(shuffled.Root.Children)
	for _, screen := range shuffled.Root.Children {
		reverseNodes(screen.Children)
	}

	engineB, _ := newEngine(t)
	second, err := engineB.Scan(context.Background(), shuffled)
	if err != nil {
		t.Fatal(err)
	}

	if len(second.State.Features) != len(first.State.Features) {
		t.Fatalf("got %d features after reorder, want %d", len(second.State.Features), len(first.State.Features))
	}
	for id, r := range first.State.Features {
		got := second.State.Get(id)
		if got == nil {
			t.Errorf("feature %s missing after sibling reorder", id)
			continue
		}
		if got.Fingerprint != r.Fingerprint {
			t.Errorf("feature %s fingerprint changed on reorder", id)
		}
	}
}

type failingStore struct {
	state.Store
	saveErr error
}

func (f *failingStore) Save(*state.State) error { return f.saveErr }

func TestScanFailedSaveLeavesPriorState(t *testing.T) {
	dir := t.TempDir()
	fileStore := state.NewFileStore(dir, nil)
	pipeline := detect.NewPipeline(detect.DefaultDetectors(nil), nil, false)
	doc := parseExport(t, settingsExport)

	// Seed a real state first.
	seed := NewEngine(fileStore, pipeline, nil)
	first, err := seed.Scan(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}

	broken := NewEngine(&failingStore{Store: fileStore, saveErr: fmt.Errorf("disk full")}, pipeline, nil)
	if _, err := broken.Scan(context.Background(), doc); err == nil {
		t.Fatal("expected save failure to surface")
	}

	reloaded, err := fileStore.Load()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.ScanCount != first.State.ScanCount {
		t.Error("failed scan must leave persisted state untouched")
	}
}

func TestScanDetectorFailureIsIsolated(t *testing.T) {
	store := state.NewFileStore(t.TempDir(), nil)
	detectors := append(detect.DefaultDetectors(nil), &explodingDetector{})
	pipeline := detect.NewPipeline(detectors, nil, false)
	engine := NewEngine(store, pipeline, nil)

	result, err := engine.Scan(context.Background(), parseExport(t, settingsExport))
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Detector != "exploding" {
		t.Errorf("warnings = %+v", result.Warnings)
	}
	if len(result.State.Features) != 2 {
		t.Errorf("surviving detectors should still persist %d records", len(result.State.Features))
	}
}

type explodingDetector struct{}

func (d *explodingDetector) Name() string        { return "exploding" }
func (d *explodingDetector) Description() string { return "always fails" }
func (d *explodingDetector) Detect(*pen.Document) ([]detect.Candidate, error) {
	return nil, fmt.Errorf("boom")
}

func TestResolveUnknownSelector(t *testing.T) {
	engine, _ := newEngine(t)
	if _, err := engine.Scan(context.Background(), parseExport(t, settingsExport)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := engine.Resolve("nonexistent-feature-xyz", state.StatusImplemented); err == nil {
		t.Fatal("expected unknown-feature error")
	}
}

func TestStatusWithoutScan(t *testing.T) {
	engine, _ := newEngine(t)
	s, err := engine.Status()
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if len(s.Features) != 0 {
		t.Error("fresh project should report empty inventory")
	}
}
