package pen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"penaudit/internal/errors"
)

const sampleDoc = `{
	"id": "root", "type": "frame", "name": "Canvas", "width": 2000, "height": 2000,
	"children": [
		{
			"id": "s1", "type": "frame", "name": "Home", "width": 390, "height": 844,
			"children": [
				{"id": "t1", "type": "text", "name": "Title", "content": "Welcome"},
				{"id": "r1", "type": "ref", "ref": "c1"}
			]
		},
		{
			"id": "c1", "type": "frame", "name": "Button", "reusable": true,
			"width": 120, "height": 44,
			"children": [
				{"id": "t2", "type": "text", "name": "Label", "content": "Tap me"}
			]
		}
	]
}`

func TestParseSampleDoc(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if doc.Root.ID != "root" {
		t.Errorf("root id = %q", doc.Root.ID)
	}
	screens := doc.Screens()
	if len(screens) != 1 || screens[0].Name != "Home" {
		t.Fatalf("Screens() = %v, want [Home]", screens)
	}
	components := doc.Components()
	if len(components) != 1 || components[0].Name != "Button" {
		t.Fatalf("Components() = %v, want [Button]", components)
	}
	instances := doc.Instances()
	if len(instances) != 1 || instances[0].Ref != "c1" {
		t.Fatalf("Instances() ref = %v, want c1", instances)
	}
}

func TestParseGeometry(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	home := doc.Screens()[0]
	if !home.HasGeometry || home.Geometry.Width != 390 || home.Geometry.Height != 844 {
		t.Errorf("Home geometry = %+v", home.Geometry)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{{`},
		{"root not a frame", `{"id": "r", "type": "text", "content": "hi"}`},
		{"frame missing geometry", `{"id": "r", "type": "frame", "name": "Canvas"}`},
		{"non-numeric geometry", `{"id": "r", "type": "frame", "width": "390", "height": 844}`},
		{"duplicate node id", `{
			"id": "r", "type": "frame", "width": 100, "height": 100,
			"children": [
				{"id": "dup", "type": "text"},
				{"id": "dup", "type": "text"}
			]
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.HasCode(err, errors.MalformedInput) {
				t.Errorf("error code = %v, want MALFORMED_INPUT", errors.CodeOf(err))
			}
		})
	}
}

func TestParseRawNil(t *testing.T) {
	if _, err := ParseRaw(nil); !errors.HasCode(err, errors.MalformedInput) {
		t.Error("nil root should be malformed input")
	}
}

func TestParseDefaultsKindToFrame(t *testing.T) {
	doc, err := Parse([]byte(`{"id": "r", "width": 100, "height": 100}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Root.Kind != KindFrame {
		t.Errorf("kind = %q, want frame", doc.Root.Kind)
	}
}

func TestParsePassThroughProps(t *testing.T) {
	doc, err := Parse([]byte(`{"id": "r", "type": "frame", "width": 100, "height": 100, "fill": "#fff"}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Root.Props["fill"] != "#fff" {
		t.Errorf("Props[fill] = %v", doc.Root.Props["fill"])
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if doc.SourceFile != path {
		t.Errorf("SourceFile = %q, want %q", doc.SourceFile, path)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("loading a missing file should fail")
	} else if !strings.Contains(err.Error(), "missing.json") {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestWalkOrderAndHelpers(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	var order []string
	doc.Root.Walk(func(n *Node) { order = append(order, n.ID) })
	want := []string{"root", "s1", "t1", "r1", "c1", "t2"}
	if len(order) != len(want) {
		t.Fatalf("walk visited %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("walk order %v, want %v", order, want)
		}
	}

	if got := doc.Root.Size(); got != 5 {
		t.Errorf("Size() = %d, want 5", got)
	}
	if got := doc.Root.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
	if got := doc.Root.CountByKind()[KindText]; got != 2 {
		t.Errorf("CountByKind()[text] = %d, want 2", got)
	}

	texts := doc.Screens()[0].Texts()
	if len(texts) != 1 || texts[0] != "Welcome" {
		t.Errorf("Texts() = %v", texts)
	}
}
