package pen

import (
	"encoding/json"
	"fmt"
	"os"

	"penaudit/internal/errors"
)

// Parse normalizes a raw JSON node tree into a Document.
//
// Validation rules:
//   - the tree must be rooted in a single top-level frame
//   - every frame must carry numeric width and height
//   - node ids must not repeat anywhere in the tree (a reused id means the
//     structure is a graph, not a tree)
//
// Violations fail the whole parse with a MALFORMED_INPUT error; no partial
// document is returned.
func Parse(data []byte) (*Document, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New(errors.MalformedInput, "input is not a JSON object", err)
	}
	return ParseRaw(raw)
}

// ParseRaw normalizes an already-decoded JSON node tree into a Document.
func ParseRaw(raw map[string]interface{}) (*Document, error) {
	if raw == nil {
		return nil, errors.New(errors.MalformedInput, "root node missing", nil)
	}

	seen := make(map[string]bool)
	root, err := parseNode(raw, seen)
	if err != nil {
		return nil, err
	}

	if root.Kind != KindFrame {
		return nil, errors.New(errors.MalformedInput,
			fmt.Sprintf("document must be rooted in a frame, got %q", root.Kind), nil)
	}

	return &Document{Root: root}, nil
}

// Load reads and parses a .pen JSON export file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.MalformedInput, fmt.Sprintf("cannot read %s", path), err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.SourceFile = path
	return doc, nil
}

func parseNode(data map[string]interface{}, seen map[string]bool) (*Node, error) {
	node := &Node{
		ID:       stringProp(data, "id"),
		Kind:     NodeKind(stringProp(data, "type")),
		Name:     stringProp(data, "name"),
		Content:  stringProp(data, "content"),
		Ref:      stringProp(data, "ref"),
		Reusable: boolProp(data, "reusable"),
	}
	if node.Kind == "" {
		node.Kind = KindFrame
	}

	if node.ID != "" {
		if seen[node.ID] {
			return nil, errors.New(errors.MalformedInput,
				fmt.Sprintf("node id %q appears more than once; structure is not a tree", node.ID), nil)
		}
		seen[node.ID] = true
	}

	geom, hasGeom, err := parseGeometry(data)
	if err != nil {
		return nil, errors.New(errors.MalformedInput,
			fmt.Sprintf("node %q: %v", nodeLabel(node), err), nil)
	}
	node.Geometry = geom
	node.HasGeometry = hasGeom

	if node.Kind == KindFrame && !hasGeom {
		return nil, errors.New(errors.MalformedInput,
			fmt.Sprintf("frame %q has no numeric width/height", nodeLabel(node)), nil)
	}

	// Pass remaining properties through untouched for detector metadata.
	skip := map[string]bool{
		"id": true, "type": true, "name": true, "children": true,
		"reusable": true, "content": true, "ref": true,
		"width": true, "height": true, "x": true, "y": true,
	}
	for k, v := range data {
		if skip[k] {
			continue
		}
		if node.Props == nil {
			node.Props = make(map[string]interface{})
		}
		node.Props[k] = v
	}

	if rawChildren, ok := data["children"].([]interface{}); ok {
		for _, rawChild := range rawChildren {
			childMap, ok := rawChild.(map[string]interface{})
			if !ok {
				continue
			}
			child, err := parseNode(childMap, seen)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}

func parseGeometry(data map[string]interface{}) (Rect, bool, error) {
	w, wOK, err := numberProp(data, "width")
	if err != nil {
		return Rect{}, false, err
	}
	h, hOK, err := numberProp(data, "height")
	if err != nil {
		return Rect{}, false, err
	}
	x, _, err := numberProp(data, "x")
	if err != nil {
		return Rect{}, false, err
	}
	y, _, err := numberProp(data, "y")
	if err != nil {
		return Rect{}, false, err
	}

	if !wOK || !hOK {
		return Rect{}, false, nil
	}
	return Rect{Width: w, Height: h, X: x, Y: y}, true, nil
}

func stringProp(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func boolProp(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func numberProp(data map[string]interface{}, key string) (float64, bool, error) {
	v, present := data[key]
	if !present || v == nil {
		return 0, false, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false, fmt.Errorf("property %q is not numeric", key)
	}
	return f, true, nil
}

func nodeLabel(n *Node) string {
	if n.Name != "" {
		return n.Name
	}
	if n.ID != "" {
		return n.ID
	}
	return "<unnamed>"
}
