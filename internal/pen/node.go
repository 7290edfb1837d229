// Package pen models the node tree of a .pen design export.
//
// Raw .pen files are encrypted at rest; this package consumes the JSON node
// tree produced by exporting the document (batch_get). The tree is normalized
// into Node values that are immutable after load; detectors never mutate it.
package pen

// NodeKind is the element kind of a design node.
type NodeKind string

const (
	KindFrame      NodeKind = "frame"      // containers, screens, cards, rows
	KindText       NodeKind = "text"       // labels, headings, body text
	KindEllipse    NodeKind = "ellipse"    // rings, avatars, indicators
	KindRectangle  NodeKind = "rectangle"  // backgrounds, dividers
	KindRef        NodeKind = "ref"        // component instances
	KindPath       NodeKind = "path"       // icons, custom shapes
	KindImage      NodeKind = "image"      // image fills
	KindIconFont   NodeKind = "icon_font"  // icon font glyphs
	KindLine       NodeKind = "line"       // lines, dividers
	KindPolygon    NodeKind = "polygon"    // custom shapes
	KindGroup      NodeKind = "group"      // groups of nodes
	KindNote       NodeKind = "note"       // annotation notes
	KindConnection NodeKind = "connection" // connectors between nodes
)

// Rect is a node's geometry in canvas coordinates.
type Rect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Node is one element of the normalized design tree. Children are owned
// exclusively by the parent; the tree has no back-edges or sharing.
type Node struct {
	ID       string
	Kind     NodeKind
	Name     string
	Content  string // text content, set for text nodes
	Ref      string // referenced component id, set for ref nodes
	Reusable bool   // reusable design-system component
	Geometry Rect
	HasGeometry bool
	Children []*Node
	Props    map[string]interface{} // remaining export properties, pass-through
}

// IsScreen reports whether the node looks like a screen when it sits at the
// top level: a frame that is not a reusable component.
func (n *Node) IsScreen() bool {
	return n.Kind == KindFrame && !n.Reusable
}

// IsComponent reports whether the node is a reusable design-system component.
func (n *Node) IsComponent() bool {
	return n.Reusable
}

// IsInstance reports whether the node is a component instance.
func (n *Node) IsInstance() bool {
	return n.Kind == KindRef
}

// Walk visits the node and all descendants depth-first in document order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// WalkPath visits the node and all descendants depth-first, passing the full
// root-to-node path. The path slice is reused between calls; callers must
// copy it if they retain it.
func (n *Node) WalkPath(visit func(path []*Node)) {
	n.walkPath(nil, visit)
}

func (n *Node) walkPath(prefix []*Node, visit func(path []*Node)) {
	path := append(prefix, n)
	visit(path)
	for _, child := range n.Children {
		child.walkPath(path, visit)
	}
}

// FindByKind returns all nodes of the given kind in the subtree.
func (n *Node) FindByKind(kind NodeKind) []*Node {
	var found []*Node
	n.Walk(func(node *Node) {
		if node.Kind == kind {
			found = append(found, node)
		}
	})
	return found
}

// Texts extracts the content of all descendant text nodes in document order.
func (n *Node) Texts() []string {
	var texts []string
	n.Walk(func(node *Node) {
		if node.Kind == KindText && node.Content != "" {
			texts = append(texts, node.Content)
		}
	})
	return texts
}

// CountByKind counts nodes in the subtree by kind.
func (n *Node) CountByKind() map[NodeKind]int {
	counts := make(map[NodeKind]int)
	n.Walk(func(node *Node) {
		counts[node.Kind]++
	})
	return counts
}

// Size returns the number of descendants, excluding the node itself.
func (n *Node) Size() int {
	count := -1
	n.Walk(func(*Node) { count++ })
	return count
}

// Depth returns the maximum depth of the subtree. A leaf has depth 0.
func (n *Node) Depth() int {
	if len(n.Children) == 0 {
		return 0
	}
	max := 0
	for _, child := range n.Children {
		if d := child.Depth(); d > max {
			max = d
		}
	}
	return 1 + max
}

// Document is a parsed .pen export.
type Document struct {
	Root       *Node
	SourceFile string
}

// Screens returns the top-level frames that are not reusable components.
func (d *Document) Screens() []*Node {
	var screens []*Node
	for _, child := range d.Root.Children {
		if child.IsScreen() {
			screens = append(screens, child)
		}
	}
	return screens
}

// Components returns all reusable design-system components in the document.
func (d *Document) Components() []*Node {
	var components []*Node
	d.Root.Walk(func(n *Node) {
		if n.IsComponent() {
			components = append(components, n)
		}
	})
	return components
}

// Instances returns all component instances (ref nodes) in the document.
func (d *Document) Instances() []*Node {
	return d.Root.FindByKind(KindRef)
}
