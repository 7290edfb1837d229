// Package identity derives stable, content-based fingerprints for detected
// features. Identity must survive re-exports of the same design: adding,
// removing, or reordering unrelated siblings never changes the fingerprint
// of an untouched feature.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"penaudit/internal/pen"
)

// Anchor is the structural location that justified a detection. It is built
// from content that survives irrelevant reordering: the ancestor kind path
// and the anchor node's own name and size signature, never a sibling index
// or canvas position.
type Anchor struct {
	KindPath  []string `json:"kindPath"`            // ancestor kinds, root to node
	Signature string   `json:"signature,omitempty"` // node's own content signature
}

// NodeAnchor builds an Anchor from a root-to-node path through the tree.
func NodeAnchor(path []*pen.Node) Anchor {
	kinds := make([]string, len(path))
	for i, n := range path {
		kinds[i] = string(n.Kind)
	}

	var sig string
	if len(path) > 0 {
		sig = nodeSignature(path[len(path)-1])
	}

	return Anchor{KindPath: kinds, Signature: sig}
}

// NamedAnchor builds an Anchor for features that are identified by name
// rather than by a tree position, such as design-system components
// referenced but not defined in the export.
func NamedAnchor(kind, name string) Anchor {
	return Anchor{
		KindPath:  []string{kind},
		Signature: normalizeName(name),
	}
}

// nodeSignature derives a content signature from the node itself: kind,
// normalized name, and size. Position (x/y) is excluded so that moving or
// reordering siblings does not change identity; size is part of content.
func nodeSignature(n *pen.Node) string {
	parts := []string{string(n.Kind), normalizeName(n.Name)}
	if n.HasGeometry {
		parts = append(parts, fmt.Sprintf("%gx%g", n.Geometry.Width, n.Geometry.Height))
	}
	if n.Kind == pen.KindText && n.Content != "" {
		parts = append(parts, normalizeName(n.Content))
	}
	return strings.Join(parts, ":")
}

// Canonical returns the deterministic string form of the anchor.
func (a Anchor) Canonical() string {
	return strings.Join(a.KindPath, "/") + "#" + a.Signature
}

// Fingerprint computes the stable identity for a candidate feature from the
// detector name, the feature name, and the structural anchor. The detector
// name keeps identity detector-scoped: two detectors matching the same
// subtree yield distinct features.
func Fingerprint(detector, name string, anchor Anchor) string {
	canonical := strings.Join([]string{
		"anchor:" + anchor.Canonical(),
		"detector:" + detector,
		"name:" + normalizeName(name),
	}, "|")
	hash := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(hash[:])
}

// FeatureID builds the full persisted feature key from a fingerprint.
// Format: pen:<detector>:ft:<fingerprint>
func FeatureID(detector, fingerprint string) string {
	return fmt.Sprintf("pen:%s:ft:%s", sanitizeDetector(detector), fingerprint)
}

// ShortID returns the abbreviated fingerprint form used in human output.
func ShortID(fingerprint string) string {
	if len(fingerprint) <= 12 {
		return fingerprint
	}
	return fingerprint[:12]
}

// normalizeName lowercases and collapses separators so cosmetic renames
// ("Food Log" vs "food_log") do not change identity.
func normalizeName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	lower = strings.ReplaceAll(lower, " ", "_")
	lower = strings.ReplaceAll(lower, "-", "_")
	return lower
}

func sanitizeDetector(detector string) string {
	s := strings.ToLower(detector)
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "unknown"
	}
	return s
}
