// Package detect implements the UI pattern detectors and the pipeline that
// runs them over a parsed design document.
//
// Each detector is an independent, stateless pattern matcher: given the full
// node tree it proposes candidate features. Detectors never mutate the tree
// and never communicate with each other, so they can be added or removed
// without coordination and executed in any order (or in parallel); feature
// identity is fingerprint-based, not positional.
package detect

import (
	"penaudit/internal/identity"
	"penaudit/internal/pen"
	"penaudit/internal/tier"
)

// Candidate is a detector's proposed feature before reconciliation.
type Candidate struct {
	Detector string                 `json:"detector"`
	Name     string                 `json:"name"`
	Category string                 `json:"category"`
	Summary  string                 `json:"summary"`
	Tier     tier.Tier              `json:"tier"`
	ScreenID string                 `json:"screenId,omitempty"`
	Anchor   identity.Anchor        `json:"anchor"`
	ID       string                 `json:"id"`          // pen:<detector>:ft:<fingerprint>
	Fingerprint string              `json:"fingerprint"` // raw sha256 hex
	Meta     map[string]interface{} `json:"meta,omitempty"`

	// AnchorNode is the subtree that justified the detection. Used by the
	// pipeline for cross-detector signal escalation; not serialized.
	AnchorNode *pen.Node `json:"-"`
}

// Detector is the single capability all pattern detectors implement.
type Detector interface {
	// Name is the stable detector identifier; it scopes feature identity.
	Name() string
	// Description is a one-line summary for CLI listings.
	Description() string
	// Detect proposes candidate features for the document. Candidate order
	// is irrelevant. An error drops this detector's candidates for the scan
	// but never aborts the pipeline.
	Detect(doc *pen.Document) ([]Candidate, error)
}

// DefaultDetectors returns the standard detector set in registration order.
func DefaultDetectors(kw *Keywords) []Detector {
	if kw == nil {
		kw = DefaultKeywords()
	}
	return []Detector{
		&ScreenDetector{kw: kw},
		&ComponentDetector{},
		&NavigationDetector{kw: kw},
		&FormDetector{kw: kw},
		&DataDisplayDetector{kw: kw},
		&InteractiveDetector{kw: kw},
		&CrudDetector{kw: kw},
	}
}

// Select filters detectors by name. An empty name list keeps all of them.
func Select(detectors []Detector, names []string) []Detector {
	if len(names) == 0 {
		return detectors
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []Detector
	for _, d := range detectors {
		if wanted[d.Name()] {
			out = append(out, d)
		}
	}
	return out
}

// newCandidate fills in the identity fields shared by all detectors.
func newCandidate(detector, name, category, summary string, t tier.Tier, anchor identity.Anchor, node *pen.Node, screenID string, meta map[string]interface{}) Candidate {
	return Candidate{
		Detector:   detector,
		Name:       name,
		Category:   category,
		Summary:    summary,
		Tier:       t,
		ScreenID:   screenID,
		Anchor:     anchor,
		AnchorNode: node,
		Meta:       meta,
	}
}

// screenAnchor builds the anchor for a per-screen candidate: the screen's
// path from the document root. Renaming or reordering elements inside the
// screen does not disturb it.
func screenAnchor(doc *pen.Document, screen *pen.Node) identity.Anchor {
	return identity.NodeAnchor([]*pen.Node{doc.Root, screen})
}
