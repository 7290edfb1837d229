package detect

import (
	"fmt"

	"penaudit/internal/identity"
	"penaudit/internal/pen"
	"penaudit/internal/tier"
)

// ComponentDetector identifies reusable design-system components and maps
// their instance usage across screens. Components already exist in the
// design system, so they classify as T1.
type ComponentDetector struct{}

func (d *ComponentDetector) Name() string { return "component" }

func (d *ComponentDetector) Description() string {
	return "Identifies design system components and tracks instance usage"
}

func (d *ComponentDetector) Detect(doc *pen.Document) ([]Candidate, error) {
	components := doc.Components()
	defined := make(map[string]bool, len(components))
	for _, c := range components {
		defined[c.ID] = true
	}

	// Count instance usage per ref target, and record which screens use it.
	usage := make(map[string]int)
	screensUsed := make(map[string][]string)
	for _, screen := range doc.Screens() {
		screen.Walk(func(n *pen.Node) {
			if n.Kind != pen.KindRef || n.Ref == "" {
				return
			}
			usage[n.Ref]++
			if screen.Name != "" && !contains(screensUsed[n.Ref], screen.Name) {
				screensUsed[n.Ref] = append(screensUsed[n.Ref], screen.Name)
			}
		})
	}

	var candidates []Candidate

	for _, comp := range components {
		name := comp.Name
		if name == "" {
			name = comp.ID
		}

		kindCounts := make(map[string]int)
		for kind, n := range comp.CountByKind() {
			kindCounts[string(kind)] = n
		}

		candidates = append(candidates, newCandidate(
			d.Name(), name, "component",
			fmt.Sprintf("Component: %s (used %dx across %d screens)",
				name, usage[comp.ID], len(screensUsed[comp.ID])),
			tier.TierStatic,
			identity.NamedAnchor("component", name), comp, comp.ID,
			map[string]interface{}{
				"usage_count":  usage[comp.ID],
				"screens_used": screensUsed[comp.ID],
				"child_count":  comp.Size(),
				"node_kinds":   kindCounts,
			},
		))
	}

	// Instances whose component is not defined in this export still mark a
	// distinct reusable element worth tracking.
	for ref, count := range usage {
		if defined[ref] {
			continue
		}
		candidates = append(candidates, newCandidate(
			d.Name(), ref, "component",
			fmt.Sprintf("Component: %s (external, used %dx across %d screens)",
				ref, count, len(screensUsed[ref])),
			tier.TierStatic,
			identity.NamedAnchor("component", ref), nil, ref,
			map[string]interface{}{
				"usage_count":  count,
				"screens_used": screensUsed[ref],
				"external":     true,
			},
		))
	}

	return candidates, nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
