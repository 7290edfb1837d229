package detect

import (
	"fmt"

	"penaudit/internal/pen"
	"penaudit/internal/tier"
)

// InteractiveDetector identifies interactive UI patterns: tabs, modals,
// accordions, swipe actions, drag-and-drop.
type InteractiveDetector struct {
	kw *Keywords
}

func (d *InteractiveDetector) Name() string { return "interactive" }

func (d *InteractiveDetector) Description() string {
	return "Identifies interactive patterns (tabs, modals, accordions, drag-and-drop)"
}

func (d *InteractiveDetector) Detect(doc *pen.Document) ([]Candidate, error) {
	families := []struct {
		key      string
		patterns func() []string
		tier     tier.Tier
	}{
		{"tabs", func() []string { return d.kw.Tabs }, tier.TierStandard},
		{"modals", func() []string { return d.kw.Modals }, tier.TierStandard},
		{"accordions", func() []string { return d.kw.Accordions }, tier.TierStandard},
		{"swipe", func() []string { return d.kw.Swipe }, tier.TierComplex},
		{"drag_drop", func() []string { return d.kw.Drag }, tier.TierComplex},
	}

	var candidates []Candidate

	for _, screen := range doc.Screens() {
		found := make(map[string][]string)

		screen.Walk(func(n *pen.Node) {
			if n.Name == "" {
				return
			}
			normalized := normalizeName(n.Name)
			for _, fam := range families {
				if matchesAny(normalized, fam.patterns()) {
					found[fam.key] = append(found[fam.key], n.Name)
				}
			}
		})

		for _, fam := range families {
			instances := found[fam.key]
			if len(instances) == 0 {
				continue
			}

			candidates = append(candidates, newCandidate(
				d.Name(), fmt.Sprintf("%s::%s", screen.Name, fam.key), "interactive",
				fmt.Sprintf("Interactive: %s in %s (%d elements)", fam.key, screen.Name, len(instances)),
				fam.tier,
				screenAnchor(doc, screen), screen, screen.ID,
				map[string]interface{}{
					"pattern":     fam.key,
					"instances":   instances,
					"screen_name": screen.Name,
				},
			))
		}
	}

	return candidates, nil
}
