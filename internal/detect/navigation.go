package detect

import (
	"fmt"
	"sort"

	"penaudit/internal/pen"
	"penaudit/internal/tier"
)

// NavigationDetector identifies navigation patterns: tab bars, sidebars,
// back buttons, headers, breadcrumbs.
type NavigationDetector struct {
	kw *Keywords
}

func (d *NavigationDetector) Name() string { return "navigation" }

func (d *NavigationDetector) Description() string {
	return "Identifies navigation UI patterns"
}

func (d *NavigationDetector) Detect(doc *pen.Document) ([]Candidate, error) {
	var candidates []Candidate

	for _, screen := range doc.Screens() {
		found := make(map[string][]string) // pattern type -> node names

		screen.Walk(func(n *pen.Node) {
			if n.Name == "" {
				return
			}
			if pattern := d.matchNavPattern(n.Name); pattern != "" {
				found[pattern] = append(found[pattern], n.Name)
			}
		})

		// Deterministic candidate order for stable summaries.
		patterns := make([]string, 0, len(found))
		for p := range found {
			patterns = append(patterns, p)
		}
		sort.Strings(patterns)

		for _, pattern := range patterns {
			instances := found[pattern]
			patternTier := tier.TierStandard
			if pattern == "header" || pattern == "back_button" {
				patternTier = tier.TierStatic
			}

			candidates = append(candidates, newCandidate(
				d.Name(), fmt.Sprintf("%s::%s", screen.Name, pattern), "navigation",
				fmt.Sprintf("Nav: %s in %s (%d elements)", pattern, screen.Name, len(instances)),
				patternTier,
				screenAnchor(doc, screen), screen, screen.ID,
				map[string]interface{}{
					"pattern_type": pattern,
					"instances":    instances,
					"screen_name":  screen.Name,
				},
			))
		}
	}

	return candidates, nil
}

func (d *NavigationDetector) matchNavPattern(name string) string {
	normalized := normalizeName(name)

	// Check in a fixed order so a name matching several tables classifies
	// the same way every scan.
	for _, pattern := range []string{"tab_bar", "sidebar", "back_button", "header", "breadcrumb"} {
		if matchesAny(normalized, d.kw.Nav[pattern]) {
			return pattern
		}
	}
	return ""
}
