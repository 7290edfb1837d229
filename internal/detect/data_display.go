package detect

import (
	"fmt"

	"penaudit/internal/pen"
	"penaudit/internal/tier"
)

// DataDisplayDetector identifies data display patterns: lists, cards,
// charts, tables. Each pattern family found in a screen becomes its own
// candidate; charts and tables classify higher than lists and cards.
type DataDisplayDetector struct {
	kw *Keywords
}

func (d *DataDisplayDetector) Name() string { return "data_display" }

func (d *DataDisplayDetector) Description() string {
	return "Identifies data display patterns (lists, cards, charts, tables)"
}

func (d *DataDisplayDetector) Detect(doc *pen.Document) ([]Candidate, error) {
	families := []struct {
		key      string
		patterns func() []string
		tier     tier.Tier
	}{
		{"lists", func() []string { return d.kw.Lists }, tier.TierStandard},
		{"cards", func() []string { return d.kw.Cards }, tier.TierStandard},
		{"charts", func() []string { return d.kw.Charts }, tier.TierComplex},
		{"tables", func() []string { return d.kw.Tables }, tier.TierComplex},
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
			// "lists" -> "list" for the metadata pattern name
			pattern := fam.key[:len(fam.key)-1]

			candidates = append(candidates, newCandidate(
				d.Name(), fmt.Sprintf("%s::%s", screen.Name, fam.key), "data_display",
				fmt.Sprintf("%s: %d in %s", titleCase(fam.key), len(instances), screen.Name),
				fam.tier,
				screenAnchor(doc, screen), screen, screen.ID,
				map[string]interface{}{
					"pattern":     pattern,
					"instances":   instances,
					"screen_name": screen.Name,
				},
			))
		}
	}

	return candidates, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
