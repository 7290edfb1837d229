package detect

import (
	"fmt"
	"sort"
	"strings"

	"penaudit/internal/pen"
	"penaudit/internal/tier"
)

// CrudDetector identifies create/read/update/delete affordances: add and
// delete actions, detail views, and empty-state patterns. A screen with any
// CRUD signal becomes one candidate covering all its operations.
type CrudDetector struct {
	kw *Keywords
}

func (d *CrudDetector) Name() string { return "crud" }

func (d *CrudDetector) Description() string {
	return "Identifies CRUD patterns (create, read, update, delete)"
}

func (d *CrudDetector) Detect(doc *pen.Document) ([]Candidate, error) {
	var candidates []Candidate

	for _, screen := range doc.Screens() {
		ops := make(map[string][]string)

		screen.Walk(func(n *pen.Node) {
			if n.Name == "" {
				return
			}
			normalized := normalizeName(n.Name)

			if matchesAny(normalized, d.kw.Create) {
				ops["create"] = append(ops["create"], n.Name)
			}
			if matchesAny(normalized, d.kw.Edit) {
				ops["edit"] = append(ops["edit"], n.Name)
			}
			if matchesAny(normalized, d.kw.Delete) {
				ops["delete"] = append(ops["delete"], n.Name)
			}
			if matchesAny(normalized, d.kw.Detail) {
				ops["detail"] = append(ops["detail"], n.Name)
			}
			if matchesAny(normalized, d.kw.EmptyState) {
				ops["empty_state"] = append(ops["empty_state"], n.Name)
			}
		})

		// Text content carries CRUD hints too ("Add meal", "No items yet").
		for _, text := range screen.Texts() {
			lower := strings.ToLower(text)
			if matchesAny(lower, []string{"add ", "create ", "new "}) {
				ops["create"] = append(ops["create"], "text: "+clip(text, 30))
			}
			if matchesAny(lower, []string{"no items", "nothing here", "get started", "empty"}) {
				ops["empty_state"] = append(ops["empty_state"], "text: "+clip(text, 30))
			}
		}

		if len(ops) == 0 {
			continue
		}

		opNames := make([]string, 0, len(ops))
		for op := range ops {
			opNames = append(opNames, op)
		}
		sort.Strings(opNames)

		var summaryParts []string
		for _, op := range opNames {
			summaryParts = append(summaryParts, fmt.Sprintf("%s(%d)", op, len(ops[op])))
		}

		candidates = append(candidates, newCandidate(
			d.Name(), fmt.Sprintf("%s::crud", screen.Name), "crud",
			fmt.Sprintf("CRUD: %s in %s", strings.Join(summaryParts, ", "), screen.Name),
			tier.TierStandard,
			screenAnchor(doc, screen), screen, screen.ID,
			map[string]interface{}{
				"operations":  ops,
				"screen_name": screen.Name,
			},
		))
	}

	return candidates, nil
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
