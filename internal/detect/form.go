package detect

import (
	"fmt"
	"sort"
	"strings"

	"penaudit/internal/pen"
	"penaudit/internal/tier"
)

// FormDetector identifies input-like elements and groups the inputs
// co-located under one screen into a single form candidate.
type FormDetector struct {
	kw *Keywords
}

func (d *FormDetector) Name() string { return "form" }

func (d *FormDetector) Description() string {
	return "Identifies form elements (inputs, buttons, validation)"
}

// formInput is one matched input element.
type formInput struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	NodeID string `json:"nodeId"`
}

func (d *FormDetector) Detect(doc *pen.Document) ([]Candidate, error) {
	var candidates []Candidate

	for _, screen := range doc.Screens() {
		var inputs []formInput
		var buttons []string

		screen.Walk(func(n *pen.Node) {
			if n.Name == "" {
				return
			}
			normalized := normalizeName(n.Name)

			if matchesAny(normalized, d.kw.Inputs) {
				inputs = append(inputs, formInput{
					Name:   n.Name,
					Type:   classifyInput(n.Name),
					NodeID: n.ID,
				})
			}
			if matchesAny(normalized, d.kw.Buttons) {
				buttons = append(buttons, n.Name)
			}
		})

		if len(inputs) == 0 {
			continue
		}

		types := make(map[string]bool)
		var preview []string
		for i, in := range inputs {
			types[in.Type] = true
			if i < 5 {
				preview = append(preview, in.Type)
			}
		}
		typeList := make([]string, 0, len(types))
		for t := range types {
			typeList = append(typeList, t)
		}
		sort.Strings(typeList)

		candidates = append(candidates, newCandidate(
			d.Name(), fmt.Sprintf("%s::form", screen.Name), "form",
			fmt.Sprintf("Form: %d inputs in %s (%s)", len(inputs), screen.Name, strings.Join(preview, ", ")),
			tier.ClassifyForm(len(inputs)),
			screenAnchor(doc, screen), screen, screen.ID,
			map[string]interface{}{
				"inputs":      inputs,
				"buttons":     buttons,
				"screen_name": screen.Name,
				"input_count": len(inputs),
				"input_types": typeList,
			},
		))
	}

	return candidates, nil
}

// classifyInput infers an input type from the element name.
func classifyInput(name string) string {
	normalized := normalizeName(name)
	switch {
	case matchesAny(normalized, []string{"toggle", "switch"}):
		return "toggle"
	case matchesAny(normalized, []string{"slider", "range"}):
		return "slider"
	case matchesAny(normalized, []string{"select", "dropdown", "picker", "combo"}):
		return "select"
	case matchesAny(normalized, []string{"checkbox", "check_box", "radio"}):
		return "checkbox"
	case strings.Contains(normalized, "search"):
		return "search"
	case matchesAny(normalized, []string{"date", "time"}):
		return "date"
	case strings.Contains(normalized, "textarea"):
		return "textarea"
	case matchesAny(normalized, []string{"stepper", "number"}):
		return "number"
	default:
		return "text"
	}
}
