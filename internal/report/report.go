// Package report renders the reconciled feature inventory into external
// formats: markdown, route manifests, issue-tracker payloads, page stubs,
// and end-to-end test skeletons.
package report

import (
	"regexp"
	"sort"
	"strings"

	"penaudit/internal/state"
)

// ScreenGroup pairs a screen record with the sub-features detected inside
// it.
type ScreenGroup struct {
	Name   string
	Screen *state.Record
	Sub    []*state.Record
}

// GroupByScreen splits the inventory into per-screen groups and a component
// list. Sub-features attach to their screen by the screen name recorded in
// their metadata; groups are sorted by name, sub-features by feature ID.
func GroupByScreen(s *state.State) ([]*ScreenGroup, []*state.Record) {
	groups := make(map[string]*ScreenGroup)
	var components []*state.Record

	ensure := func(name string) *ScreenGroup {
		g, ok := groups[name]
		if !ok {
			g = &ScreenGroup{Name: name}
			groups[name] = g
		}
		return g
	}

	for _, r := range s.Records() {
		switch r.Category {
		case "component":
			components = append(components, r)
		case "screen":
			ensure(r.DisplayName()).Screen = r
		default:
			name, _ := r.Meta["screen_name"].(string)
			if name == "" {
				name = "Unknown"
			}
			g := ensure(name)
			g.Sub = append(g.Sub, r)
		}
	}

	out := make([]*ScreenGroup, 0, len(groups))
	for _, g := range groups {
		sort.Slice(g.Sub, func(i, j int) bool { return g.Sub[i].ID < g.Sub[j].ID })
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	sort.Slice(components, func(i, j int) bool {
		ui, uj := metaInt(components[i].Meta, "usage_count"), metaInt(components[j].Meta, "usage_count")
		if ui != uj {
			return ui > uj
		}
		return components[i].Name < components[j].Name
	})

	return out, components
}

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces   = regexp.MustCompile(`[\s_]+`)
	slugDashes   = regexp.MustCompile(`-+`)
	nonAlnum     = regexp.MustCompile(`[^a-zA-Z0-9]`)
	nonWordChars = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// Slugify converts a screen name to a URL path segment.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ComponentName converts a screen name to a PascalCase identifier.
func ComponentName(name string) string {
	cleaned := nonWordChars.ReplaceAllString(name, "")
	var b strings.Builder
	for _, part := range strings.Fields(cleaned) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	result := b.String()
	if result == "" {
		result = "Page"
	}
	if result[0] >= '0' && result[0] <= '9' {
		result = "X" + result
	}
	return result
}

// TestID converts a screen name to a file-safe test identifier.
func TestID(name string) string {
	return strings.ToLower(strings.Trim(nonAlnum.ReplaceAllString(name, "_"), "_"))
}

func metaInt(meta map[string]interface{}, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func metaString(meta map[string]interface{}, key string) string {
	s, _ := meta[key].(string)
	return s
}

func metaStrings(meta map[string]interface{}, key string) []string {
	switch v := meta[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// metaOps reads the crud operations map regardless of whether it came
// straight from a detector or through a JSON roundtrip.
func metaOps(meta map[string]interface{}) []string {
	var ops []string
	switch v := meta["operations"].(type) {
	case map[string][]string:
		for op := range v {
			ops = append(ops, op)
		}
	case map[string]interface{}:
		for op := range v {
			ops = append(ops, op)
		}
	}
	sort.Strings(ops)
	return ops
}
