package report

import (
	"fmt"
	"sort"
	"strings"

	"penaudit/internal/state"
	"penaudit/internal/tier"
)

// Markdown renders a human-readable feature inventory.
func Markdown(s *state.State) string {
	stats := s.Stats
	if stats == nil {
		stats = state.Compute(s.Records())
	}
	source := s.SourceFile
	if source == "" {
		source = "unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Feature Inventory\n\n")
	fmt.Fprintf(&b, "**Source**: `%s`\n", source)
	fmt.Fprintf(&b, "**Total features**: %d\n", stats.Total)
	fmt.Fprintf(&b, "**Completion**: %v%%\n\n", stats.Percent)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Tier | Type | Total | Done | Open |\n")
	b.WriteString("|------|------|-------|------|------|\n")
	tiers := make([]int, 0, len(stats.ByTier))
	for t := range stats.ByTier {
		tiers = append(tiers, t)
	}
	sort.Ints(tiers)
	for _, t := range tiers {
		ts := stats.ByTier[t]
		fmt.Fprintf(&b, "| T%d | %s | %d | %d | %d |\n",
			t, tier.Tier(t).Name(), ts.Total, ts.Done, ts.Total-ts.Done)
	}
	b.WriteString("\n")

	groups, components := GroupByScreen(s)

	b.WriteString("## Screens\n\n")
	for _, g := range groups {
		tierN := 2
		platform := "unknown"
		status := state.StatusOpen
		if g.Screen != nil {
			tierN = g.Screen.Tier
			platform = metaString(g.Screen.Meta, "platform")
			status = g.Screen.Status
		}
		fmt.Fprintf(&b, "### [%s] %s (T%d, %s)\n\n", checkbox(status), g.Name, tierN, platform)

		if g.Screen != nil {
			fmt.Fprintf(&b, "- **Dimensions**: %v x %v\n",
				g.Screen.Meta["width"], g.Screen.Meta["height"])
			fmt.Fprintf(&b, "- **Elements**: %d nodes, depth %d\n",
				metaInt(g.Screen.Meta, "child_count"), metaInt(g.Screen.Meta, "depth"))
		}
		if len(g.Sub) > 0 {
			fmt.Fprintf(&b, "- **Sub-features**: %d\n", len(g.Sub))
			for _, sf := range g.Sub {
				fmt.Fprintf(&b, "  - [%s] %s\n", checkbox(sf.Status), sf.Summary)
			}
		}
		b.WriteString("\n")
	}

	if len(components) > 0 {
		b.WriteString("## Design System Components\n\n")
		b.WriteString("| Component | Usage | Screens |\n")
		b.WriteString("|-----------|-------|---------|\n")
		for _, comp := range components {
			used := metaStrings(comp.Meta, "screens_used")
			screenList := strings.Join(truncate(used, 3), ", ")
			if len(used) > 3 {
				screenList += "..."
			}
			fmt.Fprintf(&b, "| %s | %dx | %s |\n",
				comp.DisplayName(), metaInt(comp.Meta, "usage_count"), screenList)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func checkbox(s state.Status) string {
	if s == state.StatusImplemented {
		return "x"
	}
	return " "
}

func truncate(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
