package report

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"penaudit/internal/state"
)

// PageStub is one generated framework page file.
type PageStub struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	ScreenName string `json:"screenName"`
	Tier       int    `json:"tier"`
}

// PageStubs generates App Router page stubs for every screen still open,
// sorted by path. appDir is the app subdirectory within the codebase
// ("apps/web" in a monorepo, empty at the root); "app" is appended to it.
// Each stub carries the detected sub-features as TODO placeholders so the
// page starts with its real requirements in view.
func PageStubs(s *state.State, appDir string) []PageStub {
	groups, _ := GroupByScreen(s)

	var stubs []PageStub
	for _, g := range groups {
		if g.Screen == nil || g.Screen.Status != state.StatusOpen {
			continue
		}
		slug := Slugify(g.Name)
		comp := ComponentName(g.Name)
		platform := metaString(g.Screen.Meta, "platform")

		var lines []string
		lines = append(lines,
			`"use client";`,
			``,
			`import { ScreenHeader } from "@/components/screen-header";`,
		)
		detectors := make(map[string]bool)
		for _, sf := range g.Sub {
			detectors[sf.Detector] = true
		}
		if detectors["form"] {
			lines = append(lines, `// TODO: import form components`)
		}
		if detectors["data_display"] {
			lines = append(lines, `// TODO: import data display components`)
		}
		if detectors["interactive"] {
			lines = append(lines, `// TODO: import interactive components`)
		}

		lines = append(lines, ``, ``, fmt.Sprintf(`export default function %sPage() {`, comp))
		lines = append(lines,
			fmt.Sprintf(`  // Tier %d screen - %s`, g.Screen.Tier, platform),
			fmt.Sprintf(`  // Pen node ID: %s`, g.Screen.ScreenID),
		)
		if len(g.Sub) > 0 {
			lines = append(lines, ``, `  // Detected features:`)
			for _, sf := range g.Sub {
				lines = append(lines, fmt.Sprintf(`  // - [%s] %s`, sf.Detector, sf.Summary))
			}
		}

		lines = append(lines, ``, `  return (`,
			`    <div className="flex flex-col min-h-screen">`,
			fmt.Sprintf(`      <ScreenHeader title="%s" />`, g.Name),
			`      <main className="flex-1 p-4">`,
		)
		for _, sf := range g.Sub {
			lines = append(lines, stubPlaceholder(sf)...)
		}
		if len(g.Sub) == 0 {
			lines = append(lines, `        <p className="text-muted-foreground">Coming Soon</p>`)
		}
		lines = append(lines, `      </main>`, `    </div>`, `  );`, `}`, ``)

		stubs = append(stubs, PageStub{
			Path:       path.Join(appDir, "app", slug, "page.tsx"),
			Content:    strings.Join(lines, "\n"),
			ScreenName: g.Name,
			Tier:       g.Screen.Tier,
		})
	}

	sort.Slice(stubs, func(i, j int) bool { return stubs[i].Path < stubs[j].Path })
	return stubs
}

func stubPlaceholder(sf *state.Record) []string {
	switch sf.Detector {
	case "navigation":
		return []string{fmt.Sprintf(`        {/* TODO: %s navigation */}`,
			metaString(sf.Meta, "pattern_type"))}
	case "form":
		return []string{fmt.Sprintf(`        {/* TODO: form with %d inputs */}`,
			metaInt(sf.Meta, "input_count"))}
	case "data_display":
		return []string{fmt.Sprintf(`        {/* TODO: %s display (%d items) */}`,
			metaString(sf.Meta, "pattern"), len(metaStrings(sf.Meta, "instances")))}
	case "crud":
		return []string{fmt.Sprintf(`        {/* TODO: CRUD operations: %s */}`,
			strings.Join(metaOps(sf.Meta), ", "))}
	case "interactive":
		return []string{fmt.Sprintf(`        {/* TODO: %s interaction */}`,
			metaString(sf.Meta, "pattern"))}
	default:
		return nil
	}
}
