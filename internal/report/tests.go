package report

import (
	"fmt"
	"sort"
	"strings"

	"penaudit/internal/state"
)

// TestSkeleton is one generated end-to-end test file.
type TestSkeleton struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	ScreenName string `json:"screenName"`
	Tier       int    `json:"tier"`
}

// TestSkeletons generates Playwright test skeletons for every open screen.
// Each sub-feature becomes a skipped stub test naming what to verify.
func TestSkeletons(s *state.State) []TestSkeleton {
	groups, _ := GroupByScreen(s)

	var skeletons []TestSkeleton
	for _, g := range groups {
		if g.Screen == nil || g.Screen.Status != state.StatusOpen {
			continue
		}
		slug := Slugify(g.Name)

		lines := []string{
			`import { test, expect } from "@playwright/test";`,
			`import { auth } from "./helpers/auth";`,
			``,
			fmt.Sprintf(`test.describe("%s", () => {`, g.Name),
			`  test.beforeEach(async ({ page }) => {`,
			`    await auth(page);`,
			fmt.Sprintf(`    await page.goto("/app/%s");`, slug),
			`  });`,
			``,
			`  test("renders screen header", async ({ page }) => {`,
			fmt.Sprintf(`    await expect(page.getByRole("heading", { name: "%s" })).toBeVisible();`, g.Name),
			`  });`,
			``,
		}

		for _, sf := range g.Sub {
			lines = append(lines, testStub(sf)...)
		}

		lines = append(lines, `});`, ``)

		skeletons = append(skeletons, TestSkeleton{
			Path:       "e2e/" + TestID(g.Name) + ".spec.ts",
			Content:    strings.Join(lines, "\n"),
			ScreenName: g.Name,
			Tier:       g.Screen.Tier,
		})
	}

	sort.Slice(skeletons, func(i, j int) bool { return skeletons[i].Path < skeletons[j].Path })
	return skeletons
}

func testStub(sf *state.Record) []string {
	switch sf.Detector {
	case "navigation":
		pattern := metaString(sf.Meta, "pattern_type")
		return []string{
			fmt.Sprintf(`  test("has %s navigation", async ({ page }) => {`, pattern),
			fmt.Sprintf(`    // TODO: verify %s elements`, pattern),
			`    test.skip(); // stub`,
			`  });`,
			``,
		}
	case "form":
		count := metaInt(sf.Meta, "input_count")
		types := strings.Join(metaStrings(sf.Meta, "input_types"), ", ")
		return []string{
			fmt.Sprintf(`  test("renders form with %d inputs", async ({ page }) => {`, count),
			fmt.Sprintf(`    // Input types: %s`, types),
			`    // TODO: verify form inputs render`,
			`    test.skip(); // stub`,
			`  });`,
			``,
			`  test("validates form inputs", async ({ page }) => {`,
			`    // TODO: test validation rules`,
			`    test.skip(); // stub`,
			`  });`,
			``,
		}
	case "data_display":
		pattern := metaString(sf.Meta, "pattern")
		return []string{
			fmt.Sprintf(`  test("displays %s data", async ({ page }) => {`, pattern),
			fmt.Sprintf(`    // TODO: verify %s renders with data`, pattern),
			`    test.skip(); // stub`,
			`  });`,
			``,
		}
	case "crud":
		var lines []string
		for _, op := range metaOps(sf.Meta) {
			lines = append(lines,
				fmt.Sprintf(`  test("supports %s operation", async ({ page }) => {`, op),
				fmt.Sprintf(`    // TODO: test %s flow`, op),
				`    test.skip(); // stub`,
				`  });`,
				``,
			)
		}
		return lines
	case "interactive":
		pattern := metaString(sf.Meta, "pattern")
		return []string{
			fmt.Sprintf(`  test("%s interaction works", async ({ page }) => {`, pattern),
			fmt.Sprintf(`    // TODO: test %s behavior`, pattern),
			`    test.skip(); // stub`,
			`  });`,
			``,
		}
	default:
		return nil
	}
}
