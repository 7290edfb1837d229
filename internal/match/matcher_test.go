package match

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"penaudit/internal/state"
)

const realPage = `"use client";

import { ScreenHeader } from "@/components/screen-header";
import { MealList } from "@/components/meal-list";
import { CalorieChart } from "@/components/calorie-chart";

export default function FoodLogPage() {
  return (
    <div className="flex flex-col min-h-screen">
      <ScreenHeader title="Food Log" />
      <main className="flex-1 p-4">
        <MealList />
        <CalorieChart />
      </main>
    </div>
  );
}
`

const stubPage = `export default function SettingsPage() {
  return <p>Coming Soon</p>;
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func testCodebase(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app", "food-log", "page.tsx"), realPage)
	writeFile(t, filepath.Join(dir, "app", "settings", "page.tsx"), stubPage)
	writeFile(t, filepath.Join(dir, "contracts", "routes.json"), `{
  "routes": [
    {"screenName": "Food Log", "path": "/app/food-log"},
    {"screenName": "Settings", "path": "/app/settings"}
  ]
}`)
	return dir
}

func screenState() *state.State {
	s := state.NewState(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	add := func(id, name string) {
		s.Features[id] = &state.Record{
			ID: id, Fingerprint: id, Detector: "screen", Name: name,
			Category: "screen", Tier: 2, Status: state.StatusOpen,
			FirstSeen: s.Created, LastSeen: s.Created,
		}
	}
	add("pen:screen:ft:a", "Food Log")
	add("pen:screen:ft:b", "Settings")
	add("pen:screen:ft:c", "Recipes")
	return s
}

func TestMatch(t *testing.T) {
	dir := testCodebase(t)
	s := screenState()
	m := NewMatcher(nil)

	result, err := m.Match(s, dir, "", false)
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}

	if len(result.Matched) != 1 || result.Matched[0].ScreenName != "Food Log" {
		t.Errorf("matched = %+v, want Food Log", result.Matched)
	}
	if len(result.Stub) != 1 || result.Stub[0].ScreenName != "Settings" {
		t.Errorf("stub = %+v, want Settings", result.Stub)
	}
	if len(result.Missing) != 1 || result.Missing[0].ScreenName != "Recipes" {
		t.Errorf("missing = %+v, want Recipes", result.Missing)
	}
	if result.Missing[0].ExpectedSlug != "recipes" {
		t.Errorf("expected slug = %q", result.Missing[0].ExpectedSlug)
	}

	if s.Features["pen:screen:ft:a"].Status != state.StatusImplemented {
		t.Error("matched screen should be marked implemented")
	}
	if s.Features["pen:screen:ft:b"].Status != state.StatusOpen {
		t.Error("stub page must not resolve its screen")
	}
	if result.Matched[0].MatchedVia != "routes" || !result.Matched[0].HasRoute {
		t.Errorf("matched entry = %+v, want routes.json match", result.Matched[0])
	}
}

func TestMatchDryRun(t *testing.T) {
	dir := testCodebase(t)
	s := screenState()
	m := NewMatcher(nil)

	result, err := m.Match(s, dir, "", true)
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if len(result.Matched) != 1 {
		t.Fatalf("matched = %+v", result.Matched)
	}
	for _, r := range s.Features {
		if r.Status != state.StatusOpen {
			t.Error("dry run must not modify state")
		}
	}
}

func TestMatchWithoutRoutes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app", "food-log", "page.tsx"), realPage)

	s := screenState()
	m := NewMatcher(nil)
	result, err := m.Match(s, dir, "", true)
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if len(result.Matched) != 1 || result.Matched[0].MatchedVia != "exact_slug" {
		t.Errorf("matched = %+v, want exact slug fallback", result.Matched)
	}
}

func TestMatchRouteGroups(t *testing.T) {
	dir := t.TempDir()
	// Route groups and dynamic segments are invisible in the URL.
	writeFile(t, filepath.Join(dir, "app", "(authenticated)", "food-log", "page.tsx"), realPage)

	s := screenState()
	m := NewMatcher(nil)
	result, err := m.Match(s, dir, "", true)
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if len(result.Matched) != 1 || result.Matched[0].ScreenName != "Food Log" {
		t.Errorf("matched = %+v, route group should not block matching", result.Matched)
	}
}

func TestMatchAppSubdir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "apps", "web", "app", "food-log", "page.tsx"), realPage)

	s := screenState()
	m := NewMatcher(nil)
	result, err := m.Match(s, dir, filepath.Join("apps", "web"), true)
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if len(result.Matched) != 1 {
		t.Errorf("matched = %+v", result.Matched)
	}
}

func TestMatchMissingAppDir(t *testing.T) {
	m := NewMatcher(nil)
	if _, err := m.Match(screenState(), t.TempDir(), "", true); err == nil {
		t.Fatal("expected error for missing app directory")
	}
}

func TestStubHeuristic(t *testing.T) {
	if !stubHeuristic([]byte("short")) {
		t.Error("tiny files are stubs")
	}
	if !stubHeuristic([]byte(stubPage)) {
		t.Error("coming-soon pages are stubs")
	}
	if stubHeuristic([]byte(realPage)) {
		t.Error("real pages are not stubs")
	}
}

func TestNormalize(t *testing.T) {
	if normalize("Food Log") != "foodlog" {
		t.Errorf("normalize = %q", normalize("Food Log"))
	}
	if normalize("food-log") != normalize("Food Log") {
		t.Error("separators should not affect comparison")
	}
}
