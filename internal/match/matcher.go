// Package match scans an App Router codebase for pages that implement
// detected screens, so features the team already shipped resolve without
// hand-marking each one.
package match

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"penaudit/internal/logging"
	"penaudit/internal/report"
	"penaudit/internal/state"
)

// Entry is one screen's match outcome.
type Entry struct {
	FeatureID    string `json:"featureId"`
	ScreenName   string `json:"screenName"`
	PagePath     string `json:"pagePath,omitempty"`
	MatchedVia   string `json:"matchedVia,omitempty"`
	HasRoute     bool   `json:"hasRoute,omitempty"`
	ExpectedSlug string `json:"expectedSlug,omitempty"`
}

// Result groups open screens by what the codebase scan found: a real page,
// a stub page, or nothing.
type Result struct {
	Matched []Entry `json:"matched"`
	Stub    []Entry `json:"stub"`
	Missing []Entry `json:"missing"`
}

// Matcher resolves open screen features against page files and a route
// manifest.
type Matcher struct {
	logger *logging.Logger

	// RoutesFile is an extra manifest path, relative to the codebase root,
	// consulted before the conventional locations.
	RoutesFile string
}

// NewMatcher creates a codebase matcher.
func NewMatcher(logger *logging.Logger) *Matcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Matcher{logger: logger}
}

// Match scans codebaseDir for pages implementing the open screens in s.
// Unless dryRun is set, screens matched to a non-stub page are marked
// implemented in place; the caller persists the state.
//
// Matching strategies, most reliable first: route manifest screen name,
// exact slug, path last segment, normalized whole-path comparison.
func (m *Matcher) Match(s *state.State, codebaseDir, appSubdir string, dryRun bool) (*Result, error) {
	appDir := filepath.Join(codebaseDir, "app")
	if appSubdir != "" {
		appDir = filepath.Join(codebaseDir, appSubdir, "app")
	}
	if _, err := os.Stat(appDir); err != nil {
		return nil, err
	}

	pages, err := findPageFiles(appDir)
	if err != nil {
		return nil, err
	}
	routes := m.loadRoutes(codebaseDir)
	routesByName := make(map[string]routeEntry, len(routes))
	for _, r := range routes {
		if r.ScreenName != "" {
			routesByName[normalize(r.ScreenName)] = r
		}
	}

	m.logger.Debug("Codebase scan", map[string]interface{}{
		"app_dir": appDir,
		"pages":   len(pages),
		"routes":  len(routes),
	})

	result := &Result{}
	now := time.Now()

	for _, r := range sortedScreens(s) {
		name := r.DisplayName()
		slug := report.Slugify(name)
		normName := normalize(name)

		pagePath, via := findPage(pages, routesByName, normName, slug)
		_, hasRoute := routesByName[normName]

		switch {
		case pagePath != "" && !isStubPage(pagePath):
			result.Matched = append(result.Matched, Entry{
				FeatureID: r.ID, ScreenName: name, PagePath: pagePath,
				MatchedVia: via, HasRoute: hasRoute,
			})
			if !dryRun {
				r.Status = state.StatusImplemented
				r.LastSeen = state.Timestamp(now)
			}
		case pagePath != "":
			result.Stub = append(result.Stub, Entry{
				FeatureID: r.ID, ScreenName: name, PagePath: pagePath, MatchedVia: via,
			})
		default:
			result.Missing = append(result.Missing, Entry{
				FeatureID: r.ID, ScreenName: name, ExpectedSlug: slug,
			})
		}
	}

	if !dryRun && len(result.Matched) > 0 {
		s.Stats = state.Compute(s.Records())
	}
	return result, nil
}

func sortedScreens(s *state.State) []*state.Record {
	var screens []*state.Record
	for _, r := range s.Records() {
		if r.Category == "screen" && r.Status == state.StatusOpen {
			screens = append(screens, r)
		}
	}
	sort.Slice(screens, func(i, j int) bool { return screens[i].ID < screens[j].ID })
	return screens
}

func findPage(pages map[string]string, routesByName map[string]routeEntry, normName, slug string) (string, string) {
	slugs := make([]string, 0, len(pages))
	for s := range pages {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)

	if route, ok := routesByName[normName]; ok {
		rpath := strings.TrimPrefix(route.Path, "/")
		last := rpath[strings.LastIndex(rpath, "/")+1:]
		for _, pageSlug := range slugs {
			if rpath == pageSlug || strings.HasSuffix(rpath, pageSlug) || strings.HasSuffix(pageSlug, last) {
				return pages[pageSlug], "routes"
			}
		}
	}

	for _, pageSlug := range slugs {
		if slug == pageSlug || "app/"+slug == pageSlug {
			return pages[pageSlug], "exact_slug"
		}
	}

	for _, pageSlug := range slugs {
		segments := strings.Split(pageSlug, "/")
		if segments[len(segments)-1] == slug {
			return pages[pageSlug], "last_segment"
		}
	}

	for _, pageSlug := range slugs {
		if normName == normalize(pageSlug) {
			return pages[pageSlug], "normalized"
		}
	}

	return "", ""
}

// findPageFiles maps route slugs to page.tsx paths. Route groups "(...)" and
// dynamic segments "[...]" do not contribute to the slug.
func findPageFiles(appDir string) (map[string]string, error) {
	pages := make(map[string]string)
	err := filepath.WalkDir(appDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "page.tsx" {
			return nil
		}
		rel, err := filepath.Rel(appDir, filepath.Dir(path))
		if err != nil {
			return err
		}
		var parts []string
		for _, p := range strings.Split(filepath.ToSlash(rel), "/") {
			if p == "." || strings.HasPrefix(p, "(") || strings.HasPrefix(p, "[") {
				continue
			}
			parts = append(parts, p)
		}
		if len(parts) > 0 {
			pages[strings.Join(parts, "/")] = path
		}
		return nil
	})
	return pages, err
}

type routeEntry struct {
	ScreenName string
	Path       string
}

// loadRoutes reads the route manifest when present. Both the generated
// manifest shape ({"routes": [...]}) and a bare route array are accepted,
// with either camelCase or snake_case keys.
func (m *Matcher) loadRoutes(codebaseDir string) []routeEntry {
	candidates := []string{
		filepath.Join(codebaseDir, "contracts", "routes.json"),
		filepath.Join(codebaseDir, "routes.json"),
	}
	if m.RoutesFile != "" {
		candidates = append([]string{filepath.Join(codebaseDir, m.RoutesFile)}, candidates...)
	}
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if routes := decodeRoutes(data); routes != nil {
			return routes
		}
	}
	return nil
}

func decodeRoutes(data []byte) []routeEntry {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return nil
		}
		if list, ok = obj["routes"].([]interface{}); !ok {
			return nil
		}
	}

	var routes []routeEntry
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := entry["screenName"].(string)
		if name == "" {
			name, _ = entry["screen_name"].(string)
		}
		path, _ := entry["path"].(string)
		routes = append(routes, routeEntry{ScreenName: name, Path: path})
	}
	return routes
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// normalize strips everything but lowercase alphanumerics for fuzzy
// comparison.
func normalize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// stubHeuristic flags pages that are plainly placeholders: nearly empty
// files, or short files announcing "Coming Soon".
func stubHeuristic(content []byte) bool {
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) < 10 {
		return true
	}
	if strings.Contains(strings.ToLower(string(content)), "coming soon") && len(lines) < 30 {
		return true
	}
	return false
}
