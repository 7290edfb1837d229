package report

import (
	"encoding/json"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"penaudit/internal/state"
)

// Route is one generated route manifest entry.
type Route struct {
	ID           string   `json:"id" yaml:"id"`
	ScreenName   string   `json:"screenName" yaml:"screenName"`
	Path         string   `json:"path" yaml:"path"`
	Platforms    []string `json:"platforms" yaml:"platforms"`
	RequiresAuth bool     `json:"requiresAuth" yaml:"requiresAuth"`
	Tier         int      `json:"tier" yaml:"tier"`
	Status       string   `json:"status" yaml:"status"`
	NodeID       string   `json:"penNodeId" yaml:"penNodeId"`
}

// RouteManifest is the full generated route export.
type RouteManifest struct {
	GeneratedBy string  `json:"generatedBy" yaml:"generatedBy"`
	Source      string  `json:"source" yaml:"source"`
	Routes      []Route `json:"routes" yaml:"routes"`
}

// Routes derives a route manifest from the detected screens, sorted by path.
func Routes(s *state.State) *RouteManifest {
	source := s.SourceFile
	if source == "" {
		source = "unknown"
	}
	manifest := &RouteManifest{GeneratedBy: "pen-audit", Source: source}

	for _, r := range s.Records() {
		if r.Category != "screen" {
			continue
		}
		name := r.DisplayName()
		slug := Slugify(name)
		platform := metaString(r.Meta, "platform")

		var platforms []string
		switch platform {
		case "mobile":
			platforms = []string{"mobile", "web"}
		case "desktop":
			platforms = []string{"desktop", "web"}
		default:
			platforms = []string{"mobile", "desktop", "web"}
		}

		manifest.Routes = append(manifest.Routes, Route{
			ID:           "app." + strings.ReplaceAll(slug, "-", "_"),
			ScreenName:   name,
			Path:         "/app/" + slug,
			Platforms:    platforms,
			RequiresAuth: true,
			Tier:         r.Tier,
			Status:       string(r.Status),
			NodeID:       r.ScreenID,
		})
	}

	sort.Slice(manifest.Routes, func(i, j int) bool {
		return manifest.Routes[i].Path < manifest.Routes[j].Path
	})
	return manifest
}

// JSON renders the manifest as indented JSON.
func (m *RouteManifest) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// YAML renders the manifest for route files kept in YAML.
func (m *RouteManifest) YAML() ([]byte, error) {
	return yaml.Marshal(m)
}
