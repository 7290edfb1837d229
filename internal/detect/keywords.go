package detect

import "strings"

// Keywords holds the name-pattern tables the detectors match against.
// The zero value is unusable; start from DefaultKeywords and overlay
// project-specific additions from .pen-audit/keywords.toml.
type Keywords struct {
	// SystemNames are top-level container names that are design-system
	// pages, not screens.
	SystemNames []string `toml:"system_names"`

	// Form element patterns.
	Inputs  []string `toml:"inputs"`
	Buttons []string `toml:"buttons"`

	// Data display patterns.
	Lists  []string `toml:"lists"`
	Cards  []string `toml:"cards"`
	Charts []string `toml:"charts"`
	Tables []string `toml:"tables"`

	// Interactive patterns.
	Tabs       []string `toml:"tabs"`
	Modals     []string `toml:"modals"`
	Accordions []string `toml:"accordions"`
	Swipe      []string `toml:"swipe"`
	Drag       []string `toml:"drag"`

	// Navigation patterns, keyed by pattern type.
	Nav map[string][]string `toml:"nav"`

	// CRUD patterns.
	Create     []string `toml:"create"`
	Edit       []string `toml:"edit"`
	Delete     []string `toml:"delete"`
	Detail     []string `toml:"detail"`
	EmptyState []string `toml:"empty_state"`
}

// DefaultKeywords returns the built-in pattern tables.
func DefaultKeywords() *Keywords {
	return &Keywords{
		SystemNames: []string{
			"design system", "components", "symbols", "tokens", "colors",
			"typography", "icons", "library", "assets", "styles",
		},
		Inputs: []string{
			"input", "field", "text_field", "textfield", "textarea",
			"search", "searchbar", "search_bar",
			"select", "dropdown", "picker", "combo",
			"toggle", "switch", "checkbox", "check_box",
			"slider", "range",
			"radio", "radio_button",
			"date", "datepicker", "date_picker", "time_picker",
			"stepper", "number_input",
			"password", "email",
		},
		Buttons: []string{
			"button", "btn", "cta", "submit", "save", "cancel", "confirm",
			"action", "primary_button", "secondary_button",
		},
		Lists: []string{"list", "row", "item", "cell", "feed", "timeline"},
		Cards: []string{"card", "tile", "panel", "widget", "stat_card", "info_card"},
		Charts: []string{
			"chart", "graph", "ring", "donut", "progress", "sparkline",
			"bar_chart", "line_chart", "pie", "gauge", "meter",
		},
		Tables:     []string{"table", "grid", "spreadsheet", "data_grid"},
		Tabs:       []string{"tab", "segment", "tab_bar", "segmented_control"},
		Modals:     []string{"modal", "dialog", "sheet", "bottom_sheet", "overlay", "popup", "alert"},
		Accordions: []string{"accordion", "expandable", "collapsible", "dropdown_section"},
		Swipe:      []string{"swipe", "swipeable", "slide_action", "dismiss"},
		Drag:       []string{"drag", "reorder", "sortable", "draggable"},
		Nav: map[string][]string{
			"tab_bar":     {"tabbar", "tab_bar", "bottom_nav", "bottomnav", "navigation_bar", "navbar"},
			"sidebar":     {"sidebar", "side_nav", "sidenav", "drawer", "nav_drawer"},
			"back_button": {"back", "back_button", "back_arrow", "chevron_left", "arrow_left"},
			"header":      {"header", "topbar", "top_bar", "app_bar", "appbar", "screen_header"},
			"breadcrumb":  {"breadcrumb", "bread_crumb"},
		},
		Create:     []string{"add", "create", "new", "plus", "compose"},
		Edit:       []string{"edit", "modify", "update", "pencil", "pen"},
		Delete:     []string{"delete", "remove", "trash", "bin", "discard"},
		Detail:     []string{"detail", "view", "info", "profile", "preview"},
		EmptyState: []string{"empty", "no_data", "no_items", "placeholder", "zero_state", "blank"},
	}
}

// Merge overlays non-empty tables from other onto a copy of k. Entries are
// appended, not replaced, so project overlays extend the built-in tables.
func (k *Keywords) Merge(other *Keywords) *Keywords {
	merged := *k
	if other == nil {
		return &merged
	}
	merged.SystemNames = appendUnique(merged.SystemNames, other.SystemNames)
	merged.Inputs = appendUnique(merged.Inputs, other.Inputs)
	merged.Buttons = appendUnique(merged.Buttons, other.Buttons)
	merged.Lists = appendUnique(merged.Lists, other.Lists)
	merged.Cards = appendUnique(merged.Cards, other.Cards)
	merged.Charts = appendUnique(merged.Charts, other.Charts)
	merged.Tables = appendUnique(merged.Tables, other.Tables)
	merged.Tabs = appendUnique(merged.Tabs, other.Tabs)
	merged.Modals = appendUnique(merged.Modals, other.Modals)
	merged.Accordions = appendUnique(merged.Accordions, other.Accordions)
	merged.Swipe = appendUnique(merged.Swipe, other.Swipe)
	merged.Drag = appendUnique(merged.Drag, other.Drag)
	merged.Create = appendUnique(merged.Create, other.Create)
	merged.Edit = appendUnique(merged.Edit, other.Edit)
	merged.Delete = appendUnique(merged.Delete, other.Delete)
	merged.Detail = appendUnique(merged.Detail, other.Detail)
	merged.EmptyState = appendUnique(merged.EmptyState, other.EmptyState)

	if len(other.Nav) > 0 {
		nav := make(map[string][]string, len(merged.Nav))
		for pattern, words := range merged.Nav {
			nav[pattern] = words
		}
		for pattern, words := range other.Nav {
			nav[pattern] = appendUnique(nav[pattern], words)
		}
		merged.Nav = nav
	}

	return &merged
}

func appendUnique(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	seen := make(map[string]bool, len(base))
	out := make([]string, 0, len(base)+len(extra))
	for _, s := range base {
		seen[s] = true
		out = append(out, s)
	}
	for _, s := range extra {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// normalizeName lowercases a node name and unifies word separators so
// pattern tables match "Text Field", "text-field", and "text_field" alike.
func normalizeName(name string) string {
	lower := strings.ToLower(name)
	lower = strings.ReplaceAll(lower, " ", "_")
	lower = strings.ReplaceAll(lower, "-", "_")
	return lower
}

func matchesAny(normalized string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(normalized, p) {
			return true
		}
	}
	return false
}
