package detect

import (
	"fmt"
	"strings"

	"penaudit/internal/pen"
	"penaudit/internal/tier"
)

// Platform classifies the target device of a screen frame.
type Platform string

const (
	PlatformMobile  Platform = "mobile"
	PlatformTablet  Platform = "tablet"
	PlatformDesktop Platform = "desktop"
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform classifies a frame's platform from its width.
func DetectPlatform(width float64) Platform {
	switch {
	case width >= 320 && width <= 430:
		return PlatformMobile
	case (width >= 700 && width <= 850) || (width >= 768 && width <= 834):
		return PlatformTablet
	case width >= 1200:
		return PlatformDesktop
	default:
		return PlatformUnknown
	}
}

// ScreenDetector identifies top-level frames as screens and classifies their
// complexity from the structural signals in each screen's subtree.
type ScreenDetector struct {
	kw *Keywords
}

func (d *ScreenDetector) Name() string { return "screen" }

func (d *ScreenDetector) Description() string {
	return "Identifies screens (top-level frames) and their complexity tier"
}

func (d *ScreenDetector) Detect(doc *pen.Document) ([]Candidate, error) {
	var candidates []Candidate

	for _, screen := range doc.Root.Children {
		if screen.Kind != pen.KindFrame || screen.Reusable {
			continue
		}
		if d.isSystemContainer(screen.Name) {
			continue
		}

		platform := DetectPlatform(screen.Geometry.Width)
		signals := d.collectSignals(screen)
		screenTier := tier.ClassifyScreen(signals)

		texts := screen.Texts()
		heading := screen.Name
		if len(texts) > 0 {
			heading = texts[0]
		}

		name := screen.Name
		if name == "" {
			name = screen.ID
		}

		kindCounts := make(map[string]int)
		for kind, n := range screen.CountByKind() {
			kindCounts[string(kind)] = n
		}

		candidates = append(candidates, newCandidate(
			d.Name(), name, "screen",
			fmt.Sprintf("Screen: %s (%s, %s)", name, platform, screenTier),
			screenTier,
			screenAnchor(doc, screen), screen, screen.ID,
			map[string]interface{}{
				"platform":    string(platform),
				"width":       screen.Geometry.Width,
				"height":      screen.Geometry.Height,
				"heading":     heading,
				"child_count": screen.Size(),
				"depth":       screen.Depth(),
				"signals":     signals,
				"node_kinds":  kindCounts,
			},
		))
	}

	return candidates, nil
}

func (d *ScreenDetector) isSystemContainer(name string) bool {
	lower := strings.ToLower(name)
	for _, sys := range d.kw.SystemNames {
		if lower == sys {
			return true
		}
	}
	return false
}

// collectSignals counts tier-relevant structural patterns in a screen's
// subtree. Signal names line up with the tier classifier's tables.
func (d *ScreenDetector) collectSignals(screen *pen.Node) tier.Signals {
	signals := make(tier.Signals)
	kindCounts := screen.CountByKind()
	signals["text_nodes"] = kindCounts[pen.KindText]
	signals["ref_nodes"] = kindCounts[pen.KindRef]

	screen.Walk(func(n *pen.Node) {
		if n.Name == "" && n.Content == "" {
			return
		}
		name := normalizeName(n.Name)
		combined := name + " " + strings.ToLower(n.Content)

		// Narrower than the form detector's input table on purpose: a lone
		// toggle makes a form feature, not a form-heavy screen.
		if matchesAny(name, []string{"input", "field", "text_field", "search", "form"}) {
			signals["forms"]++
		}
		if matchesAny(name, d.kw.Lists) {
			signals["lists"]++
		}
		if matchesAny(name, d.kw.Cards) {
			signals["cards"]++
		}
		if matchesAny(name, d.kw.Charts) {
			signals["charts"]++
		}
		if matchesAny(name, d.kw.Tabs) {
			signals["tabs"]++
		}
		if matchesAny(name, d.kw.Modals) {
			signals["modals"]++
		}
		if matchesAny(name, []string{"camera", "scanner", "barcode", "qr"}) {
			signals["camera"]++
		}
		if matchesAny(name, []string{"timer", "stopwatch", "countdown"}) {
			signals["timers"]++
		}
		if strings.Contains(name, "map") {
			signals["map"]++
		}
		if matchesAny(combined, []string{"add", "create", "new", "edit", "delete", "remove"}) {
			signals["crud"]++
		}
		if matchesAny(name, d.kw.Drag) {
			signals["drag_drop"]++
		}
		if strings.Contains(name, "builder") {
			signals["builders"]++
		}
	})

	return signals
}
