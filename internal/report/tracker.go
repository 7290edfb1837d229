package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"penaudit/internal/state"
	"penaudit/internal/tier"
)

// TrackerConfig is the optional .pen-audit/tracker.toml controlling issue
// export: which project the tasks land in and what gets stamped on them.
type TrackerConfig struct {
	Project     string   `toml:"project"`
	IssueType   string   `toml:"issue_type"`
	ExtraLabels []string `toml:"labels"`
}

// DefaultTrackerConfig returns the export defaults.
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{IssueType: "Task"}
}

// LoadTrackerConfig reads tracker.toml from the project's audit directory.
// A missing file yields the defaults.
func LoadTrackerConfig(projectDir string) (*TrackerConfig, error) {
	path := filepath.Join(projectDir, state.StateDir, "tracker.toml")
	cfg := DefaultTrackerConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tracker config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid tracker config %s: %w", path, err)
	}
	if cfg.IssueType == "" {
		cfg.IssueType = "Task"
	}
	return cfg, nil
}

// ADF is one Atlassian Document Format node.
type ADF map[string]interface{}

func adfText(text string) ADF {
	return ADF{"type": "text", "text": text}
}

func adfParagraph(text string) ADF {
	return ADF{"type": "paragraph", "content": []ADF{adfText(text)}}
}

func adfHeading(text string, level int) ADF {
	return ADF{"type": "heading", "attrs": ADF{"level": level}, "content": []ADF{adfText(text)}}
}

func adfBulletList(items []string) ADF {
	content := make([]ADF, len(items))
	for i, item := range items {
		content[i] = ADF{"type": "listItem", "content": []ADF{adfParagraph(item)}}
	}
	return ADF{"type": "bulletList", "content": content}
}

// TrackerTask is one issue payload: a task per open screen, with its
// sub-features as acceptance criteria.
type TrackerTask struct {
	Summary         string   `json:"summary"`
	Description     ADF      `json:"description"`
	Labels          []string `json:"labels"`
	Project         string   `json:"project,omitempty"`
	IssueType       string   `json:"issueType"`
	Tier            int      `json:"tier"`
	ScreenName      string   `json:"screenName"`
	NodeID          string   `json:"penNodeId"`
	SubFeatureCount int      `json:"subFeatureCount"`
}

// TrackerTasks generates issue payloads for every screen still open, sorted
// by tier then screen name.
func TrackerTasks(s *state.State, cfg *TrackerConfig) []TrackerTask {
	if cfg == nil {
		cfg = DefaultTrackerConfig()
	}
	groups, _ := GroupByScreen(s)

	var tasks []TrackerTask
	for _, g := range groups {
		if g.Screen == nil || g.Screen.Status != state.StatusOpen {
			continue
		}
		screen := g.Screen
		platform := metaString(screen.Meta, "platform")
		if platform == "" {
			platform = "unknown"
		}

		content := []ADF{
			adfHeading("Screen: "+g.Name, 2),
			adfParagraph(fmt.Sprintf("Tier %d (%s) - %s platform",
				screen.Tier, tier.Tier(screen.Tier).Description(), platform)),
			adfHeading("Specifications", 3),
			adfBulletList([]string{
				fmt.Sprintf("Dimensions: %v x %v", screen.Meta["width"], screen.Meta["height"]),
				fmt.Sprintf("Elements: %d nodes", metaInt(screen.Meta, "child_count")),
				fmt.Sprintf("Tree depth: %d", metaInt(screen.Meta, "depth")),
				fmt.Sprintf("Pen node ID: %s", screen.ScreenID),
			}),
		}

		if len(g.Sub) > 0 {
			criteria := make([]string, len(g.Sub))
			for i, sf := range g.Sub {
				criteria[i] = fmt.Sprintf("[%s] %s", sf.Detector, sf.Summary)
			}
			content = append(content, adfHeading("Acceptance Criteria", 3), adfBulletList(criteria))
		}

		if patterns := signalCounts(screen.Meta["signals"]); len(patterns) > 0 {
			content = append(content, adfHeading("Detected Patterns", 3), adfBulletList(patterns))
		}

		labelSet := map[string]bool{
			fmt.Sprintf("tier-%d", screen.Tier): true,
			"platform-" + platform:              true,
			"pen-audit":                         true,
		}
		for _, sf := range g.Sub {
			labelSet["has-"+sf.Detector] = true
		}
		for _, extra := range cfg.ExtraLabels {
			labelSet[extra] = true
		}
		labels := make([]string, 0, len(labelSet))
		for l := range labelSet {
			labels = append(labels, l)
		}
		sort.Strings(labels)

		tasks = append(tasks, TrackerTask{
			Summary:         fmt.Sprintf("[T%d] Implement %s screen (%s)", screen.Tier, g.Name, platform),
			Description:     ADF{"version": 1, "type": "doc", "content": content},
			Labels:          labels,
			Project:         cfg.Project,
			IssueType:       cfg.IssueType,
			Tier:            screen.Tier,
			ScreenName:      g.Name,
			NodeID:          screen.ScreenID,
			SubFeatureCount: len(g.Sub),
		})
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Tier != tasks[j].Tier {
			return tasks[i].Tier < tasks[j].Tier
		}
		return tasks[i].ScreenName < tasks[j].ScreenName
	})
	return tasks
}

// signalCounts renders the positive screen signals, whether the metadata is
// fresh from a detector or came back through a JSON roundtrip.
func signalCounts(raw interface{}) []string {
	var patterns []string
	switch signals := raw.(type) {
	case tier.Signals:
		for k, v := range signals {
			if v > 0 {
				patterns = append(patterns, fmt.Sprintf("%s: %d", k, v))
			}
		}
	case map[string]int:
		for k, v := range signals {
			if v > 0 {
				patterns = append(patterns, fmt.Sprintf("%s: %d", k, v))
			}
		}
	case map[string]interface{}:
		for k := range signals {
			if n := metaInt(signals, k); n > 0 {
				patterns = append(patterns, fmt.Sprintf("%s: %d", k, n))
			}
		}
	}
	sort.Strings(patterns)
	return patterns
}
