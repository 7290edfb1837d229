package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"penaudit/internal/state"
)

var (
	showFormat string
	showStatus string
)

var showCmd = &cobra.Command{
	Use:   "show [pattern]",
	Short: "Show detected features by detector, screen, or pattern",
	Long: `List persisted features, optionally filtered by a case-insensitive pattern
matched against detector, name, screen, ID, and summary.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "human", "Output format (json, human)")
	showCmd.Flags().StringVar(&showStatus, "status", "all",
		"Filter by status (open, implemented, deferred, out_of_scope, all)")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, showFormat)
	engine, store := mustGetEngine(cfg, logger)
	defer store.Close()

	s, err := engine.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
		os.Exit(1)
	}

	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}
	features := filterFeatures(s, pattern, showStatus)

	resp := &FeatureListCLI{Features: features}
	if pattern != "" {
		resp.Empty = fmt.Sprintf("No features found matching %q", pattern)
	}
	output, err := FormatResponse(resp, OutputFormat(showFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// FeatureCLI is one feature row for CLI output
type FeatureCLI struct {
	ID       string `json:"id"`
	Detector string `json:"detector"`
	Name     string `json:"name"`
	Tier     int    `json:"tier"`
	Status   string `json:"status"`
	Summary  string `json:"summary"`
	ScreenID string `json:"screenId,omitempty"`
}

// FeatureListCLI is a filtered feature listing for CLI output
type FeatureListCLI struct {
	Features []FeatureCLI `json:"features"`
	Numbered bool         `json:"-"`
	Empty    string       `json:"-"`
}

func filterFeatures(s *state.State, pattern, status string) []FeatureCLI {
	pat := strings.ToLower(pattern)

	var out []FeatureCLI
	for _, r := range s.Records() {
		if status != "all" && string(r.Status) != status {
			continue
		}
		if pat != "" && !matchesPattern(r, pat) {
			continue
		}
		out = append(out, FeatureCLI{
			ID:       r.ID,
			Detector: r.Detector,
			Name:     r.DisplayName(),
			Tier:     r.Tier,
			Status:   string(r.Status),
			Summary:  r.Summary,
			ScreenID: r.ScreenID,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		if out[i].Detector != out[j].Detector {
			return out[i].Detector < out[j].Detector
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matchesPattern(r *state.Record, pat string) bool {
	for _, field := range []string{r.Detector, r.DisplayName(), r.ScreenID, r.ID, r.Summary} {
		if strings.Contains(strings.ToLower(field), pat) {
			return true
		}
	}
	return false
}
