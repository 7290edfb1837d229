package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"penaudit/internal/state"
)

var (
	nextFormat string
	nextTier   int
	nextCount  int
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Suggest the next features to implement",
	Long: `List open features ordered by tier, lowest first, so quick wins surface
before advanced work. Use --tier to plan within one complexity band.`,
	Run: runNext,
}

func init() {
	nextCmd.Flags().StringVar(&nextFormat, "format", "human", "Output format (json, human)")
	nextCmd.Flags().IntVar(&nextTier, "tier", 0, "Only suggest features of this tier (1-4)")
	nextCmd.Flags().IntVar(&nextCount, "count", 5, "Number of suggestions")
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, nextFormat)
	engine, store := mustGetEngine(cfg, logger)
	defer store.Close()

	s, err := engine.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
		os.Exit(1)
	}

	var open []*state.Record
	for _, r := range s.Records() {
		if r.Status != state.StatusOpen {
			continue
		}
		if nextTier != 0 && r.Tier != nextTier {
			continue
		}
		open = append(open, r)
	}
	sort.Slice(open, func(i, j int) bool {
		if open[i].Tier != open[j].Tier {
			return open[i].Tier < open[j].Tier
		}
		if open[i].Detector != open[j].Detector {
			return open[i].Detector < open[j].Detector
		}
		return open[i].DisplayName() < open[j].DisplayName()
	})
	if len(open) > nextCount {
		open = open[:nextCount]
	}

	resp := &FeatureListCLI{Numbered: true, Empty: "All features implemented."}
	for _, r := range open {
		resp.Features = append(resp.Features, FeatureCLI{
			ID:       r.ID,
			Detector: r.Detector,
			Name:     r.DisplayName(),
			Tier:     r.Tier,
			Status:   string(r.Status),
			Summary:  r.Summary,
			ScreenID: r.ScreenID,
		})
	}
	output, err := FormatResponse(resp, OutputFormat(nextFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
