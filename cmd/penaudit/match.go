package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"penaudit/internal/match"
)

var (
	matchFormat    string
	matchAppSubdir string
	matchDryRun    bool
)

var matchCmd = &cobra.Command{
	Use:   "match <codebase-dir>",
	Short: "Match features against a codebase to auto-resolve implemented ones",
	Long: `Scan an App Router codebase for pages implementing the open screens and
mark matched screens implemented. Stub pages, near-empty or announcing
"Coming Soon", never count as implemented.`,
	Args: cobra.ExactArgs(1),
	Run:  runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchFormat, "format", "human", "Output format (json, human)")
	matchCmd.Flags().StringVar(&matchAppSubdir, "app-subdir", "",
		"App subdirectory within the codebase (e.g. apps/mobile-web)")
	matchCmd.Flags().BoolVar(&matchDryRun, "dry-run", false, "Report matches without modifying state")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, matchFormat)
	if matchAppSubdir == "" {
		matchAppSubdir = cfg.Match.AppDir
	}
	store, err := newStore(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	s, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
		os.Exit(1)
	}
	if len(s.Features) == 0 {
		fmt.Println("No scan data. Run: pen-audit scan <file>")
		return
	}

	matcher := match.NewMatcher(logger)
	matcher.RoutesFile = cfg.Match.RoutesFile
	result, err := matcher.Match(s, args[0], matchAppSubdir, matchDryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching: %v\n", err)
		os.Exit(1)
	}

	if !matchDryRun && len(result.Matched) > 0 {
		if err := store.Save(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving state: %v\n", err)
			os.Exit(1)
		}
	}

	resp := &MatchResponseCLI{Result: result, DryRun: matchDryRun}
	output, err := FormatResponse(resp, OutputFormat(matchFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// MatchResponseCLI reports a codebase match for CLI output
type MatchResponseCLI struct {
	*match.Result
	DryRun bool `json:"dryRun"`
}
