package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"penaudit/internal/detect"
	"penaudit/internal/pen"
	"penaudit/internal/scan"
	"penaudit/internal/state"
)

var scanFormat string

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Scan a .pen export and detect UI features",
	Long: `Parse a .pen JSON export, run all detectors, and reconcile the detected
features into the persisted inventory. Features resolved in earlier scans
keep their status when the design still contains them.`,
	Args: cobra.ExactArgs(1),
	Run:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, scanFormat)
	engine, store := mustGetEngine(cfg, logger)
	defer store.Close()

	doc, err := pen.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", args[0], err)
		os.Exit(1)
	}

	result, err := engine.Scan(newContext(), doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning: %v\n", err)
		os.Exit(1)
	}

	output, err := FormatResponse(convertScanResult(result), OutputFormat(scanFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// ScanResponseCLI summarizes one scan for CLI output
type ScanResponseCLI struct {
	SourceFile string           `json:"sourceFile"`
	Screens    int              `json:"screens"`
	Components int              `json:"components"`
	Features   int              `json:"features"`
	Added      int              `json:"added"`
	Updated    int              `json:"updated"`
	Removed    int              `json:"removed"`
	Stats      *state.Summary   `json:"stats"`
	ByDetector map[string]int   `json:"byDetector"`
	Warnings   []detect.Warning `json:"warnings,omitempty"`
}

func convertScanResult(result *scan.Result) *ScanResponseCLI {
	byDetector := make(map[string]int)
	for _, c := range result.Candidates {
		byDetector[c.Detector]++
	}

	added, updated, removed := result.Diff.Counts()
	return &ScanResponseCLI{
		SourceFile: result.State.SourceFile,
		Screens:    result.Screens,
		Components: result.Components,
		Features:   len(result.Candidates),
		Added:      added,
		Updated:    updated,
		Removed:    removed,
		Stats:      result.State.Stats,
		ByDetector: byDetector,
		Warnings:   result.Warnings,
	}
}
