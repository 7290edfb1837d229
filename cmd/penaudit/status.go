package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"penaudit/internal/state"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the completion dashboard",
	Long:  "Display implementation progress over the persisted feature inventory, overall and per tier",
	Run:   runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, statusFormat)
	engine, store := mustGetEngine(cfg, logger)
	defer store.Close()

	s, err := engine.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
		os.Exit(1)
	}

	resp := &StatusResponseCLI{
		Stats:      s.Stats,
		LastScan:   s.LastScan,
		ScanCount:  s.ScanCount,
		SourceFile: s.SourceFile,
	}
	output, err := FormatResponse(resp, OutputFormat(statusFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// StatusResponseCLI contains the completion dashboard for CLI output
type StatusResponseCLI struct {
	Stats      *state.Summary `json:"stats"`
	LastScan   string         `json:"lastScan,omitempty"`
	ScanCount  int            `json:"scanCount"`
	SourceFile string         `json:"sourceFile,omitempty"`
}
