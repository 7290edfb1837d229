package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"penaudit/internal/state"
)

var (
	historyFormat string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past scans",
	Long:  "List previous scan runs, most recent first. Requires the sqlite backend.",
	Run:   runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFormat, "format", "human", "Output format (json, human)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum scans to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, historyFormat)

	if cfg.Store.Backend != "sqlite" {
		fmt.Fprintln(os.Stderr, "Scan history requires the sqlite backend (store.backend = \"sqlite\")")
		os.Exit(1)
	}
	store, err := state.OpenSQLite(cfg.ProjectDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	entries, err := store.ScanHistory(historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading history: %v\n", err)
		os.Exit(1)
	}

	if historyFormat == "json" {
		output, err := formatJSON(entries)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(output)
		return
	}

	if len(entries) == 0 {
		fmt.Println("No scans recorded.")
		return
	}
	for _, e := range entries {
		source := e.SourceFile
		if source == "" {
			source = "-"
		}
		fmt.Printf("%s  %4d features  %s\n", e.RanAt, e.Total, source)
	}
}
