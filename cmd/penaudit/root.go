package main

import (
	"github.com/spf13/cobra"

	"penaudit/internal/version"
)

var (
	// projectFlag is the CLI --project flag value
	projectFlag string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "pen-audit",
	Short: "pen-audit - design export feature scanner",
	Long: `pen-audit scans .pen design document exports, detects the UI features they
describe, and tracks implementation progress across scans. Detected features
keep a stable identity across design edits, so resolution decisions survive
re-exports.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("pen-audit version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", ".",
		"Project directory holding the .pen-audit state")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Enable debug logging")
}
