package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"penaudit/internal/errors"
	"penaudit/internal/state"
)

var resolveFormat string

var resolveCmd = &cobra.Command{
	Use:   "resolve <status> <selector>...",
	Short: "Mark features as implemented, deferred, out_of_scope, or open",
	Long: `Apply a status to every feature matching each selector. A selector is a
feature ID, a screen ID, a fingerprint prefix of at least 8 characters, or a
case-insensitive name substring. Resolving to "open" reopens features.`,
	Args: cobra.MinimumNArgs(2),
	Run:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	status, err := state.ParseStatus(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := loadConfig()
	logger := newLogger(cfg, resolveFormat)
	engine, store := mustGetEngine(cfg, logger)
	defer store.Close()

	var resolved []string
	var s *state.State
	for _, selector := range args[1:] {
		ids, next, err := engine.Resolve(selector, status)
		if err != nil {
			if errors.HasCode(err, errors.UnknownFeature) {
				fmt.Fprintf(os.Stderr, "No features match %q\n", selector)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Error resolving %q: %v\n", selector, err)
			os.Exit(1)
		}
		resolved = append(resolved, ids...)
		s = next
	}

	resp := &ResolveResponseCLI{Status: string(status), Resolved: resolved}
	if s != nil {
		resp.Stats = s.Stats
	}
	output, err := FormatResponse(resp, OutputFormat(resolveFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// ResolveResponseCLI reports a resolve action for CLI output
type ResolveResponseCLI struct {
	Status   string         `json:"status"`
	Resolved []string       `json:"resolved"`
	Stats    *state.Summary `json:"stats,omitempty"`
}
