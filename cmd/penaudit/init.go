package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"penaudit/internal/config"
	"penaudit/internal/state"
)

var initBackend string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a pen-audit project",
	Long:  "Create the .pen-audit directory with a default configuration",
	Run:   runInit,
}

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", "json", "State backend (json, sqlite)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	configPath := filepath.Join(projectFlag, state.StateDir, "config.json")
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(os.Stderr, "Already initialized: %s\n", configPath)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	cfg.ProjectDir = projectFlag
	cfg.Store.Backend = initBackend
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Save(projectFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Initialized pen-audit project (%s backend)\n", cfg.Store.Backend)
	fmt.Printf("Config: %s\n", configPath)
	fmt.Println("\nNext: pen-audit scan <export.pen.json>")
}
