package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"penaudit/internal/report"
	"penaudit/internal/state"
)

var (
	planFormat string
	planOutput string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate development artifacts from the feature inventory",
	Long: `Render the persisted inventory into development artifacts: a markdown
feature inventory, a route manifest, issue-tracker task payloads, page
stubs, and end-to-end test skeletons.

Formats: markdown, routes, jira, stubs, tests, all. Without --output the
artifact is printed; with it, files are written under the directory.`,
	Run: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planFormat, "format", "markdown",
		"Artifact to generate (markdown, routes, jira, stubs, tests, all)")
	planCmd.Flags().StringVar(&planOutput, "output", "", "Output directory")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, "human")
	engine, store := mustGetEngine(cfg, logger)
	defer store.Close()

	s, err := engine.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
		os.Exit(1)
	}
	if len(s.Features) == 0 {
		fmt.Println("No scan data. Run: pen-audit scan <file>")
		return
	}

	want := func(f string) bool { return planFormat == f || planFormat == "all" }
	generated := false

	if want("markdown") {
		emit("feature-inventory.md", []byte(report.Markdown(s)))
		generated = true
	}
	if want("routes") {
		data, err := report.Routes(s).JSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating routes: %v\n", err)
			os.Exit(1)
		}
		emit("routes.json", data)
		generated = true
	}
	if want("jira") {
		trackerCfg, err := report.LoadTrackerConfig(cfg.ProjectDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading tracker config: %v\n", err)
			os.Exit(1)
		}
		tasks := report.TrackerTasks(s, trackerCfg)
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating tasks: %v\n", err)
			os.Exit(1)
		}
		emit("jira-tasks.json", data)
		generated = true
	}
	if want("stubs") {
		emitFiles(planOutput, pageStubFiles(s, cfg.Match.AppDir))
		generated = true
	}
	if want("tests") {
		emitFiles(planOutput, testSkeletonFiles(s))
		generated = true
	}

	if !generated {
		fmt.Fprintf(os.Stderr, "Unknown format %q (markdown, routes, jira, stubs, tests, all)\n", planFormat)
		os.Exit(1)
	}
}

// emit prints the artifact, or writes it under --output when set.
func emit(name string, data []byte) {
	if planOutput == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.MkdirAll(planOutput, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	path := filepath.Join(planOutput, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", path)
}

func pageStubFiles(s *state.State, appDir string) map[string][]byte {
	files := make(map[string][]byte)
	for _, stub := range report.PageStubs(s, appDir) {
		files[stub.Path] = []byte(stub.Content)
	}
	return files
}

func testSkeletonFiles(s *state.State) map[string][]byte {
	files := make(map[string][]byte)
	for _, skel := range report.TestSkeletons(s) {
		files[skel.Path] = []byte(skel.Content)
	}
	return files
}

// emitFiles writes multi-file artifacts, or prints them separated by a
// header when no output directory is set.
func emitFiles(outputDir string, files map[string][]byte) {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	if outputDir == "" {
		for _, path := range paths {
			fmt.Printf("--- %s ---\n%s\n", path, files[path])
		}
		return
	}
	for _, path := range paths {
		data := files[path]
		full := filepath.Join(outputDir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(full, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", full, err)
			os.Exit(1)
		}
		fmt.Printf("Written: %s\n", full)
	}
}
