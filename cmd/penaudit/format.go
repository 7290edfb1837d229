package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"penaudit/internal/state"
	"penaudit/internal/tier"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *ScanResponseCLI:
		return formatScanHuman(v)
	case *StatusResponseCLI:
		return formatStatusHuman(v)
	case *FeatureListCLI:
		return formatFeatureListHuman(v)
	case *ResolveResponseCLI:
		return formatResolveHuman(v)
	case *MatchResponseCLI:
		return formatMatchHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatScanHuman(resp *ScanResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("pen-audit scan results\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Source:      %s\n", resp.SourceFile))
	b.WriteString(fmt.Sprintf("Screens:     %d\n", resp.Screens))
	b.WriteString(fmt.Sprintf("Components:  %d\n", resp.Components))
	b.WriteString(fmt.Sprintf("Features:    %d\n\n", resp.Features))

	if resp.Stats != nil {
		for _, t := range tier.All() {
			ts, ok := resp.Stats.ByTier[int(t)]
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("T%d (%s): %3d features\n", int(t), t.Name(), ts.Total))
		}
		b.WriteString(fmt.Sprintf("\nCompletion: %.1f%% (%d/%d)\n",
			resp.Stats.Percent, resp.Stats.Implemented, resp.Stats.Total))
	}

	if resp.Added > 0 {
		b.WriteString(fmt.Sprintf("\n+%d new features detected\n", resp.Added))
	}
	if resp.Removed > 0 {
		b.WriteString(fmt.Sprintf("-%d removed from design\n", resp.Removed))
	}

	if len(resp.ByDetector) > 0 {
		b.WriteString("\nFeatures by detector:\n")
		detectors := make([]string, 0, len(resp.ByDetector))
		for d := range resp.ByDetector {
			detectors = append(detectors, d)
		}
		sort.Strings(detectors)
		for _, d := range detectors {
			b.WriteString(fmt.Sprintf("  %-15s %3d\n", d, resp.ByDetector[d]))
		}
	}

	for _, w := range resp.Warnings {
		b.WriteString(fmt.Sprintf("\n! %s: %s\n", w.Detector, w.Message))
	}

	return b.String(), nil
}

func formatStatusHuman(resp *StatusResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("pen-audit status\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if resp.Stats == nil || resp.Stats.Total == 0 {
		b.WriteString("No scan data. Run: pen-audit scan <file>\n")
		return b.String(), nil
	}

	stats := resp.Stats
	b.WriteString(fmt.Sprintf("Progress: %s %.1f%%\n", progressBar(stats.Percent, 30), stats.Percent))
	b.WriteString(fmt.Sprintf("%d/%d implemented, %d deferred, %d out-of-scope, %d open\n",
		stats.Implemented, stats.Total, stats.Deferred, stats.OutOfScope, stats.Open))
	b.WriteString(fmt.Sprintf("Effort-weighted: %.1f%%\n\n", stats.EffortScore))

	for _, t := range tier.All() {
		ts, ok := stats.ByTier[int(t)]
		if !ok {
			continue
		}
		pct := 0.0
		if ts.Total > 0 {
			pct = float64(ts.Done) / float64(ts.Total) * 100
		}
		b.WriteString(fmt.Sprintf("  T%d %-9s %s %3.0f%%  %d/%d\n",
			int(t), t.Name(), progressBar(pct, 15), pct, ts.Done, ts.Total))
	}

	if resp.LastScan != "" {
		b.WriteString(fmt.Sprintf("\nLast scan: %s (#%d", resp.LastScan, resp.ScanCount))
		if resp.SourceFile != "" {
			b.WriteString(", " + resp.SourceFile)
		}
		b.WriteString(")\n")
	}

	return b.String(), nil
}

func progressBar(pct float64, width int) string {
	filled := int(pct/100*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatFeatureListHuman(resp *FeatureListCLI) (string, error) {
	var b strings.Builder

	if len(resp.Features) == 0 {
		if resp.Empty != "" {
			return resp.Empty + "\n", nil
		}
		return "No matching features.\n", nil
	}

	b.WriteString(fmt.Sprintf("%d features:\n\n", len(resp.Features)))
	for i, f := range resp.Features {
		if resp.Numbered {
			b.WriteString(fmt.Sprintf("%2d. [T%d] %s %s\n", i+1, f.Tier, statusIcon(f.Status), f.Summary))
		} else {
			b.WriteString(fmt.Sprintf("[T%d] %s %-12s %s\n", f.Tier, statusIcon(f.Status), f.Detector, f.Summary))
		}
		b.WriteString(fmt.Sprintf("    ID: %s\n", f.ID))
	}

	return b.String(), nil
}

func statusIcon(s string) string {
	switch state.Status(s) {
	case state.StatusImplemented:
		return "●"
	case state.StatusDeferred:
		return "◐"
	case state.StatusOutOfScope:
		return "◌"
	default:
		return "○"
	}
}

func formatResolveHuman(resp *ResolveResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Resolved %d feature(s) as %s:\n", len(resp.Resolved), resp.Status))
	for _, id := range resp.Resolved {
		b.WriteString("  " + id + "\n")
	}
	if resp.Stats != nil {
		b.WriteString(fmt.Sprintf("\nCompletion: %.1f%% (%d/%d)\n",
			resp.Stats.Percent, resp.Stats.Implemented, resp.Stats.Total))
	}

	return b.String(), nil
}

func formatMatchHuman(resp *MatchResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("pen-audit match")
	if resp.DryRun {
		b.WriteString(" (dry run)")
	}
	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")

	if len(resp.Matched) > 0 {
		b.WriteString(fmt.Sprintf("\nImplemented (%d):\n", len(resp.Matched)))
		for _, m := range resp.Matched {
			routeTag := ""
			if m.HasRoute {
				routeTag = " [+route]"
			}
			b.WriteString(fmt.Sprintf("  %s%s (%s)\n", m.ScreenName, routeTag, m.MatchedVia))
		}
	}
	if len(resp.Stub) > 0 {
		b.WriteString(fmt.Sprintf("\nStubs (%d):\n", len(resp.Stub)))
		for _, s := range resp.Stub {
			b.WriteString(fmt.Sprintf("  %s -> %s\n", s.ScreenName, s.PagePath))
		}
	}
	if len(resp.Missing) > 0 {
		b.WriteString(fmt.Sprintf("\nMissing (%d):\n", len(resp.Missing)))
		for _, m := range resp.Missing {
			b.WriteString(fmt.Sprintf("  %s (expected: /app/%s)\n", m.ScreenName, m.ExpectedSlug))
		}
	}
	if !resp.DryRun && len(resp.Matched) > 0 {
		b.WriteString(fmt.Sprintf("\nAuto-resolved %d screens as implemented\n", len(resp.Matched)))
	}

	return b.String(), nil
}
