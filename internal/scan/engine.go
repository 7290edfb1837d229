// Package scan orchestrates one audit pass: load prior state, run the
// detector pipeline, reconcile, persist. A scan that fails anywhere before
// the save leaves the persisted state untouched.
package scan

import (
	"context"
	"time"

	"penaudit/internal/detect"
	"penaudit/internal/logging"
	"penaudit/internal/pen"
	"penaudit/internal/state"
)

// Engine wires the detector pipeline to a state store.
type Engine struct {
	store    state.Store
	pipeline *detect.Pipeline
	logger   *logging.Logger
	now      func() time.Time
}

// NewEngine creates a scan engine.
func NewEngine(store state.Store, pipeline *detect.Pipeline, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{store: store, pipeline: pipeline, logger: logger, now: time.Now}
}

// Result is the outcome of one scan.
type Result struct {
	State      *state.State       `json:"state"`
	Diff       *state.Diff        `json:"diff"`
	Candidates []detect.Candidate `json:"candidates"`
	Warnings   []detect.Warning   `json:"warnings,omitempty"`
	Screens    int                `json:"screens"`
	Components int                `json:"components"`
}

// Scan runs the full pass over a parsed document and persists the next
// state.
func (e *Engine) Scan(ctx context.Context, doc *pen.Document) (*Result, error) {
	prior, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	run, err := e.pipeline.Run(ctx, doc)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Pipeline finished", map[string]interface{}{
		"candidates": len(run.Candidates),
		"warnings":   len(run.Warnings),
	})

	next, diff, err := state.Reconcile(prior, run.Candidates, doc.SourceFile, e.now())
	if err != nil {
		return nil, err
	}

	if err := e.store.Save(next); err != nil {
		return nil, err
	}

	added, updated, removed := diff.Counts()
	e.logger.Info("Scan complete", map[string]interface{}{
		"total":   len(next.Features),
		"added":   added,
		"updated": updated,
		"removed": removed,
	})

	result := &Result{
		State:      next,
		Diff:       diff,
		Candidates: run.Candidates,
		Warnings:   run.Warnings,
	}
	for _, c := range run.Candidates {
		switch c.Category {
		case "screen":
			result.Screens++
		case "component":
			result.Components++
		}
	}
	return result, nil
}

// Resolve applies a status to every persisted feature matching the selector
// and saves the updated state.
func (e *Engine) Resolve(selector string, status state.Status) ([]string, *state.State, error) {
	s, err := e.store.Load()
	if err != nil {
		return nil, nil, err
	}
	resolved, err := state.Resolve(s, selector, status, e.now())
	if err != nil {
		return nil, nil, err
	}
	if err := e.store.Save(s); err != nil {
		return nil, nil, err
	}
	e.logger.Info("Features resolved", map[string]interface{}{
		"selector": selector,
		"status":   string(status),
		"count":    len(resolved),
	})
	return resolved, s, nil
}

// Status loads the persisted inventory without scanning.
func (e *Engine) Status() (*state.State, error) {
	return e.store.Load()
}
