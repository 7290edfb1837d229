package state

import (
	"fmt"
	"sort"
	"time"

	"penaudit/internal/detect"
	"penaudit/internal/errors"
)

// Diff summarizes one reconciliation: which feature IDs were inserted,
// refreshed, and dropped.
type Diff struct {
	Added   []string `json:"added,omitempty"`
	Updated []string `json:"updated,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// Counts returns (added, updated, removed) sizes.
func (d *Diff) Counts() (int, int, int) {
	return len(d.Added), len(d.Updated), len(d.Removed)
}

// Reconcile merges a fresh candidate set against prior state and returns the
// next state. Prior is never mutated; the caller persists the returned state
// as one transaction.
//
// Outcomes per fingerprint:
//   - new in this scan: inserted with status open
//   - present in both: status, name override, and first-seen carried
//     forward; tier, summary, and metadata refreshed from the candidate
//   - absent from this scan: dropped
//
// Two candidates sharing a fingerprint indicate broken identity derivation
// and fail the whole scan.
func Reconcile(prior *State, candidates []detect.Candidate, sourceFile string, now time.Time) (*State, *Diff, error) {
	if prior == nil {
		prior = NewState(now)
	}

	byID := make(map[string]*detect.Candidate, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if dup, ok := byID[c.ID]; ok {
			return nil, nil, errors.New(errors.ReconciliationConflict,
				fmt.Sprintf("candidates %q and %q from detector %q share fingerprint %s",
					dup.Name, c.Name, c.Detector, c.Fingerprint), nil)
		}
		byID[c.ID] = c
	}

	ts := Timestamp(now)
	next := &State{
		Version:    CurrentVersion,
		Created:    prior.Created,
		LastScan:   ts,
		ScanCount:  prior.ScanCount + 1,
		SourceFile: sourceFile,
		Features:   make(map[string]*Record, len(byID)),
	}
	if next.Created == "" {
		next.Created = ts
	}
	if sourceFile == "" {
		next.SourceFile = prior.SourceFile
	}

	diff := &Diff{}

	for id, c := range byID {
		if old := prior.Features[id]; old != nil {
			next.Features[id] = &Record{
				ID:           old.ID,
				Fingerprint:  old.Fingerprint,
				Detector:     old.Detector,
				Name:         c.Name,
				NameOverride: old.NameOverride,
				Category:     c.Category,
				Summary:      c.Summary,
				Tier:         int(c.Tier),
				ScreenID:     c.ScreenID,
				Status:       old.Status,
				FirstSeen:    old.FirstSeen,
				LastSeen:     ts,
				Meta:         c.Meta,
			}
			diff.Updated = append(diff.Updated, id)
			continue
		}
		next.Features[id] = &Record{
			ID:          c.ID,
			Fingerprint: c.Fingerprint,
			Detector:    c.Detector,
			Name:        c.Name,
			Category:    c.Category,
			Summary:     c.Summary,
			Tier:        int(c.Tier),
			ScreenID:    c.ScreenID,
			Status:      StatusOpen,
			FirstSeen:   ts,
			LastSeen:    ts,
			Meta:        c.Meta,
		}
		diff.Added = append(diff.Added, id)
	}

	for id := range prior.Features {
		if _, still := byID[id]; !still {
			diff.Removed = append(diff.Removed, id)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Updated)
	sort.Strings(diff.Removed)

	next.Stats = Compute(next.Records())

	return next, diff, nil
}
