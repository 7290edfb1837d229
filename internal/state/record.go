// Package state holds the persisted feature inventory and the reconciliation
// algorithm that merges fresh scan candidates into it without destroying
// human-entered resolution decisions.
package state

import (
	"fmt"
	"time"
)

// CurrentVersion is the state schema version written by this build.
const CurrentVersion = 1

// Status is the human-assigned lifecycle flag on a persisted feature.
type Status string

const (
	StatusOpen        Status = "open"
	StatusImplemented Status = "implemented"
	StatusDeferred    Status = "deferred"
	StatusOutOfScope  Status = "out_of_scope"
)

// ResolveStatuses are the statuses a resolve action may assign.
var ResolveStatuses = []Status{StatusImplemented, StatusDeferred, StatusOutOfScope, StatusOpen}

// ParseStatus validates a status string from user input.
func ParseStatus(s string) (Status, error) {
	for _, valid := range ResolveStatuses {
		if Status(s) == valid {
			return valid, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (valid: open, implemented, deferred, out_of_scope)", s)
}

// Record is one durable feature entry, keyed by fingerprint. Status is
// mutated only by an explicit resolve action; everything except Status,
// NameOverride, and FirstSeen refreshes on every scan the fingerprint
// recurs in.
type Record struct {
	ID           string                 `json:"id"`
	Fingerprint  string                 `json:"fingerprint"`
	Detector     string                 `json:"detector"`
	Name         string                 `json:"name"`
	NameOverride string                 `json:"nameOverride,omitempty"`
	Category     string                 `json:"category"`
	Summary      string                 `json:"summary"`
	Tier         int                    `json:"tier"`
	ScreenID     string                 `json:"screenId,omitempty"`
	Status       Status                 `json:"status"`
	FirstSeen    string                 `json:"firstSeen"`
	LastSeen     string                 `json:"lastSeen"`
	Meta         map[string]interface{} `json:"meta,omitempty"`
}

// DisplayName returns the override when set, the detected name otherwise.
func (r *Record) DisplayName() string {
	if r.NameOverride != "" {
		return r.NameOverride
	}
	return r.Name
}

// State is the full persisted inventory plus scan bookkeeping.
type State struct {
	Version    int                `json:"version"`
	Created    string             `json:"created"`
	LastScan   string             `json:"lastScan,omitempty"`
	ScanCount  int                `json:"scanCount"`
	SourceFile string             `json:"sourceFile,omitempty"`
	Features   map[string]*Record `json:"features"`
	Stats      *Summary           `json:"stats,omitempty"`
}

// NewState returns an empty inventory created at the given time.
func NewState(now time.Time) *State {
	return &State{
		Version:  CurrentVersion,
		Created:  Timestamp(now),
		Features: make(map[string]*Record),
	}
}

// Get returns the record with the given feature ID, or nil.
func (s *State) Get(id string) *Record {
	return s.Features[id]
}

// Records returns all records in unspecified order.
func (s *State) Records() []*Record {
	out := make([]*Record, 0, len(s.Features))
	for _, r := range s.Features {
		out = append(out, r)
	}
	return out
}

// Timestamp formats a time the way all persisted timestamps are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
