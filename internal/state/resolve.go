package state

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"penaudit/internal/errors"
)

// Resolve sets the status of every feature matching the selector and returns
// the affected IDs, sorted. A selector matches a record by exact feature ID,
// by fingerprint prefix (at least 8 hex chars), by screen ID, or by
// case-insensitive substring of the feature ID or display name.
//
// Resolving is the only path that changes a record's status after creation.
func Resolve(s *State, selector string, status Status, now time.Time) ([]string, error) {
	if selector == "" {
		return nil, errors.New(errors.UnknownFeature, "empty feature selector", nil)
	}

	var resolved []string
	for id, r := range s.Features {
		if !matches(r, selector) {
			continue
		}
		if r.Status != status {
			r.Status = status
			r.LastSeen = Timestamp(now)
		}
		resolved = append(resolved, id)
	}

	if len(resolved) == 0 {
		return nil, errors.New(errors.UnknownFeature,
			fmt.Sprintf("no feature matches %q", selector), nil)
	}

	sort.Strings(resolved)
	s.Stats = Compute(s.Records())
	return resolved, nil
}

func matches(r *Record, selector string) bool {
	if r.ID == selector || r.ScreenID == selector {
		return true
	}
	if len(selector) >= 8 && strings.HasPrefix(r.Fingerprint, selector) {
		return true
	}
	lower := strings.ToLower(selector)
	return strings.Contains(strings.ToLower(r.ID), lower) ||
		strings.Contains(strings.ToLower(r.DisplayName()), lower)
}
