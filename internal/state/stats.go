package state

import (
	"math"

	"penaudit/internal/tier"
)

// TierStats is the per-tier slice of the completion summary.
type TierStats struct {
	Total int `json:"total"`
	Done  int `json:"done"`
}

// Summary is the completion rollup over a feature inventory. Percent counts
// features; EffortScore weights them by tier so one advanced screen moves
// the needle more than one static page.
type Summary struct {
	Total       int               `json:"total"`
	Open        int               `json:"open"`
	Implemented int               `json:"implemented"`
	Deferred    int               `json:"deferred"`
	OutOfScope  int               `json:"outOfScope"`
	Percent     float64           `json:"pct"`
	EffortScore float64           `json:"effortScore"`
	ByTier      map[int]TierStats `json:"byTier"`
}

// Compute derives the completion summary from a record list.
func Compute(records []*Record) *Summary {
	s := &Summary{ByTier: make(map[int]TierStats)}

	for _, r := range records {
		ts := s.ByTier[r.Tier]
		ts.Total++
		s.Total++
		switch r.Status {
		case StatusImplemented:
			s.Implemented++
			ts.Done++
		case StatusDeferred:
			s.Deferred++
		case StatusOutOfScope:
			s.OutOfScope++
		default:
			s.Open++
		}
		s.ByTier[r.Tier] = ts
	}

	if s.Total > 0 {
		s.Percent = round1(float64(s.Implemented) / float64(s.Total) * 100)
	}

	totalEffort, doneEffort := 0, 0
	for t, ts := range s.ByTier {
		w := tier.Tier(t).Weight()
		totalEffort += w * ts.Total
		doneEffort += w * ts.Done
	}
	if totalEffort > 0 {
		s.EffortScore = round1(float64(doneEffort) / float64(totalEffort) * 100)
	}

	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
