package detect

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"penaudit/internal/errors"
	"penaudit/internal/identity"
	"penaudit/internal/logging"
	"penaudit/internal/pen"
	"penaudit/internal/tier"
)

// Warning records a detector that failed during a scan. The pipeline
// isolates the failure: the detector's candidates are dropped, everything
// else proceeds.
type Warning struct {
	Detector string `json:"detector"`
	Message  string `json:"message"`
}

// Result is the combined output of one pipeline run.
type Result struct {
	Candidates []Candidate `json:"candidates"`
	Warnings   []Warning   `json:"warnings,omitempty"`
}

// Pipeline runs an ordered set of detectors over an immutable document.
// Detectors share no state, so execution order never affects the candidate
// set; Parallel fan-out is purely a performance option.
type Pipeline struct {
	detectors []Detector
	logger    *logging.Logger
	parallel  bool
}

// NewPipeline creates a pipeline over the given detectors.
func NewPipeline(detectors []Detector, logger *logging.Logger, parallel bool) *Pipeline {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pipeline{detectors: detectors, logger: logger, parallel: parallel}
}

// Detectors returns the configured detector set.
func (p *Pipeline) Detectors() []Detector {
	return p.detectors
}

// Run executes all detectors against the document and returns the combined,
// fingerprinted candidate set.
func (p *Pipeline) Run(ctx context.Context, doc *pen.Document) (*Result, error) {
	outputs := make([][]Candidate, len(p.detectors))
	warnings := make([]*Warning, len(p.detectors))

	if p.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, d := range p.detectors {
			g.Go(func() error {
				outputs[i], warnings[i] = p.runOne(gctx, d, doc)
				return nil
			})
		}
		// runOne never returns an error; failures become warnings.
		_ = g.Wait()
	} else {
		for i, d := range p.detectors {
			outputs[i], warnings[i] = p.runOne(ctx, d, doc)
		}
	}

	result := &Result{}
	for i := range p.detectors {
		if warnings[i] != nil {
			result.Warnings = append(result.Warnings, *warnings[i])
			continue
		}
		result.Candidates = append(result.Candidates, outputs[i]...)
	}

	for i := range result.Candidates {
		finalize(&result.Candidates[i])
	}

	// Candidate order must not depend on scheduling.
	sort.Slice(result.Candidates, func(a, b int) bool {
		return result.Candidates[a].ID < result.Candidates[b].ID
	})

	return result, nil
}

// runOne executes a single detector, converting both returned errors and
// panics (unexpected node shapes) into warnings.
func (p *Pipeline) runOne(ctx context.Context, d Detector, doc *pen.Document) (candidates []Candidate, warning *Warning) {
	defer func() {
		if r := recover(); r != nil {
			candidates = nil
			warning = p.warn(d, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, p.warn(d, err)
	}

	out, err := d.Detect(doc)
	if err != nil {
		return nil, p.warn(d, err)
	}
	return out, nil
}

func (p *Pipeline) warn(d Detector, cause error) *Warning {
	err := errors.New(errors.DetectorFailed,
		fmt.Sprintf("detector %q failed; its candidates are dropped for this scan", d.Name()), cause)
	p.logger.Warn("Detector failed", map[string]interface{}{
		"detector": d.Name(),
		"error":    err.Error(),
	})
	return &Warning{Detector: d.Name(), Message: err.Error()}
}

// finalize applies cross-detector escalation and computes identity.
// A device-API keyword anywhere in the candidate's subtree escalates it to
// TierAdvanced regardless of originating detector.
func finalize(c *Candidate) {
	if c.AnchorNode != nil && c.Tier != tier.TierAdvanced {
		if tier.HasDeviceAPISignal(subtreeText(c.AnchorNode)) {
			c.Tier = tier.TierAdvanced
		}
	}

	c.Fingerprint = identity.Fingerprint(c.Detector, c.Name, c.Anchor)
	c.ID = identity.FeatureID(c.Detector, c.Fingerprint)
}

// subtreeText concatenates node names and text content for keyword scans.
func subtreeText(n *pen.Node) string {
	var b strings.Builder
	n.Walk(func(node *pen.Node) {
		if node.Name != "" {
			b.WriteString(node.Name)
			b.WriteByte(' ')
		}
		if node.Content != "" {
			b.WriteString(node.Content)
			b.WriteByte(' ')
		}
	})
	return b.String()
}
