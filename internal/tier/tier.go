// Package tier classifies detected features into implementation complexity
// tiers. Classification is a pure function of a candidate's structural
// content so re-scans of unchanged design content reproduce the same tier.
//
//   - T1: static pages (about, terms, settings), auto-scaffold
//   - T2: standard CRUD screens (forms, lists, detail views)
//   - T3: complex interactive features (charts, timers, builders)
//   - T4: advanced (real-time data, camera, maps, device APIs)
package tier

import "fmt"

// Tier is the ordinal complexity classification of a feature.
type Tier int

const (
	// TierStatic covers screens with no interactive state beyond navigation.
	TierStatic Tier = 1
	// TierStandard covers forms, lists, and detail views with basic CRUD.
	TierStandard Tier = 2
	// TierComplex covers charts, timers, builders, and multi-step flows.
	TierComplex Tier = 3
	// TierAdvanced covers camera, maps, and real-time or device-API features.
	TierAdvanced Tier = 4
)

// Name returns the short user-facing tier name.
func (t Tier) Name() string {
	switch t {
	case TierStatic:
		return "Static"
	case TierStandard:
		return "Standard"
	case TierComplex:
		return "Complex"
	case TierAdvanced:
		return "Advanced"
	default:
		return "Unknown"
	}
}

// Description returns the long tier description.
func (t Tier) Description() string {
	switch t {
	case TierStatic:
		return "Static pages — auto-scaffold"
	case TierStandard:
		return "Standard CRUD screens"
	case TierComplex:
		return "Complex interactive features"
	case TierAdvanced:
		return "Advanced (real-time, device APIs)"
	default:
		return "Unknown tier"
	}
}

// Weight returns the effort weight used for effort-weighted completion.
// Higher tiers take disproportionately more effort to implement.
func (t Tier) Weight() int {
	switch t {
	case TierStatic:
		return 1
	case TierStandard:
		return 2
	case TierComplex:
		return 4
	case TierAdvanced:
		return 8
	default:
		return 2
	}
}

// Valid reports whether t is one of the four defined tiers.
func (t Tier) Valid() bool {
	return t >= TierStatic && t <= TierAdvanced
}

// String implements fmt.Stringer as the compact form used in output (T1..T4).
func (t Tier) String() string {
	return fmt.Sprintf("T%d", int(t))
}

// All returns the tiers in ascending order.
func All() []Tier {
	return []Tier{TierStatic, TierStandard, TierComplex, TierAdvanced}
}
