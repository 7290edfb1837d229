package tier

import "strings"

// Signals are structural feature counts collected from a screen's subtree,
// keyed by signal name ("forms", "charts", "camera", ...).
type Signals map[string]int

// Signal groups, ordered strongest first. A screen is classified by the
// highest group with at least one hit.
var (
	t4Signals = []string{"camera", "scanner", "map", "video", "realtime", "animation", "device_api"}
	t3Signals = []string{"charts", "timers", "builders", "drag_drop", "swipe"}
	t2Signals = []string{"forms", "lists", "cards", "crud", "modals", "tabs"}
)

// ClassifyScreen assigns a tier to a screen from its subtree signal counts.
func ClassifyScreen(signals Signals) Tier {
	for _, s := range t4Signals {
		if signals[s] > 0 {
			return TierAdvanced
		}
	}
	for _, s := range t3Signals {
		if signals[s] > 0 {
			return TierComplex
		}
	}
	for _, s := range t2Signals {
		if signals[s] > 0 {
			return TierStandard
		}
	}
	return TierStatic
}

// ClassifyForm assigns a tier to a form candidate. Small forms are standard
// CRUD work; past five inputs validation and layout push it to complex.
func ClassifyForm(inputCount int) Tier {
	if inputCount > 5 {
		return TierComplex
	}
	return TierStandard
}

// deviceAPIKeywords escalate any candidate to TierAdvanced when found in its
// subtree, regardless of the originating detector. The keyword table is the
// contract; additions belong here, not in detectors.
var deviceAPIKeywords = []string{
	"camera", "scanner", "barcode", "qr",
	"map", "video", "realtime", "real-time", "animation",
}

// DeviceAPIKeywords returns the escalation keyword table.
func DeviceAPIKeywords() []string {
	return deviceAPIKeywords
}

// HasDeviceAPISignal reports whether the normalized text carries a
// device-API keyword. Matching is case-insensitive substring matching over
// node names and text content.
func HasDeviceAPISignal(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range deviceAPIKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Escalate raises base to TierAdvanced when a device-API signal is present.
func Escalate(base Tier, deviceAPI bool) Tier {
	if deviceAPI {
		return TierAdvanced
	}
	return base
}
