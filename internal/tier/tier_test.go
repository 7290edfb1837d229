package tier

import "testing"

func TestClassifyScreen(t *testing.T) {
	tests := []struct {
		name    string
		signals Signals
		want    Tier
	}{
		{"empty", Signals{}, TierStatic},
		{"text only", Signals{"text_nodes": 12}, TierStatic},
		{"forms", Signals{"forms": 2}, TierStandard},
		{"lists and cards", Signals{"lists": 3, "cards": 1}, TierStandard},
		{"charts win over forms", Signals{"forms": 2, "charts": 1}, TierComplex},
		{"drag and drop", Signals{"drag_drop": 1}, TierComplex},
		{"camera wins over everything", Signals{"forms": 2, "charts": 1, "camera": 1}, TierAdvanced},
		{"map", Signals{"map": 1}, TierAdvanced},
		{"zero counts ignored", Signals{"camera": 0, "forms": 0}, TierStatic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyScreen(tt.signals); got != tt.want {
				t.Errorf("ClassifyScreen(%v) = %v, want %v", tt.signals, got, tt.want)
			}
		})
	}
}

func TestClassifyScreenDeterministic(t *testing.T) {
	signals := Signals{"forms": 1, "lists": 2, "tabs": 1}
	first := ClassifyScreen(signals)
	for i := 0; i < 10; i++ {
		if got := ClassifyScreen(signals); got != first {
			t.Fatalf("classification not deterministic: %v != %v", got, first)
		}
	}
}

func TestClassifyForm(t *testing.T) {
	if got := ClassifyForm(3); got != TierStandard {
		t.Errorf("ClassifyForm(3) = %v, want T2", got)
	}
	if got := ClassifyForm(5); got != TierStandard {
		t.Errorf("ClassifyForm(5) = %v, want T2", got)
	}
	if got := ClassifyForm(6); got != TierComplex {
		t.Errorf("ClassifyForm(6) = %v, want T3", got)
	}
}

func TestHasDeviceAPISignal(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Barcode Scanner", true},
		{"QR code overlay", true},
		{"Store Map", true},
		{"Settings list", false},
		{"", false},
		{"REALTIME feed", true},
	}

	for _, tt := range tests {
		if got := HasDeviceAPISignal(tt.text); got != tt.want {
			t.Errorf("HasDeviceAPISignal(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestEscalate(t *testing.T) {
	if got := Escalate(TierStandard, true); got != TierAdvanced {
		t.Errorf("Escalate(T2, true) = %v, want T4", got)
	}
	if got := Escalate(TierStandard, false); got != TierStandard {
		t.Errorf("Escalate(T2, false) = %v, want T2", got)
	}
}

func TestTierNamesAndWeights(t *testing.T) {
	tests := []struct {
		tier   Tier
		name   string
		weight int
	}{
		{TierStatic, "Static", 1},
		{TierStandard, "Standard", 2},
		{TierComplex, "Complex", 4},
		{TierAdvanced, "Advanced", 8},
	}

	for _, tt := range tests {
		if tt.tier.Name() != tt.name {
			t.Errorf("%v.Name() = %q, want %q", tt.tier, tt.tier.Name(), tt.name)
		}
		if tt.tier.Weight() != tt.weight {
			t.Errorf("%v.Weight() = %d, want %d", tt.tier, tt.tier.Weight(), tt.weight)
		}
		if !tt.tier.Valid() {
			t.Errorf("%v should be valid", tt.tier)
		}
	}

	if Tier(0).Valid() || Tier(5).Valid() {
		t.Error("out-of-range tiers should be invalid")
	}
	if Tier(1).String() != "T1" {
		t.Errorf("String() = %q, want T1", Tier(1).String())
	}
}
