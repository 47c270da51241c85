package task

import "testing"

func TestPhase_IsTerminal(t *testing.T) {
	for _, p := range AllPhases() {
		t.Run(string(p), func(t *testing.T) {
			expected := p == PhaseCompleted
			if got := p.IsTerminal(); got != expected {
				t.Errorf("Phase(%q).IsTerminal() = %v, want %v", p, got, expected)
			}
		})
	}
}

func TestPhase_IsWaiting(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected bool
	}{
		{PhaseWaitingForInfo, true},
		{PhaseWaitingForSelection, true},
		{PhaseClassifyIntent, false},
		{PhaseAskUser, false},
		{PhasePresentOptions, false},
		{PhaseCompleted, false},
		{PhaseError, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			if got := tt.phase.IsWaiting(); got != tt.expected {
				t.Errorf("Phase(%q).IsWaiting() = %v, want %v", tt.phase, got, tt.expected)
			}
		})
	}
}

func TestPhase_IsValid(t *testing.T) {
	for _, p := range AllPhases() {
		if !p.IsValid() {
			t.Errorf("Phase(%q).IsValid() = false, want true", p)
		}
	}

	invalid := []Phase{"", "unknown", "CLASSIFY_INTENT", "book"}
	for _, p := range invalid {
		if p.IsValid() {
			t.Errorf("Phase(%q).IsValid() = true, want false", p)
		}
	}
}

func TestStepPhases_ExcludesMarkers(t *testing.T) {
	for _, p := range StepPhases() {
		if p.IsWaiting() {
			t.Errorf("StepPhases() contains waiting marker %q", p)
		}
		if p.IsTerminal() {
			t.Errorf("StepPhases() contains terminal phase %q", p)
		}
	}

	if len(StepPhases()) != 12 {
		t.Errorf("len(StepPhases()) = %d, want 12", len(StepPhases()))
	}
}
