package statemachine

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/maitre/domain/ledger"
	"github.com/felixgeelhaar/maitre/domain/task"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    task.Phase
		to      task.Phase
		allowed bool
	}{
		{task.PhaseClassifyIntent, task.PhaseExtractParameters, true},
		{task.PhaseClassifyIntent, task.PhaseSearch, false},
		{task.PhaseCheckCompleteness, task.PhaseAskUser, true},
		{task.PhaseCheckCompleteness, task.PhaseSearch, true},
		{task.PhaseCheckCompleteness, task.PhaseBook, false},
		{task.PhaseAskUser, task.PhaseWaitingForInfo, true},
		{task.PhaseWaitingForInfo, task.PhaseExtractParameters, true},
		{task.PhaseWaitingForInfo, task.PhaseSearch, false},
		{task.PhasePresentOptions, task.PhaseWaitingForSelection, true},
		{task.PhaseWaitingForSelection, task.PhaseBook, true},
		{task.PhaseBook, task.PhaseFinalize, true},
		{task.PhaseBook, task.PhaseFallbackVoice, true},
		{task.PhaseFallbackVoice, task.PhaseFinalize, true},
		{task.PhaseFallbackVoice, task.PhaseBook, false},
		{task.PhaseFinalize, task.PhaseCompleted, true},
		{task.PhaseFinalize, task.PhaseError, false},
		{task.PhaseError, task.PhaseCompleted, true},
		{task.PhaseCompleted, task.PhaseClassifyIntent, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

// Every non-terminal phase except finalize must have an ERROR edge so the
// loop guard can force the error path from anywhere.
func TestCanTransition_ErrorEdgeCoverage(t *testing.T) {
	for _, p := range task.AllPhases() {
		if p.IsTerminal() || p == task.PhaseFinalize || p == task.PhaseError {
			continue
		}
		if !CanTransition(p, task.PhaseError) {
			t.Errorf("no error edge from %q", p)
		}
	}
}

func newTestInterpreter(t *testing.T) (*Interpreter, *task.Task, *ledger.Ledger) {
	t.Helper()

	machine, err := NewTaskMachine()
	if err != nil {
		t.Fatalf("NewTaskMachine() error = %v", err)
	}

	tk := task.New("t-1", "book a table")
	l := ledger.New(tk.ID)
	return NewInterpreter(machine, NewContext(tk, l)), tk, l
}

func TestInterpreter_StartAndTransition(t *testing.T) {
	interp, tk, l := newTestInterpreter(t)

	interp.Start()
	if tk.Phase != task.PhaseClassifyIntent {
		t.Fatalf("initial phase = %q, want %q", tk.Phase, task.PhaseClassifyIntent)
	}
	if tk.Status != task.StatusRunning {
		t.Errorf("Status = %q, want running", tk.Status)
	}

	if err := interp.Transition(task.PhaseExtractParameters, "classified"); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if tk.Phase != task.PhaseExtractParameters {
		t.Errorf("phase = %q, want %q", tk.Phase, task.PhaseExtractParameters)
	}

	transitions := l.EntriesByType(ledger.EntryPhaseTransition)
	if len(transitions) != 1 {
		t.Fatalf("transition entries = %d, want 1", len(transitions))
	}
}

func TestInterpreter_RejectsIllegalTransition(t *testing.T) {
	interp, tk, _ := newTestInterpreter(t)
	interp.Start()

	err := interp.Transition(task.PhaseBook, "skip ahead")
	if !errors.Is(err, task.ErrInvalidPhase) {
		t.Fatalf("Transition() error = %v, want ErrInvalidPhase", err)
	}
	if tk.Phase != task.PhaseClassifyIntent {
		t.Errorf("phase changed to %q after rejected transition", tk.Phase)
	}
}

func TestInterpreter_ResumeFrom(t *testing.T) {
	interp, tk, _ := newTestInterpreter(t)

	tk.Phase = task.PhaseBook
	if err := interp.ResumeFrom(task.PhaseBook); err != nil {
		t.Fatalf("ResumeFrom() error = %v", err)
	}
	if interp.Phase() != task.PhaseBook {
		t.Errorf("Phase() = %q, want %q", interp.Phase(), task.PhaseBook)
	}

	// Booking may escalate to voice from the restored phase.
	if err := interp.Transition(task.PhaseFallbackVoice, "primary declined"); err != nil {
		t.Fatalf("Transition() after resume error = %v", err)
	}
	if tk.Phase != task.PhaseFallbackVoice {
		t.Errorf("phase = %q, want %q", tk.Phase, task.PhaseFallbackVoice)
	}
}

func TestInterpreter_TerminalDetection(t *testing.T) {
	interp, _, _ := newTestInterpreter(t)
	interp.Start()

	steps := []struct {
		to     task.Phase
		reason string
	}{
		{task.PhaseError, "forced"},
		{task.PhaseCompleted, "done"},
	}
	for _, s := range steps {
		if err := interp.Transition(s.to, s.reason); err != nil {
			t.Fatalf("Transition(%q) error = %v", s.to, err)
		}
	}

	if !interp.IsTerminal() {
		t.Error("IsTerminal() = false at completed phase")
	}
}
