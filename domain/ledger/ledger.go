package ledger

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// Ledger provides an append-only record of everything that happened
// during a task.
type Ledger struct {
	taskID  string
	entries []Entry
	mu      sync.RWMutex
}

// New creates a new ledger for the given task.
func New(taskID string) *Ledger {
	return &Ledger{
		taskID:  taskID,
		entries: make([]Entry, 0),
	}
}

// Append adds an entry to the ledger.
func (l *Ledger) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.TaskID = l.taskID
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.entries = append(l.entries, entry)
}

// Entries returns a copy of all entries.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// EntriesByType returns entries filtered by type.
func (l *Ledger) EntriesByType(entryType EntryType) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var filtered []Entry
	for _, e := range l.entries {
		if e.Type == entryType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// LastEntry returns the most recent entry, or nil if empty.
func (l *Ledger) LastEntry() *Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return nil
	}
	entry := l.entries[len(l.entries)-1]
	return &entry
}

// Count returns the number of entries.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// TaskID returns the associated task ID.
func (l *Ledger) TaskID() string {
	return l.taskID
}

// RecordTaskStarted records the start of a task.
func (l *Ledger) RecordTaskStarted(utterance string) {
	l.Append(NewEntry(EntryTaskStarted, l.taskID, task.PhaseClassifyIntent, map[string]string{
		"utterance": utterance,
	}))
}

// RecordTaskCompleted records the terminal completion of a task.
func (l *Ledger) RecordTaskCompleted(outcome task.BookingOutcome) {
	l.Append(NewEntry(EntryTaskCompleted, l.taskID, task.PhaseCompleted, OutcomeDetails{
		Outcome: outcome,
	}))
}

// RecordTaskFailed records a task ending on the error path.
func (l *Ledger) RecordTaskFailed(phase task.Phase, reason string) {
	l.Append(NewEntry(EntryTaskFailed, l.taskID, phase, map[string]string{
		"reason": reason,
	}))
}

// RecordStepDispatched records the engine dispatching a step.
func (l *Ledger) RecordStepDispatched(phase task.Phase, iteration int) {
	l.Append(NewEntry(EntryStepDispatched, l.taskID, phase, map[string]int{
		"iteration": iteration,
	}))
}

// RecordTransition records a phase transition.
func (l *Ledger) RecordTransition(from, to task.Phase, reason string) {
	l.Append(NewEntry(EntryPhaseTransition, l.taskID, to, TransitionDetails{
		FromPhase: from,
		ToPhase:   to,
		Reason:    reason,
	}))
}

// RecordProviderCall records a collaborator invocation.
func (l *Ledger) RecordProviderCall(phase task.Phase, name string, duration time.Duration) {
	l.Append(NewEntry(EntryProviderCall, l.taskID, phase, ProviderCallDetails{
		Provider: name,
		Duration: duration,
	}))
}

// RecordProviderError records a collaborator failure.
func (l *Ledger) RecordProviderError(phase task.Phase, name string, err error) {
	l.Append(NewEntry(EntryProviderError, l.taskID, phase, ProviderErrorDetails{
		Provider: name,
		Error:    err.Error(),
	}))
}

// RecordSuspended records the task parking at a suspend point.
func (l *Ledger) RecordSuspended(at task.Phase) {
	l.Append(NewEntry(EntrySuspended, l.taskID, at, SuspensionDetails{At: at}))
}

// RecordResumed records the task re-entering the loop with new input.
func (l *Ledger) RecordResumed(from task.Phase, input string) {
	l.Append(NewEntry(EntryResumed, l.taskID, from, SuspensionDetails{
		At:    from,
		Input: input,
	}))
}

// RecordEscalation records the hop from the primary channel to voice.
func (l *Ledger) RecordEscalation(reason string) {
	l.Append(NewEntry(EntryEscalation, l.taskID, task.PhaseFallbackVoice, EscalationDetails{
		From:   task.ChannelPrimary,
		To:     task.ChannelVoice,
		Reason: reason,
	}))
}

// RecordBookingOutcome records the final booking outcome.
func (l *Ledger) RecordBookingOutcome(phase task.Phase, outcome task.BookingOutcome, venue, reference string) {
	l.Append(NewEntry(EntryBookingOutcome, l.taskID, phase, OutcomeDetails{
		Outcome:   outcome,
		Venue:     venue,
		Reference: reference,
	}))
}
