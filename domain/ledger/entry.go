// Package ledger provides an append-only audit trail for reservation tasks.
package ledger

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// EntryType classifies the type of ledger entry.
type EntryType string

const (
	EntryTaskStarted   EntryType = "task_started"
	EntryTaskCompleted EntryType = "task_completed"
	EntryTaskFailed    EntryType = "task_failed"

	EntryStepDispatched  EntryType = "step_dispatched"
	EntryPhaseTransition EntryType = "phase_transition"

	EntryProviderCall  EntryType = "provider_call"
	EntryProviderError EntryType = "provider_error"

	EntrySuspended EntryType = "suspended"
	EntryResumed   EntryType = "resumed"

	EntryEscalation     EntryType = "escalation"
	EntryBookingOutcome EntryType = "booking_outcome"
)

// Entry represents a single record in the ledger.
type Entry struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      EntryType       `json:"type"`
	TaskID    string          `json:"task_id"`
	Phase     task.Phase      `json:"phase,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// TransitionDetails contains details for phase transition entries.
type TransitionDetails struct {
	FromPhase task.Phase `json:"from_phase"`
	ToPhase   task.Phase `json:"to_phase"`
	Reason    string     `json:"reason,omitempty"`
}

// ProviderCallDetails contains details for provider call entries.
type ProviderCallDetails struct {
	Provider string        `json:"provider"`
	Duration time.Duration `json:"duration,omitempty"`
}

// ProviderErrorDetails contains details for provider error entries.
type ProviderErrorDetails struct {
	Provider string `json:"provider"`
	Error    string `json:"error"`
}

// SuspensionDetails contains details for suspend/resume entries.
type SuspensionDetails struct {
	At    task.Phase `json:"at"`
	Input string     `json:"input,omitempty"`
}

// EscalationDetails contains details for escalation entries.
type EscalationDetails struct {
	From   task.Channel `json:"from"`
	To     task.Channel `json:"to"`
	Reason string       `json:"reason,omitempty"`
}

// OutcomeDetails contains details for booking outcome entries.
type OutcomeDetails struct {
	Outcome   task.BookingOutcome `json:"outcome"`
	Venue     string              `json:"venue,omitempty"`
	Reference string              `json:"reference,omitempty"`
}

// NewEntry creates a new ledger entry.
func NewEntry(entryType EntryType, taskID string, phase task.Phase, details any) Entry {
	var detailsJSON json.RawMessage
	if details != nil {
		detailsJSON, _ = json.Marshal(details)
	}

	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      entryType,
		TaskID:    taskID,
		Phase:     phase,
		Details:   detailsJSON,
	}
}

// DecodeDetails unmarshals the entry details into the given struct.
func (e Entry) DecodeDetails(v any) error {
	if e.Details == nil {
		return nil
	}
	return json.Unmarshal(e.Details, v)
}
