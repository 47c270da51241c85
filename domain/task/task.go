package task

import "time"

// Status represents the lifecycle status of a task.
type Status string

const (
	StatusPending   Status = "pending"   // Not yet started
	StatusRunning   Status = "running"   // Currently executing
	StatusSuspended Status = "suspended" // Waiting for human input
	StatusCompleted Status = "completed" // Finished, booking secured
	StatusFailed    Status = "failed"    // Finished, failure reported
)

// Task is the single mutable record threaded through every step.
// It is the aggregate root for the reservation domain: owned exclusively
// by the engine while running, by the caller while suspended.
type Task struct {
	ID           string    `json:"id"`
	Conversation []Message `json:"conversation"`
	Phase        Phase     `json:"phase"`

	// IterationCount counts engine loop passes since the last resume.
	// Used only for the loop guard; reset to zero on every resume.
	IterationCount int `json:"iteration_count"`

	// NeedsInput is true exactly when Phase is a waiting marker.
	NeedsInput bool `json:"needs_input"`

	Intent     *Intent           `json:"intent,omitempty"`
	Params     ReservationParams `json:"params"`
	Candidates []Candidate       `json:"candidates,omitempty"`
	Shortlist  []Candidate       `json:"shortlist,omitempty"`
	Selection  *Candidate        `json:"selection,omitempty"`

	BookingOutcome BookingOutcome `json:"booking_outcome"`
	Confirmation   *Confirmation  `json:"confirmation,omitempty"`
	CallTranscript string         `json:"call_transcript,omitempty"`

	// Failure, when non-empty, is the unique signal that the error path
	// must be taken.
	Failure string `json:"failure,omitempty"`

	Status    Status    `json:"status"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

// New creates a task from the initial human utterance.
func New(id, utterance string) *Task {
	return &Task{
		ID:             id,
		Conversation:   []Message{{Role: RoleUser, Content: utterance}},
		Phase:          PhaseClassifyIntent,
		BookingOutcome: OutcomeNone,
		Status:         StatusPending,
		StartTime:      time.Now(),
	}
}

// Start marks the task as running.
func (t *Task) Start() {
	t.Status = StatusRunning
}

// Append records a conversation entry. The conversation only ever grows.
func (t *Task) Append(role Role, content string) {
	t.Conversation = append(t.Conversation, Message{Role: role, Content: content})
}

// LastMessage returns the most recent conversation entry.
func (t *Task) LastMessage() Message {
	return t.Conversation[len(t.Conversation)-1]
}

// Suspend parks the task at the given waiting phase.
func (t *Task) Suspend(at Phase) {
	t.Phase = at
	t.NeedsInput = true
	t.Status = StatusSuspended
}

// ResumeAt re-enters the task at the given phase after human input.
// The iteration counter restarts for the new continuous run.
func (t *Task) ResumeAt(at Phase) {
	t.Phase = at
	t.NeedsInput = false
	t.IterationCount = 0
	t.Status = StatusRunning
}

// Fail records the failure description that routes the task to the error
// step. It does not terminate the task; the error step does.
func (t *Task) Fail(reason string) {
	t.Failure = reason
}

// Complete marks the task terminal. Success is judged by the booking
// outcome: a reported failure still ends at the completed phase.
func (t *Task) Complete() {
	t.Phase = PhaseCompleted
	t.NeedsInput = false
	t.EndTime = time.Now()
	if t.Failure == "" && t.BookingOutcome.Succeeded() {
		t.Status = StatusCompleted
	} else {
		t.Status = StatusFailed
	}
}

// IsTerminal returns true once the task reached the completed phase.
func (t *Task) IsTerminal() bool {
	return t.Phase.IsTerminal()
}

// IsSuspended returns true while the task awaits human input.
func (t *Task) IsSuspended() bool {
	return t.Phase.IsWaiting()
}

// Duration returns how long the task has been running.
func (t *Task) Duration() time.Duration {
	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}

// Validate checks the structural invariants of the aggregate.
func (t *Task) Validate() error {
	if !t.Phase.IsValid() {
		return ErrInvalidPhase
	}
	if t.NeedsInput != t.Phase.IsWaiting() {
		return ErrInputFlagMismatch
	}
	if len(t.Shortlist) > ShortlistLimit {
		return ErrShortlistTooLarge
	}
	for _, s := range t.Shortlist {
		if !t.hasCandidate(s.ID) {
			return ErrShortlistNotSubset
		}
	}
	if t.Selection != nil && !t.inShortlist(t.Selection.ID) {
		return ErrSelectionNotShortlisted
	}
	if (t.Confirmation != nil) != t.BookingOutcome.Succeeded() {
		return ErrConfirmationMismatch
	}
	return nil
}

func (t *Task) hasCandidate(id string) bool {
	for _, c := range t.Candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (t *Task) inShortlist(id string) bool {
	for _, c := range t.Shortlist {
		if c.ID == id {
			return true
		}
	}
	return false
}
