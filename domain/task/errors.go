package task

import "errors"

// Domain errors for the reservation task aggregate.
var (
	// ErrInvalidPhase indicates the phase is not a recognized canonical phase.
	ErrInvalidPhase = errors.New("invalid phase")

	// ErrInputFlagMismatch indicates NeedsInput disagrees with the phase.
	ErrInputFlagMismatch = errors.New("needs-input flag does not match phase")

	// ErrShortlistTooLarge indicates the shortlist exceeds its size cap.
	ErrShortlistTooLarge = errors.New("shortlist exceeds size limit")

	// ErrShortlistNotSubset indicates a shortlist entry is not a known candidate.
	ErrShortlistNotSubset = errors.New("shortlist entry not among candidates")

	// ErrSelectionNotShortlisted indicates the selection is not on the shortlist.
	ErrSelectionNotShortlisted = errors.New("selection not drawn from shortlist")

	// ErrConfirmationMismatch indicates confirmation presence disagrees with
	// the booking outcome.
	ErrConfirmationMismatch = errors.New("confirmation does not match booking outcome")

	// ErrNotSuspended indicates a resume was attempted on a task that is not
	// waiting for input.
	ErrNotSuspended = errors.New("task is not suspended")

	// ErrTaskTerminated indicates an operation on a completed task.
	ErrTaskTerminated = errors.New("task already terminated")
)
