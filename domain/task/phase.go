// Package task provides the core domain model for the reservation runtime.
package task

// Phase identifies the current step of the orchestration state machine.
// Phases are identified by stable strings, not behavioral definitions.
type Phase string

// Step phases, in the order the happy path visits them.
const (
	PhaseClassifyIntent    Phase = "classify_intent"
	PhaseExtractParameters Phase = "extract_parameters"
	PhaseCheckCompleteness Phase = "check_completeness"
	PhaseAskUser           Phase = "ask_user"
	PhaseSearch            Phase = "search_restaurants"
	PhaseCheckAvailability Phase = "check_availability"
	PhaseRank              Phase = "rank_restaurants"
	PhasePresentOptions    Phase = "present_options"
	PhaseBook              Phase = "book_restaurant"
	PhaseFallbackVoice     Phase = "fallback_voice"
	PhaseFinalize          Phase = "finalize"
	PhaseError             Phase = "error"
)

// Terminal and suspend markers.
const (
	PhaseCompleted           Phase = "completed"
	PhaseWaitingForInfo      Phase = "waiting_for_info"
	PhaseWaitingForSelection Phase = "waiting_for_selection"
)

// IsTerminal returns true when no further step may be dispatched.
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted
}

// IsWaiting returns true for the two suspend markers where the engine
// must return control to the caller pending human input.
func (p Phase) IsWaiting() bool {
	return p == PhaseWaitingForInfo || p == PhaseWaitingForSelection
}

// IsValid returns true if the phase is a recognized canonical phase.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseClassifyIntent, PhaseExtractParameters, PhaseCheckCompleteness,
		PhaseAskUser, PhaseSearch, PhaseCheckAvailability, PhaseRank,
		PhasePresentOptions, PhaseBook, PhaseFallbackVoice, PhaseFinalize,
		PhaseError, PhaseCompleted, PhaseWaitingForInfo, PhaseWaitingForSelection:
		return true
	default:
		return false
	}
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// AllPhases returns all canonical phases.
func AllPhases() []Phase {
	return []Phase{
		PhaseClassifyIntent,
		PhaseExtractParameters,
		PhaseCheckCompleteness,
		PhaseAskUser,
		PhaseSearch,
		PhaseCheckAvailability,
		PhaseRank,
		PhasePresentOptions,
		PhaseBook,
		PhaseFallbackVoice,
		PhaseFinalize,
		PhaseError,
		PhaseCompleted,
		PhaseWaitingForInfo,
		PhaseWaitingForSelection,
	}
}

// StepPhases returns the phases that dispatch a step function.
func StepPhases() []Phase {
	return []Phase{
		PhaseClassifyIntent,
		PhaseExtractParameters,
		PhaseCheckCompleteness,
		PhaseAskUser,
		PhaseSearch,
		PhaseCheckAvailability,
		PhaseRank,
		PhasePresentOptions,
		PhaseBook,
		PhaseFallbackVoice,
		PhaseFinalize,
		PhaseError,
	}
}
