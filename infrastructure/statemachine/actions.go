package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// recordTransition records the phase transition in the ledger and moves
// the task. In statekit, actions receive a pointer to the context; since
// our context is *Context, actions receive **Context.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Task == nil {
		return
	}

	c := *ctx
	fromPhase := c.Task.Phase

	var toPhase task.Phase
	var reason string
	if payload, ok := event.Payload.(TransitionPayload); ok {
		toPhase = payload.ToPhase
		reason = payload.Reason
	} else {
		toPhase = phaseFromEventType(event.Type)
	}

	if c.Ledger != nil {
		c.Ledger.RecordTransition(fromPhase, toPhase, reason)
	}

	c.Task.Phase = toPhase
}

// guardCanTransition checks the transition against the phase graph.
// Guards receive the context by value; ours is *Context.
func guardCanTransition(ctx *Context, event statekit.Event) bool {
	if ctx == nil || ctx.Task == nil {
		return false
	}

	var toPhase task.Phase
	if payload, ok := event.Payload.(TransitionPayload); ok {
		toPhase = payload.ToPhase
	} else {
		toPhase = phaseFromEventType(event.Type)
	}

	return CanTransition(ctx.Task.Phase, toPhase)
}

// phaseFromEventType derives the target phase from an event type.
func phaseFromEventType(eventType statekit.EventType) task.Phase {
	switch eventType {
	case "EXTRACT":
		return task.PhaseExtractParameters
	case "CHECK":
		return task.PhaseCheckCompleteness
	case "ASK":
		return task.PhaseAskUser
	case "SEARCH":
		return task.PhaseSearch
	case "AVAILABILITY":
		return task.PhaseCheckAvailability
	case "RANK":
		return task.PhaseRank
	case "PRESENT":
		return task.PhasePresentOptions
	case "BOOK":
		return task.PhaseBook
	case "VOICE":
		return task.PhaseFallbackVoice
	case "FINALIZE":
		return task.PhaseFinalize
	case "ERROR":
		return task.PhaseError
	case "COMPLETE":
		return task.PhaseCompleted
	case "WAIT_INFO":
		return task.PhaseWaitingForInfo
	case "WAIT_SELECT":
		return task.PhaseWaitingForSelection
	default:
		return task.Phase(eventType)
	}
}
