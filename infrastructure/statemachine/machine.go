// Package statemachine provides the statekit integration for the
// reservation runtime. The statechart is the single source of truth for
// which phase transitions are legal.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/maitre/domain/ledger"
	"github.com/felixgeelhaar/maitre/domain/task"
)

// Context carries task state through the state machine.
type Context struct {
	Task   *task.Task
	Ledger *ledger.Ledger
}

// NewContext creates a new machine context.
func NewContext(t *task.Task, l *ledger.Ledger) *Context {
	return &Context{Task: t, Ledger: l}
}

// Phase IDs as StateID type for statekit.
const (
	phaseClassify     statekit.StateID = statekit.StateID(task.PhaseClassifyIntent)
	phaseExtract      statekit.StateID = statekit.StateID(task.PhaseExtractParameters)
	phaseCompleteness statekit.StateID = statekit.StateID(task.PhaseCheckCompleteness)
	phaseAskUser      statekit.StateID = statekit.StateID(task.PhaseAskUser)
	phaseSearch       statekit.StateID = statekit.StateID(task.PhaseSearch)
	phaseAvailability statekit.StateID = statekit.StateID(task.PhaseCheckAvailability)
	phaseRank         statekit.StateID = statekit.StateID(task.PhaseRank)
	phasePresent      statekit.StateID = statekit.StateID(task.PhasePresentOptions)
	phaseBook         statekit.StateID = statekit.StateID(task.PhaseBook)
	phaseVoice        statekit.StateID = statekit.StateID(task.PhaseFallbackVoice)
	phaseFinalize     statekit.StateID = statekit.StateID(task.PhaseFinalize)
	phaseError        statekit.StateID = statekit.StateID(task.PhaseError)
	phaseCompleted    statekit.StateID = statekit.StateID(task.PhaseCompleted)
	phaseWaitInfo     statekit.StateID = statekit.StateID(task.PhaseWaitingForInfo)
	phaseWaitSelect   statekit.StateID = statekit.StateID(task.PhaseWaitingForSelection)
)

// legalTransitions is the phase graph. The ERROR edge exists from every
// phase that can still fail; finalize and error close out through
// completed only.
var legalTransitions = map[task.Phase][]task.Phase{
	task.PhaseClassifyIntent:      {task.PhaseExtractParameters, task.PhaseError},
	task.PhaseExtractParameters:   {task.PhaseCheckCompleteness, task.PhaseError},
	task.PhaseCheckCompleteness:   {task.PhaseAskUser, task.PhaseSearch, task.PhaseError},
	task.PhaseAskUser:             {task.PhaseWaitingForInfo, task.PhaseError},
	task.PhaseSearch:              {task.PhaseCheckAvailability, task.PhaseError},
	task.PhaseCheckAvailability:   {task.PhaseRank, task.PhaseError},
	task.PhaseRank:                {task.PhasePresentOptions, task.PhaseError},
	task.PhasePresentOptions:      {task.PhaseWaitingForSelection, task.PhaseError},
	task.PhaseWaitingForInfo:      {task.PhaseExtractParameters, task.PhaseError},
	task.PhaseWaitingForSelection: {task.PhaseBook, task.PhaseError},
	task.PhaseBook:                {task.PhaseFinalize, task.PhaseFallbackVoice, task.PhaseError},
	task.PhaseFallbackVoice:       {task.PhaseFinalize, task.PhaseError},
	task.PhaseFinalize:            {task.PhaseCompleted},
	task.PhaseError:               {task.PhaseCompleted},
	task.PhaseCompleted:           nil,
}

// CanTransition reports whether the phase graph allows from → to.
func CanTransition(from, to task.Phase) bool {
	for _, p := range legalTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// NewTaskMachine creates the canonical reservation statechart.
func NewTaskMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("reservation").
		WithInitial(phaseClassify).
		WithContext(&Context{}).
		WithAction("recordTransition", recordTransition).
		WithGuard("canTransition", guardCanTransition).
		State(phaseClassify).
			On("EXTRACT").Target(phaseExtract).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseExtract).
			On("CHECK").Target(phaseCompleteness).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseCompleteness).
			On("ASK").Target(phaseAskUser).Guard("canTransition").Do("recordTransition").
			On("SEARCH").Target(phaseSearch).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseAskUser).
			On("WAIT_INFO").Target(phaseWaitInfo).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseWaitInfo).
			On("EXTRACT").Target(phaseExtract).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseSearch).
			On("AVAILABILITY").Target(phaseAvailability).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseAvailability).
			On("RANK").Target(phaseRank).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseRank).
			On("PRESENT").Target(phasePresent).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phasePresent).
			On("WAIT_SELECT").Target(phaseWaitSelect).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseWaitSelect).
			On("BOOK").Target(phaseBook).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseBook).
			On("FINALIZE").Target(phaseFinalize).Guard("canTransition").Do("recordTransition").
			On("VOICE").Target(phaseVoice).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseVoice).
			On("FINALIZE").Target(phaseFinalize).Guard("canTransition").Do("recordTransition").
			On("ERROR").Target(phaseError).Do("recordTransition").
			Done().
		State(phaseFinalize).
			On("COMPLETE").Target(phaseCompleted).Do("recordTransition").
			Done().
		State(phaseError).
			On("COMPLETE").Target(phaseCompleted).Do("recordTransition").
			Done().
		State(phaseCompleted).
			Final().
			Done().
		Build()
}

// EventForTransition returns the event type for a phase transition.
func EventForTransition(to task.Phase) statekit.EventType {
	switch to {
	case task.PhaseExtractParameters:
		return "EXTRACT"
	case task.PhaseCheckCompleteness:
		return "CHECK"
	case task.PhaseAskUser:
		return "ASK"
	case task.PhaseSearch:
		return "SEARCH"
	case task.PhaseCheckAvailability:
		return "AVAILABILITY"
	case task.PhaseRank:
		return "RANK"
	case task.PhasePresentOptions:
		return "PRESENT"
	case task.PhaseBook:
		return "BOOK"
	case task.PhaseFallbackVoice:
		return "VOICE"
	case task.PhaseFinalize:
		return "FINALIZE"
	case task.PhaseError:
		return "ERROR"
	case task.PhaseCompleted:
		return "COMPLETE"
	case task.PhaseWaitingForInfo:
		return "WAIT_INFO"
	case task.PhaseWaitingForSelection:
		return "WAIT_SELECT"
	default:
		return statekit.EventType(to)
	}
}
