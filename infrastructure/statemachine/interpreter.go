package statemachine

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// TransitionPayload carries additional data with a transition event.
type TransitionPayload struct {
	ToPhase task.Phase
	Reason  string
}

// Interpreter wraps the statekit interpreter with reservation-specific
// functionality.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates a new interpreter for the reservation statechart.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start initializes the interpreter and enters the initial phase.
func (i *Interpreter) Start() {
	i.interp.Start()
	state := i.interp.State()
	i.ctx.Task.Phase = task.Phase(state.Value)
	i.ctx.Task.Start()
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// Phase returns the current phase.
func (i *Interpreter) Phase() task.Phase {
	state := i.interp.State()
	return task.Phase(state.Value)
}

// Transition attempts to transition to the target phase.
func (i *Interpreter) Transition(to task.Phase, reason string) error {
	if !CanTransition(i.ctx.Task.Phase, to) {
		return fmt.Errorf("%w: %s to %s", task.ErrInvalidPhase, i.ctx.Task.Phase, to)
	}

	event := statekit.Event{
		Type: EventForTransition(to),
		Payload: TransitionPayload{
			ToPhase: to,
			Reason:  reason,
		},
	}

	i.interp.Send(event)

	newState := i.interp.State()
	i.ctx.Task.Phase = task.Phase(newState.Value)

	return nil
}

// IsTerminal returns true if the interpreter is in a terminal phase.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// ResumeFrom restores the interpreter to a specific phase. Used when
// resuming a suspended task: the task snapshot is the complete payload,
// so the interpreter is rebuilt from it.
func (i *Interpreter) ResumeFrom(phase task.Phase) error {
	snapshot := statekit.Snapshot[*Context]{
		MachineID:    "reservation",
		CurrentState: statekit.StateID(string(phase)),
		Context:      i.ctx,
		CreatedAt:    time.Now(),
	}

	if err := i.interp.Restore(snapshot); err != nil {
		return fmt.Errorf("failed to restore phase: %w", err)
	}

	i.ctx.Task.Phase = phase

	return nil
}
