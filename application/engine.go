// Package application orchestrates the reservation task: the engine
// drives the statechart, dispatches steps, and owns the suspend/resume
// protocol for human input.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/maitre/domain/ledger"
	"github.com/felixgeelhaar/maitre/domain/provider"
	"github.com/felixgeelhaar/maitre/domain/task"
	"github.com/felixgeelhaar/maitre/domain/taskstore"
	"github.com/felixgeelhaar/maitre/infrastructure/logging"
	"github.com/felixgeelhaar/maitre/infrastructure/resilience"
	"github.com/felixgeelhaar/maitre/infrastructure/statemachine"
	"github.com/felixgeelhaar/maitre/infrastructure/telemetry"
)

const (
	// DefaultMaxIterations is the step dispatch ceiling per continuous
	// run. The counter restarts on every resume, so the guard bounds one
	// run, not the whole task lifetime.
	DefaultMaxIterations = 20
)

var (
	// ErrMissingProvider indicates a required collaborator was not configured.
	ErrMissingProvider = errors.New("missing required provider")
)

// EngineConfig holds the collaborators and tuning knobs for an Engine.
type EngineConfig struct {
	// Inference, Search, Availability, Booking and Voice are required.
	Inference    provider.Inference
	Search       provider.SearchProvider
	Availability provider.AvailabilityProvider
	Booking      provider.BookingProvider
	Voice        provider.VoiceProvider

	// Calendar is optional. When set, a successful booking is recorded
	// as a calendar event; calendar failures never fail the task.
	Calendar provider.CalendarProvider

	// Clock anchors relative date expressions. Defaults to the wall clock.
	Clock provider.Clock

	// Store is optional. When set, the engine snapshots the task at
	// creation, at every suspend point and at termination.
	Store taskstore.Store

	// Executor wraps every collaborator call with resilience policies.
	// Defaults to a standard executor when nil.
	Executor *resilience.Executor

	// Metrics receives operational telemetry. Defaults to a no-op provider.
	Metrics telemetry.Metrics

	// MaxIterations is the loop guard ceiling. Zero means the default.
	MaxIterations int

	// ShortlistSize caps the ranked shortlist. Zero means the domain limit.
	ShortlistSize int

	// CustomerName and CustomerPhone identify the diner on booking requests.
	CustomerName  string
	CustomerPhone string
}

// Engine runs reservation tasks from initial utterance to terminal phase,
// pausing whenever a step needs human input.
type Engine struct {
	inference    provider.Inference
	search       provider.SearchProvider
	availability provider.AvailabilityProvider
	booking      provider.BookingProvider
	voice        provider.VoiceProvider
	calendar     provider.CalendarProvider
	clock        provider.Clock
	store        taskstore.Store
	executor     *resilience.Executor
	metrics      telemetry.Metrics

	maxIterations int
	shortlistSize int
	customerName  string
	customerPhone string

	// steps maps each dispatchable phase to its step function. Waiting
	// and completed phases have no entry: the run loop returns before
	// dispatching them.
	steps map[task.Phase]stepFunc
}

// NewEngine creates an engine from the given configuration.
func NewEngine(config EngineConfig) (*Engine, error) {
	if config.Inference == nil {
		return nil, fmt.Errorf("%w: inference", ErrMissingProvider)
	}
	if config.Search == nil {
		return nil, fmt.Errorf("%w: search", ErrMissingProvider)
	}
	if config.Availability == nil {
		return nil, fmt.Errorf("%w: availability", ErrMissingProvider)
	}
	if config.Booking == nil {
		return nil, fmt.Errorf("%w: booking", ErrMissingProvider)
	}
	if config.Voice == nil {
		return nil, fmt.Errorf("%w: voice", ErrMissingProvider)
	}

	clock := config.Clock
	if clock == nil {
		clock = provider.SystemClock{}
	}
	executor := config.Executor
	if executor == nil {
		executor = resilience.NewDefaultExecutor()
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = &telemetry.NoopMetricsProvider{}
	}
	maxIterations := config.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	shortlistSize := config.ShortlistSize
	if shortlistSize <= 0 || shortlistSize > task.ShortlistLimit {
		shortlistSize = task.ShortlistLimit
	}

	e := &Engine{
		inference:     config.Inference,
		search:        config.Search,
		availability:  config.Availability,
		booking:       config.Booking,
		voice:         config.Voice,
		calendar:      config.Calendar,
		clock:         clock,
		store:         config.Store,
		executor:      executor,
		metrics:       metrics,
		maxIterations: maxIterations,
		shortlistSize: shortlistSize,
		customerName:  config.CustomerName,
		customerPhone: config.CustomerPhone,
	}

	e.steps = map[task.Phase]stepFunc{
		task.PhaseClassifyIntent:    e.stepClassifyIntent,
		task.PhaseExtractParameters: e.stepExtractParameters,
		task.PhaseCheckCompleteness: e.stepCheckCompleteness,
		task.PhaseAskUser:           e.stepAskUser,
		task.PhaseSearch:            e.stepSearch,
		task.PhaseCheckAvailability: e.stepCheckAvailability,
		task.PhaseRank:              e.stepRank,
		task.PhasePresentOptions:    e.stepPresentOptions,
		task.PhaseBook:              e.stepBook,
		task.PhaseFallbackVoice:     e.stepFallbackVoice,
		task.PhaseFinalize:          e.stepFinalize,
		task.PhaseError:             e.stepError,
	}

	return e, nil
}

// Start creates a new task from the initial utterance and runs it until
// it suspends for human input or reaches the terminal phase.
func (e *Engine) Start(ctx context.Context, utterance string) (*task.Task, error) {
	t := task.New(uuid.NewString(), utterance)
	l := ledger.New(t.ID)
	l.RecordTaskStarted(utterance)

	interp, err := e.newInterpreter(t, l)
	if err != nil {
		return nil, err
	}
	interp.Start()

	e.metrics.IncrementActiveTasks(ctx)
	e.persistNew(ctx, t)

	logging.Info().
		Add(logging.TaskID(t.ID)).
		Msg("task started")

	return e.run(ctx, t, l, interp)
}

// Resume feeds human input into a suspended task and continues the run.
// A task waiting for info re-enters parameter extraction with the new
// message. A task waiting for a selection re-enters booking once the
// message names one of the shortlisted venues; an unparseable message
// produces a clarifying question and the task stays suspended, without
// error.
func (e *Engine) Resume(ctx context.Context, t *task.Task, input string) (*task.Task, error) {
	if t.IsTerminal() {
		return t, task.ErrTaskTerminated
	}
	if !t.IsSuspended() {
		return t, task.ErrNotSuspended
	}

	from := t.Phase
	l := ledger.New(t.ID)

	t.Append(task.RoleUser, input)

	switch from {
	case task.PhaseWaitingForInfo:
		t.ResumeAt(task.PhaseExtractParameters)

	case task.PhaseWaitingForSelection:
		selected := ParseSelection(input, t.Shortlist)
		if selected == nil {
			t.Append(task.RoleAssistant, fmt.Sprintf(
				"Sorry, I didn't catch which restaurant you meant. Please reply with a number from 1 to %d or the restaurant's name.",
				len(t.Shortlist),
			))
			e.persistUpdate(ctx, t)
			return t, nil
		}
		t.Selection = selected
		t.ResumeAt(task.PhaseBook)

	default:
		return t, task.ErrNotSuspended
	}

	l.RecordResumed(from, input)
	e.metrics.RecordResume(ctx, from)
	e.metrics.IncrementActiveTasks(ctx)

	interp, err := e.newInterpreter(t, l)
	if err != nil {
		return t, err
	}
	if err := interp.ResumeFrom(t.Phase); err != nil {
		return t, err
	}

	logging.Info().
		Add(logging.TaskID(t.ID)).
		Add(logging.FromPhase(from)).
		Add(logging.ToPhase(t.Phase)).
		Msg("task resumed")

	return e.run(ctx, t, l, interp)
}

// newInterpreter builds the statechart interpreter bound to the task.
func (e *Engine) newInterpreter(t *task.Task, l *ledger.Ledger) (*statemachine.Interpreter, error) {
	machine, err := statemachine.NewTaskMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to build statechart: %w", err)
	}
	return statemachine.NewInterpreter(machine, statemachine.NewContext(t, l)), nil
}

// run is the dispatch loop. Each pass dispatches the step for the current
// phase, transitions to the phase the step named, and stops on suspension
// or termination. The loop guard forces the error path once the iteration
// ceiling is exceeded, so a routing defect can never spin forever.
func (e *Engine) run(ctx context.Context, t *task.Task, l *ledger.Ledger, interp *statemachine.Interpreter) (*task.Task, error) {
	rc := &runContext{Task: t, Ledger: l, Now: e.clock.Now()}

	for !t.IsTerminal() {
		select {
		case <-ctx.Done():
			logging.Warn().
				Add(logging.TaskID(t.ID)).
				Add(logging.Phase(t.Phase)).
				Msg("run cancelled")
			return t, ctx.Err()
		default:
		}

		from := t.Phase
		t.IterationCount++

		// Phases whose only legal successor is completed (finalize, error)
		// are exempt: they terminate on their next dispatch anyway, and the
		// statechart has no error edge to force from them.
		if t.IterationCount > e.maxIterations && statemachine.CanTransition(from, task.PhaseError) {
			t.Fail(fmt.Sprintf("task exceeded %d steps without completing", e.maxIterations))
			e.metrics.RecordError(ctx, "loop_guard", map[string]string{"phase": string(from)})
			if err := interp.Transition(task.PhaseError, "iteration ceiling exceeded"); err != nil {
				return t, err
			}
			continue
		}

		step, ok := e.steps[from]
		if !ok {
			t.Fail(fmt.Sprintf("no step registered for phase %s", from))
			if err := interp.Transition(task.PhaseError, "unroutable phase"); err != nil {
				return t, err
			}
			continue
		}

		l.RecordStepDispatched(from, t.IterationCount)
		start := time.Now()
		next := step(ctx, rc)
		e.metrics.RecordStepDispatch(ctx, from, t.IterationCount, next != task.PhaseError, time.Since(start))

		logging.Debug().
			Add(logging.TaskID(t.ID)).
			Add(logging.FromPhase(from)).
			Add(logging.ToPhase(next)).
			Add(logging.Iteration(t.IterationCount)).
			Msg("step dispatched")

		if err := interp.Transition(next, ""); err != nil {
			return t, err
		}
		e.metrics.RecordPhaseTransition(ctx, from, next, t.ID)

		switch {
		case t.Phase.IsWaiting():
			e.suspend(ctx, t, l)
			return t, nil
		case t.Phase == task.PhaseCompleted:
			e.finish(ctx, t, l)
			return t, nil
		}
	}

	return t, nil
}

// suspend parks the task at a waiting phase and hands ownership back to
// the caller.
func (e *Engine) suspend(ctx context.Context, t *task.Task, l *ledger.Ledger) {
	t.Suspend(t.Phase)
	l.RecordSuspended(t.Phase)
	e.metrics.RecordSuspension(ctx, t.Phase)
	e.metrics.DecrementActiveTasks(ctx)
	e.persistUpdate(ctx, t)

	logging.Info().
		Add(logging.TaskID(t.ID)).
		Add(logging.Phase(t.Phase)).
		Msg("task suspended for input")
}

// finish marks the task terminal and records the final accounting.
func (e *Engine) finish(ctx context.Context, t *task.Task, l *ledger.Ledger) {
	t.Complete()

	success := t.Status == task.StatusCompleted
	if success {
		l.RecordTaskCompleted(t.BookingOutcome)
	} else {
		l.RecordTaskFailed(t.Phase, t.Failure)
	}

	if t.BookingOutcome != task.OutcomeNone {
		channel := task.ChannelPrimary
		if t.BookingOutcome == task.OutcomeFallbackSucceeded || t.BookingOutcome == task.OutcomeFallbackFailed {
			channel = task.ChannelVoice
		}
		e.metrics.RecordBookingOutcome(ctx, t.BookingOutcome, channel)
	}
	e.metrics.RecordTaskDuration(ctx, t.Duration(), t.Phase, success)
	e.metrics.DecrementActiveTasks(ctx)
	e.persistUpdate(ctx, t)

	logging.Info().
		Add(logging.TaskID(t.ID)).
		Add(logging.Outcome(t.BookingOutcome)).
		Add(logging.Duration(t.Duration())).
		Msg("task finished")
}

// persistNew snapshots a newly created task. Store failures are logged
// and never fail the task.
func (e *Engine) persistNew(ctx context.Context, t *task.Task) {
	if e.store == nil {
		return
	}
	if err := e.store.Save(ctx, t); err != nil {
		logging.Warn().
			Add(logging.TaskID(t.ID)).
			Add(logging.ErrorField(err)).
			Msg("failed to persist new task")
	}
}

// persistUpdate snapshots the task at a suspend or terminal point.
func (e *Engine) persistUpdate(ctx context.Context, t *task.Task) {
	if e.store == nil {
		return
	}
	if err := e.store.Update(ctx, t); err != nil {
		logging.Warn().
			Add(logging.TaskID(t.ID)).
			Add(logging.ErrorField(err)).
			Msg("failed to persist task snapshot")
	}
}
