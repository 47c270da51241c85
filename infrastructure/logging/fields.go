package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for reservation runtime logging.

// TaskID adds a task ID field.
func TaskID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("task_id", id)
	}
}

// Phase adds a phase field.
func Phase(p task.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("phase", string(p))
	}
}

// FromPhase adds a from_phase field for transitions.
func FromPhase(p task.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_phase", string(p))
	}
}

// ToPhase adds a to_phase field for transitions.
func ToPhase(p task.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_phase", string(p))
	}
}

// Provider adds a collaborator name field.
func Provider(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("provider", name)
	}
}

// Outcome adds a booking outcome field.
func Outcome(o task.BookingOutcome) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("outcome", string(o))
	}
}

// Iteration adds the loop-guard counter field.
func Iteration(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("iteration", n)
	}
}

// Candidates adds a candidate count field.
func Candidates(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("candidates", n)
	}
}

// Venue adds a venue name field.
func Venue(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("venue", name)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// Str adds an arbitrary string field.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}
