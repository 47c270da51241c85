package provider

import (
	"context"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// CalendarProvider records a confirmed booking in the user's calendar.
// Optional; invoked only on confirmed success, and a failure here never
// fails the task.
type CalendarProvider interface {
	CreateEvent(ctx context.Context, c task.Confirmation) (eventID string, err error)
}
