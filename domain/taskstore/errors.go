package taskstore

import "errors"

// Domain errors for task store operations.
var (
	// ErrTaskNotFound is returned when a task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskExists is returned when creating a task that already exists.
	ErrTaskExists = errors.New("task already exists")

	// ErrInvalidTaskID is returned when a task ID is invalid (e.g., empty).
	ErrInvalidTaskID = errors.New("invalid task ID")

	// ErrConnectionFailed is returned when the store backend is unreachable.
	ErrConnectionFailed = errors.New("store connection failed")
)
