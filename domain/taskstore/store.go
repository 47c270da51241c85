// Package taskstore provides the domain interface for task persistence.
package taskstore

import (
	"context"
	"time"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// Store defines the interface for task persistence. The engine writes
// snapshots at suspend and terminal points; the surrounding layer owns
// retention and any session-timeout policy.
type Store interface {
	// Save persists a new task.
	Save(ctx context.Context, t *task.Task) error

	// Get retrieves a task by ID.
	Get(ctx context.Context, id string) (*task.Task, error)

	// Update updates an existing task.
	Update(ctx context.Context, t *task.Task) error

	// Delete removes a task by ID.
	Delete(ctx context.Context, id string) error

	// List returns tasks matching the filter.
	List(ctx context.Context, filter ListFilter) ([]*task.Task, error)
}

// ListFilter specifies criteria for listing tasks.
type ListFilter struct {
	// Status filters by task status (empty means all).
	Status []task.Status

	// Phases filters by current phase (empty means all).
	Phases []task.Phase

	// FromTime filters tasks started after this time.
	FromTime time.Time

	// ToTime filters tasks started before this time.
	ToTime time.Time

	// Limit is the maximum number of tasks to return (0 = no limit).
	Limit int

	// Offset is the number of tasks to skip for pagination.
	Offset int

	// Descending sorts newest first.
	Descending bool
}
