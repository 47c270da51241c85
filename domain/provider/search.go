package provider

import (
	"context"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// SearchProvider finds restaurant candidates for a reservation request.
// A zero-length result is valid data, not an error.
type SearchProvider interface {
	Search(ctx context.Context, params task.ReservationParams) ([]task.Candidate, error)
}
