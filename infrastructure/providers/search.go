package providers

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/maitre/domain/provider"
	"github.com/felixgeelhaar/maitre/domain/task"
)

// StaticSearch returns a fixed candidate set for every query.
type StaticSearch struct {
	candidates []task.Candidate
	err        error
	calls      int
	mu         sync.Mutex
}

// NewStaticSearch creates a search provider returning the given candidates.
func NewStaticSearch(candidates ...task.Candidate) *StaticSearch {
	return &StaticSearch{candidates: candidates}
}

// FailWith makes every subsequent call return err.
func (s *StaticSearch) FailWith(err error) *StaticSearch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// Search returns the configured candidates.
func (s *StaticSearch) Search(_ context.Context, _ task.ReservationParams) ([]task.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.err != nil {
		return nil, s.err
	}

	// Copy so callers cannot mutate the fixture.
	out := make([]task.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out, nil
}

// Calls returns the number of times Search was invoked.
func (s *StaticSearch) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var _ provider.SearchProvider = (*StaticSearch)(nil)
