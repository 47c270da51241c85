package providers

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/maitre/domain/provider"
)

// TableAvailability answers availability queries from a fixed table keyed
// by candidate ID. Unknown candidates get the default answer.
type TableAvailability struct {
	byID       map[string]provider.Availability
	errByID    map[string]error
	defaultAns provider.Availability
	calls      int
	mu         sync.Mutex
}

// NewTableAvailability creates an availability provider with an empty table.
func NewTableAvailability() *TableAvailability {
	return &TableAvailability{
		byID:    make(map[string]provider.Availability),
		errByID: make(map[string]error),
	}
}

// Set records the answer for a candidate ID.
func (t *TableAvailability) Set(candidateID string, ans provider.Availability) *TableAvailability {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byID[candidateID] = ans
	return t
}

// SetError makes queries for a candidate ID fail.
func (t *TableAvailability) SetError(candidateID string, err error) *TableAvailability {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errByID[candidateID] = err
	return t
}

// SetDefault sets the answer for candidates not in the table.
func (t *TableAvailability) SetDefault(ans provider.Availability) *TableAvailability {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaultAns = ans
	return t
}

// CheckAvailability answers from the table.
func (t *TableAvailability) CheckAvailability(_ context.Context, q provider.AvailabilityQuery) (provider.Availability, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++

	if err, ok := t.errByID[q.CandidateID]; ok {
		return provider.Availability{}, err
	}
	if ans, ok := t.byID[q.CandidateID]; ok {
		return ans, nil
	}
	return t.defaultAns, nil
}

// Calls returns the number of queries answered.
func (t *TableAvailability) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

var _ provider.AvailabilityProvider = (*TableAvailability)(nil)
