package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/maitre/domain/provider"
	"github.com/felixgeelhaar/maitre/domain/task"
)

// MemoryCalendar stores created events in memory.
type MemoryCalendar struct {
	events []task.Confirmation
	err    error
	nextID int
	mu     sync.Mutex
}

// NewMemoryCalendar creates an in-memory calendar provider.
func NewMemoryCalendar() *MemoryCalendar {
	return &MemoryCalendar{nextID: 1}
}

// FailWith makes every subsequent call return err.
func (c *MemoryCalendar) FailWith(err error) *MemoryCalendar {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
	return c
}

// CreateEvent records the confirmation and returns a generated event ID.
func (c *MemoryCalendar) CreateEvent(_ context.Context, conf task.Confirmation) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return "", c.err
	}

	c.events = append(c.events, conf)
	id := fmt.Sprintf("evt-%d", c.nextID)
	c.nextID++
	return id, nil
}

// Events returns a copy of all created events.
func (c *MemoryCalendar) Events() []task.Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]task.Confirmation, len(c.events))
	copy(out, c.events)
	return out
}

var _ provider.CalendarProvider = (*MemoryCalendar)(nil)
