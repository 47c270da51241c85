// Package memory provides in-memory implementations of storage interfaces.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/felixgeelhaar/maitre/domain/task"
	"github.com/felixgeelhaar/maitre/domain/taskstore"
)

// taskEntry holds a deep copy of a task for storage.
type taskEntry struct {
	data []byte
}

// TaskStore is an in-memory implementation of taskstore.Store.
type TaskStore struct {
	tasks map[string]*taskEntry
	mu    sync.RWMutex
}

// NewTaskStore creates a new in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*taskEntry),
	}
}

// Save persists a new task.
func (s *TaskStore) Save(ctx context.Context, t *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.ID == "" {
		return taskstore.ErrInvalidTaskID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; exists {
		return taskstore.ErrTaskExists
	}

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	s.tasks[t.ID] = &taskEntry{data: data}
	return nil
}

// Get retrieves a task by ID.
func (s *TaskStore) Get(ctx context.Context, id string) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, taskstore.ErrInvalidTaskID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.tasks[id]
	if !ok {
		return nil, taskstore.ErrTaskNotFound
	}

	var t task.Task
	if err := json.Unmarshal(entry.data, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

// Update updates an existing task.
func (s *TaskStore) Update(ctx context.Context, t *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.ID == "" {
		return taskstore.ErrInvalidTaskID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; !exists {
		return taskstore.ErrTaskNotFound
	}

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	s.tasks[t.ID] = &taskEntry{data: data}
	return nil
}

// Delete removes a task by ID.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return taskstore.ErrInvalidTaskID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return taskstore.ErrTaskNotFound
	}

	delete(s.tasks, id)
	return nil
}

// List returns tasks matching the filter.
func (s *TaskStore) List(ctx context.Context, filter taskstore.ListFilter) ([]*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*task.Task

	for _, entry := range s.tasks {
		var t task.Task
		if err := json.Unmarshal(entry.data, &t); err != nil {
			continue
		}

		if !matchesFilter(&t, filter) {
			continue
		}

		result = append(result, &t)
	}

	sort.Slice(result, func(i, j int) bool {
		less := result[i].StartTime.Before(result[j].StartTime)
		if filter.Descending {
			return !less
		}
		return less
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*task.Task{}, nil
		}
		result = result[filter.Offset:]
	}

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

// matchesFilter checks if a task matches the filter criteria.
func matchesFilter(t *task.Task, filter taskstore.ListFilter) bool {
	if len(filter.Status) > 0 {
		found := false
		for _, status := range filter.Status {
			if t.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(filter.Phases) > 0 {
		found := false
		for _, phase := range filter.Phases {
			if t.Phase == phase {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !filter.FromTime.IsZero() && t.StartTime.Before(filter.FromTime) {
		return false
	}

	if !filter.ToTime.IsZero() && t.StartTime.After(filter.ToTime) {
		return false
	}

	return true
}

// Clear removes all tasks from the store.
func (s *TaskStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]*taskEntry)
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Ensure TaskStore implements taskstore.Store
var _ taskstore.Store = (*TaskStore)(nil)
