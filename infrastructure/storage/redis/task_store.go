package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/maitre/domain/task"
	"github.com/felixgeelhaar/maitre/domain/taskstore"
)

// TaskStore is a Redis-backed implementation of taskstore.Store. Task
// snapshots are stored as JSON under per-task keys; a sorted set indexed
// by start time supports listing.
type TaskStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewTaskStore creates a new Redis task store with the given configuration.
func NewTaskStore(cfg Config, opts ...ConfigOption) (*TaskStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(taskstore.ErrConnectionFailed, err)
	}

	return &TaskStore{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
	}, nil
}

// NewTaskStoreFromClient creates a task store from an existing Redis client.
func NewTaskStoreFromClient(client *redis.Client, keyPrefix string) *TaskStore {
	return &TaskStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (s *TaskStore) taskKey(id string) string {
	return s.keyPrefix + "task:" + id
}

func (s *TaskStore) indexKey() string {
	return s.keyPrefix + "tasks:by_start"
}

// Save persists a new task.
func (s *TaskStore) Save(ctx context.Context, t *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.ID == "" {
		return taskstore.ErrInvalidTaskID
	}

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, s.taskKey(t.ID), data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return taskstore.ErrTaskExists
	}

	return s.client.ZAdd(ctx, s.indexKey(), redis.Z{
		Score:  float64(t.StartTime.Unix()),
		Member: t.ID,
	}).Err()
}

// Get retrieves a task by ID.
func (s *TaskStore) Get(ctx context.Context, id string) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, taskstore.ErrInvalidTaskID
	}

	data, err := s.client.Get(ctx, s.taskKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, taskstore.ErrTaskNotFound
		}
		return nil, err
	}

	var t task.Task
	if err := json.Unmarshal(data, &t); err != nil {
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

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	ok, err := s.client.SetXX(ctx, s.taskKey(t.ID), data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return taskstore.ErrTaskNotFound
	}

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

	deleted, err := s.client.Del(ctx, s.taskKey(id)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return taskstore.ErrTaskNotFound
	}

	return s.client.ZRem(ctx, s.indexKey(), id).Err()
}

// List returns tasks matching the filter. Tasks are fetched in start-time
// order from the index; status and phase filtering happens client-side.
func (s *TaskStore) List(ctx context.Context, filter taskstore.ListFilter) ([]*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	min, max := "-inf", "+inf"
	if !filter.FromTime.IsZero() {
		min = formatScore(filter.FromTime.Unix())
	}
	if !filter.ToTime.IsZero() {
		max = formatScore(filter.ToTime.Unix())
	}

	rangeBy := &redis.ZRangeBy{Min: min, Max: max}

	var ids []string
	var err error
	if filter.Descending {
		ids, err = s.client.ZRevRangeByScore(ctx, s.indexKey(), rangeBy).Result()
	} else {
		ids, err = s.client.ZRangeByScore(ctx, s.indexKey(), rangeBy).Result()
	}
	if err != nil {
		return nil, err
	}

	var result []*task.Task
	skipped := 0
	for _, id := range ids {
		t, err := s.Get(ctx, id)
		if errors.Is(err, taskstore.ErrTaskNotFound) {
			continue // expired or deleted out of band
		}
		if err != nil {
			return nil, err
		}

		if !matchesFilter(t, filter) {
			continue
		}

		if skipped < filter.Offset {
			skipped++
			continue
		}

		result = append(result, t)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}

	return result, nil
}

// matchesFilter checks status and phase criteria.
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

	return true
}

func formatScore(unix int64) string {
	return strconv.FormatInt(unix, 10)
}

// Close closes the Redis client.
func (s *TaskStore) Close() error {
	return s.client.Close()
}

// Client returns the underlying Redis client.
func (s *TaskStore) Client() *redis.Client {
	return s.client
}

// Ensure TaskStore implements taskstore.Store
var _ taskstore.Store = (*TaskStore)(nil)
