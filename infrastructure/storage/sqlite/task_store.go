package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/felixgeelhaar/maitre/domain/task"
	"github.com/felixgeelhaar/maitre/domain/taskstore"
)

// TaskStore is a SQLite-backed implementation of taskstore.Store.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a new SQLite task store with the given configuration.
func NewTaskStore(cfg Config, opts ...Option) (*TaskStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &TaskStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewTaskStoreFromDB creates a task store from an existing database connection.
func NewTaskStoreFromDB(db *sql.DB) (*TaskStore, error) {
	s := &TaskStore{db: db}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	return s, nil
}

// migrate creates the tasks table if it doesn't exist.
func (s *TaskStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			phase TEXT NOT NULL,
			booking_outcome TEXT,
			failure TEXT,
			data BLOB NOT NULL,
			start_time INTEGER NOT NULL,
			end_time INTEGER,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
		CREATE INDEX IF NOT EXISTS idx_tasks_start_time ON tasks(start_time);
		CREATE INDEX IF NOT EXISTS idx_tasks_phase ON tasks(phase);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
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

	now := time.Now().Unix()
	startTime := t.StartTime.Unix()

	var endTime sql.NullInt64
	if !t.EndTime.IsZero() {
		endTime = sql.NullInt64{Int64: t.EndTime.Unix(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, status, phase, booking_outcome, failure, data, start_time, end_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Status), string(t.Phase), string(t.BookingOutcome), t.Failure,
		data, startTime, endTime, now, now,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return taskstore.ErrTaskExists
		}
		return err
	}

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

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM tasks WHERE id = ?",
		id,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, taskstore.ErrTaskNotFound
	}
	if err != nil {
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

	now := time.Now().Unix()

	var endTime sql.NullInt64
	if !t.EndTime.IsZero() {
		endTime = sql.NullInt64{Int64: t.EndTime.Unix(), Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET
			status = ?, phase = ?, booking_outcome = ?, failure = ?,
			data = ?, end_time = ?, updated_at = ?
		 WHERE id = ?`,
		string(t.Status), string(t.Phase), string(t.BookingOutcome), t.Failure,
		data, endTime, now, t.ID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
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

	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return taskstore.ErrTaskNotFound
	}

	return nil
}

// List returns tasks matching the filter.
func (s *TaskStore) List(ctx context.Context, filter taskstore.ListFilter) ([]*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query, args := s.buildListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var t task.Task
		if err := json.Unmarshal(data, &t); err != nil {
			continue // Skip malformed entries
		}

		tasks = append(tasks, &t)
	}

	return tasks, rows.Err()
}

// buildListQuery builds the SQL query for listing tasks.
func (s *TaskStore) buildListQuery(filter taskstore.ListFilter) (string, []interface{}) {
	query := "SELECT data FROM tasks"

	var conditions []string
	var args []interface{}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		conditions = append(conditions, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.Phases) > 0 {
		placeholders := make([]string, len(filter.Phases))
		for i, phase := range filter.Phases {
			placeholders[i] = "?"
			args = append(args, string(phase))
		}
		conditions = append(conditions, "phase IN ("+strings.Join(placeholders, ", ")+")")
	}

	if !filter.FromTime.IsZero() {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, filter.FromTime.Unix())
	}

	if !filter.ToTime.IsZero() {
		conditions = append(conditions, "start_time <= ?")
		args = append(args, filter.ToTime.Unix())
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY start_time"
	if filter.Descending {
		query += " DESC"
	}

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	return query, args
}

// Close closes the database connection.
func (s *TaskStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *TaskStore) DB() *sql.DB {
	return s.db
}

// isUniqueViolation checks if the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure TaskStore implements taskstore.Store
var _ taskstore.Store = (*TaskStore)(nil)
