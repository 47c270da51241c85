package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/maitre/domain/task"
	"github.com/felixgeelhaar/maitre/domain/taskstore"
)

func newTask(id string, start time.Time) *task.Task {
	t := task.New(id, "book a table")
	t.StartTime = start
	return t
}

func TestTaskStore_SaveGet(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()

	tk := newTask("t-1", time.Now())
	tk.Append(task.RoleAssistant, "which date?")

	if err := store.Save(ctx, tk); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "t-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "t-1" || len(got.Conversation) != 2 {
		t.Errorf("Get() = %+v", got)
	}

	// Stored copy is isolated from later mutation.
	tk.Append(task.RoleUser, "tomorrow")
	got, _ = store.Get(ctx, "t-1")
	if len(got.Conversation) != 2 {
		t.Error("stored task shares state with the caller's copy")
	}
}

func TestTaskStore_SaveDuplicate(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()

	tk := newTask("t-1", time.Now())
	if err := store.Save(ctx, tk); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, tk); !errors.Is(err, taskstore.ErrTaskExists) {
		t.Errorf("second Save() error = %v, want ErrTaskExists", err)
	}
}

func TestTaskStore_UpdateMissing(t *testing.T) {
	store := NewTaskStore()

	err := store.Update(context.Background(), newTask("ghost", time.Now()))
	if !errors.Is(err, taskstore.ErrTaskNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskStore_Update(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()

	tk := newTask("t-1", time.Now())
	if err := store.Save(ctx, tk); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	tk.Suspend(task.PhaseWaitingForInfo)
	if err := store.Update(ctx, tk); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := store.Get(ctx, "t-1")
	if got.Phase != task.PhaseWaitingForInfo || got.Status != task.StatusSuspended {
		t.Errorf("updated task = phase %q status %q", got.Phase, got.Status)
	}
}

func TestTaskStore_Delete(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()

	if err := store.Save(ctx, newTask("t-1", time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, "t-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "t-1"); !errors.Is(err, taskstore.ErrTaskNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrTaskNotFound", err)
	}
	if err := store.Delete(ctx, "t-1"); !errors.Is(err, taskstore.ErrTaskNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskStore_EmptyID(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()

	if err := store.Save(ctx, newTask("", time.Now())); !errors.Is(err, taskstore.ErrInvalidTaskID) {
		t.Errorf("Save(empty id) error = %v, want ErrInvalidTaskID", err)
	}
	if _, err := store.Get(ctx, ""); !errors.Is(err, taskstore.ErrInvalidTaskID) {
		t.Errorf("Get(empty id) error = %v, want ErrInvalidTaskID", err)
	}
}

func TestTaskStore_List(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, spec := range []struct {
		id     string
		status task.Status
		phase  task.Phase
	}{
		{"t-1", task.StatusSuspended, task.PhaseWaitingForInfo},
		{"t-2", task.StatusCompleted, task.PhaseCompleted},
		{"t-3", task.StatusSuspended, task.PhaseWaitingForSelection},
		{"t-4", task.StatusFailed, task.PhaseCompleted},
	} {
		tk := newTask(spec.id, base.Add(time.Duration(i)*time.Hour))
		tk.Status = spec.status
		tk.Phase = spec.phase
		tk.NeedsInput = tk.Phase.IsWaiting()
		if err := store.Save(ctx, tk); err != nil {
			t.Fatalf("Save(%s) error = %v", spec.id, err)
		}
	}

	t.Run("by status", func(t *testing.T) {
		got, err := store.List(ctx, taskstore.ListFilter{Status: []task.Status{task.StatusSuspended}})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].ID != "t-1" || got[1].ID != "t-3" {
			t.Errorf("order = %s, %s; want t-1, t-3", got[0].ID, got[1].ID)
		}
	})

	t.Run("by phase", func(t *testing.T) {
		got, err := store.List(ctx, taskstore.ListFilter{Phases: []task.Phase{task.PhaseWaitingForSelection}})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "t-3" {
			t.Errorf("got %d tasks, want t-3 only", len(got))
		}
	})

	t.Run("time range", func(t *testing.T) {
		got, err := store.List(ctx, taskstore.ListFilter{
			FromTime: base.Add(30 * time.Minute),
			ToTime:   base.Add(150 * time.Minute),
		})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("descending with limit and offset", func(t *testing.T) {
		got, err := store.List(ctx, taskstore.ListFilter{Descending: true, Offset: 1, Limit: 2})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != "t-3" || got[1].ID != "t-2" {
			t.Errorf("page = %v", ids(got))
		}
	})

	t.Run("offset past end", func(t *testing.T) {
		got, err := store.List(ctx, taskstore.ListFilter{Offset: 10})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func ids(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestTaskStore_ClearLen(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()

	_ = store.Save(ctx, newTask("t-1", time.Now()))
	_ = store.Save(ctx, newTask("t-2", time.Now()))

	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	store.Clear()
	if store.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", store.Len())
	}
}
