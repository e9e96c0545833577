package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
	"github.com/shrish842/Angel-My-MindAi/tests/testutil"
)

func TestAddDerivesRemindersFromOffsets(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	ctx := context.Background()

	task, err := s.Add(ctx, store.AddTaskParams{
		Title:                 "Pay rent",
		DueAtRaw:              "2030-01-01T10:00:00+00:00",
		ReminderOffsetMinutes: []int{30, 120},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if task.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", task.Status)
	}
	if task.Priority != model.PriorityMedium {
		t.Errorf("priority = %q, want medium (default)", task.Priority)
	}
	if task.DueAt == nil {
		t.Fatal("DueAt is nil")
	}

	wantDue := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	if !task.DueAt.Equal(wantDue) {
		t.Errorf("DueAt = %v, want %v", task.DueAt, wantDue)
	}

	// Offsets of 120 and 30 minutes before the due time, ascending.
	if len(task.ReminderTimes) != 2 {
		t.Fatalf("got %d reminder times, want 2", len(task.ReminderTimes))
	}
	if want := wantDue.Add(-120 * time.Minute); !task.ReminderTimes[0].Equal(want) {
		t.Errorf("ReminderTimes[0] = %v, want %v", task.ReminderTimes[0], want)
	}
	if want := wantDue.Add(-30 * time.Minute); !task.ReminderTimes[1].Equal(want) {
		t.Errorf("ReminderTimes[1] = %v, want %v", task.ReminderTimes[1], want)
	}
}

func TestAddValidation(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	ctx := context.Background()

	_, err := s.Add(ctx, store.AddTaskParams{Title: ""})
	var vErr *store.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("empty title error = %v, want *ValidationError", err)
	}
	if vErr.Field != "title" {
		t.Errorf("validation field = %q, want title", vErr.Field)
	}

	_, err = s.Add(ctx, store.AddTaskParams{Title: "x", Priority: "urgent"})
	if !errors.As(err, &vErr) {
		t.Fatalf("bad priority error = %v, want *ValidationError", err)
	}
}

func TestAddUnparsableDueCreatesTaskWithoutDeadline(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	ctx := context.Background()

	task, err := s.Add(ctx, store.AddTaskParams{
		Title:                 "Vague plans",
		DueAtRaw:              "sometime next week",
		ReminderOffsetMinutes: []int{60},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if task.DueAt != nil {
		t.Errorf("DueAt = %v, want nil for unparsable input", task.DueAt)
	}
	if len(task.ReminderTimes) != 0 {
		t.Errorf("got %d reminder times, want 0 without a due time", len(task.ReminderTimes))
	}
}

func TestGetNotFound(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	s := testutil.NewTaskStore(t, clock)

	_, err := s.Get(context.Background(), "no-such-id")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestUpdateFields(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	ctx := context.Background()

	task, err := s.Add(ctx, store.AddTaskParams{Title: "Draft report"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	status := model.StatusInProgress
	priority := model.PriorityHigh
	due := "2025-03-01 09:00"
	if err := s.Update(ctx, task.ID, store.TaskUpdates{
		Status:   &status,
		Priority: &priority,
		DueAtRaw: &due,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.StatusInProgress {
		t.Errorf("status = %q, want in_progress", got.Status)
	}
	if got.Priority != model.PriorityHigh {
		t.Errorf("priority = %q, want high", got.Priority)
	}
	wantDue := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	if got.DueAt == nil || !got.DueAt.Equal(wantDue) {
		t.Errorf("DueAt = %v, want %v", got.DueAt, wantDue)
	}
}

func TestUpdateRejectsUnknownEnums(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	ctx := context.Background()

	task, err := s.Add(ctx, store.AddTaskParams{Title: "Draft report"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	bad := "done"
	err = s.Update(ctx, task.ID, store.TaskUpdates{Status: &bad})
	var vErr *store.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Update error = %v, want *ValidationError", err)
	}

	// The rejected update must not have touched the record.
	got, err := s.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.StatusPending {
		t.Errorf("status changed to %q after rejected update", got.Status)
	}
}

func TestUpdateUnparsableDueClearsDeadline(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	ctx := context.Background()

	task, err := s.Add(ctx, store.AddTaskParams{
		Title:    "Call dentist",
		DueAtRaw: "2025-02-01",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	bad := "whenever"
	if err := s.Update(ctx, task.ID, store.TaskUpdates{DueAtRaw: &bad}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DueAt != nil {
		t.Errorf("DueAt = %v, want nil after unparsable update", got.DueAt)
	}
}

func TestUpdateNotFound(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	s := testutil.NewTaskStore(t, clock)

	title := "anything"
	err := s.Update(context.Background(), "missing", store.TaskUpdates{Title: &title})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	ctx := context.Background()

	task, err := s.Add(ctx, store.AddTaskParams{Title: "Temporary"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestListActiveExcludesClosedTasks(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	ctx := context.Background()

	open, err := s.Add(ctx, store.AddTaskParams{Title: "Open"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	done, err := s.Add(ctx, store.AddTaskParams{Title: "Done"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	completed := model.StatusCompleted
	if err := s.Update(ctx, done.ID, store.TaskUpdates{Status: &completed}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	active, err := s.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].ID != open.ID {
		t.Errorf("ListActive returned %d tasks, want only the open one", len(active))
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListAll returned %d tasks, want 2", len(all))
	}
}

func TestTasksSurviveReopen(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	path := filepath.Join(t.TempDir(), "tasks_data.jsonl")
	ctx := context.Background()

	first := store.NewFileTaskStore(path, clock, testutil.QuietLogger())
	task, err := first.Add(ctx, store.AddTaskParams{Title: "Persistent"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	second := store.NewFileTaskStore(path, clock, testutil.QuietLogger())
	got, err := second.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get from reopened store: %v", err)
	}
	if got.Title != "Persistent" {
		t.Errorf("title = %q, want Persistent", got.Title)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("CreatedAt changed across reopen: %v vs %v", got.CreatedAt, task.CreatedAt)
	}
}

func TestAddThenGetReturnsIdenticalTask(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	path := filepath.Join(t.TempDir(), "tasks_data.jsonl")
	ctx := context.Background()

	s := store.NewFileTaskStore(path, clock, testutil.QuietLogger())
	added, err := s.Add(ctx, store.AddTaskParams{
		Title:                 "Submit thesis draft",
		Description:           "Chapters 1 through 3 with references",
		DueAtRaw:              "2030-01-01T10:00:00Z",
		Priority:              model.PriorityHigh,
		Tags:                  []string{"uni", "writing"},
		ReminderOffsetMinutes: []int{30, 120},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(added, got) {
		t.Errorf("Get differs from Add:\n add: %+v\n got: %+v", added, got)
	}

	// A fresh store reads the record back through the JSONL round trip.
	reopened, err := store.NewFileTaskStore(path, clock, testutil.QuietLogger()).Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("Get from reopened store: %v", err)
	}
	if !reflect.DeepEqual(added, reopened) {
		t.Errorf("reloaded task differs from Add:\n add: %+v\n got: %+v", added, reopened)
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-06-01T12:00:00Z")
	path := filepath.Join(t.TempDir(), "tasks_data.jsonl")
	ctx := context.Background()

	s := store.NewFileTaskStore(path, clock, testutil.QuietLogger())
	if _, err := s.Add(ctx, store.AddTaskParams{Title: "Good"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening store file: %v", err)
	}
	if _, err := f.WriteString("{this is not json\n"); err != nil {
		t.Fatalf("writing garbage line: %v", err)
	}
	f.Close()

	tasks, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("got %d tasks, want 1 with the garbage line skipped", len(tasks))
	}
}
