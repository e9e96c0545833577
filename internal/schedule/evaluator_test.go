package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/schedule"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
	"github.com/shrish842/Angel-My-MindAi/tests/testutil"
)

// addTask is a shorthand for seeding a task through the store.
func addTask(t *testing.T, s store.TaskStore, params store.AddTaskParams) *model.Task {
	t.Helper()

	task, err := s.Add(context.Background(), params)
	if err != nil {
		t.Fatalf("adding task %q: %v", params.Title, err)
	}
	return task
}

func TestEvaluateQuietBeforeFirstReminder(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-12-31T20:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	addTask(t, s, store.AddTaskParams{
		Title:                 "Pay rent",
		DueAtRaw:              "2025-01-01T00:00:00Z",
		ReminderOffsetMinutes: []int{30},
	})

	ev := schedule.NewEvaluator(s)
	now := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	events, err := ev.Evaluate(context.Background(), now)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events before the reminder time, want 0", len(events))
	}
}

func TestEvaluateFiresElapsedReminderOnce(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-12-31T20:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	task := addTask(t, s, store.AddTaskParams{
		Title:                 "Pay rent",
		DueAtRaw:              "2025-01-01T00:00:00Z",
		ReminderOffsetMinutes: []int{30},
	})

	ev := schedule.NewEvaluator(s)
	ctx := context.Background()
	now := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)

	events, err := ev.Evaluate(ctx, now)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 reminder", len(events))
	}
	event := events[0]
	if event.Reason != model.ReasonReminder {
		t.Errorf("reason = %q, want reminder", event.Reason)
	}
	if event.TaskID != task.ID {
		t.Errorf("task ID = %q, want %q", event.TaskID, task.ID)
	}
	if event.ReminderAt == nil || !event.ReminderAt.Equal(now) {
		t.Errorf("ReminderAt = %v, want %v", event.ReminderAt, now)
	}

	// Record the mark, as the scheduler would, and re-check later but
	// still before the deadline: the slot must not refire.
	if err := s.Update(ctx, task.ID, store.TaskUpdates{LastRemindedAt: &now}); err != nil {
		t.Fatalf("recording reminder mark: %v", err)
	}
	events, err = ev.Evaluate(ctx, now.Add(15*time.Minute))
	if err != nil {
		t.Fatalf("second Evaluate: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events after marking, want 0", len(events))
	}
}

func TestEvaluateOnlyFirstUnfiredSlotPerPass(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-12-31T00:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	addTask(t, s, store.AddTaskParams{
		Title:                 "Submit form",
		DueAtRaw:              "2025-01-01T00:00:00Z",
		ReminderOffsetMinutes: []int{120, 60, 30},
	})

	ev := schedule.NewEvaluator(s)
	// All three slots have elapsed, but each pass reports only the
	// earliest uncovered one.
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(-10 * time.Minute)
	events, err := ev.Evaluate(context.Background(), now)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	wantSlot := time.Date(2024, 12, 31, 22, 0, 0, 0, time.UTC)
	if events[0].ReminderAt == nil || !events[0].ReminderAt.Equal(wantSlot) {
		t.Errorf("ReminderAt = %v, want earliest slot %v", events[0].ReminderAt, wantSlot)
	}
}

func TestEvaluateDueFiresEveryPass(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-12-31T00:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	task := addTask(t, s, store.AddTaskParams{
		Title:    "Pay rent",
		DueAtRaw: "2025-01-01T00:00:00Z",
	})

	ev := schedule.NewEvaluator(s)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC)

	for pass := 0; pass < 3; pass++ {
		events, err := ev.Evaluate(ctx, now.Add(time.Duration(pass)*time.Minute))
		if err != nil {
			t.Fatalf("Evaluate pass %d: %v", pass, err)
		}
		if len(events) != 1 {
			t.Fatalf("pass %d: got %d events, want 1 due event", pass, len(events))
		}
		if events[0].Reason != model.ReasonDue {
			t.Errorf("pass %d: reason = %q, want due", pass, events[0].Reason)
		}
		if events[0].TaskID != task.ID {
			t.Errorf("pass %d: task ID = %q, want %q", pass, events[0].TaskID, task.ID)
		}
	}
}

func TestEvaluateDueWinsOverReminder(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-12-31T00:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	addTask(t, s, store.AddTaskParams{
		Title:                 "Pay rent",
		DueAtRaw:              "2025-01-01T00:00:00Z",
		ReminderOffsetMinutes: []int{30},
	})

	ev := schedule.NewEvaluator(s)
	// Both the reminder slot and the deadline have elapsed. A single due
	// event must be reported and the reminder suppressed.
	now := time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC)
	events, err := ev.Evaluate(context.Background(), now)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Reason != model.ReasonDue {
		t.Errorf("reason = %q, want due", events[0].Reason)
	}
	if events[0].ReminderAt != nil {
		t.Errorf("ReminderAt = %v, want nil on a due event", events[0].ReminderAt)
	}
}

func TestEvaluateIgnoresClosedTasks(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-12-31T00:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	task := addTask(t, s, store.AddTaskParams{
		Title:    "Old chore",
		DueAtRaw: "2024-01-01T00:00:00Z",
	})

	ctx := context.Background()
	completed := model.StatusCompleted
	if err := s.Update(ctx, task.ID, store.TaskUpdates{Status: &completed}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	ev := schedule.NewEvaluator(s)
	events, err := ev.Evaluate(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events for a completed task, want 0", len(events))
	}
}

func TestEvaluateTaskWithoutScheduleIsSilent(t *testing.T) {
	clock := testutil.NewFakeClock(t, "2024-12-31T00:00:00Z")
	s := testutil.NewTaskStore(t, clock)
	addTask(t, s, store.AddTaskParams{Title: "Someday maybe"})

	ev := schedule.NewEvaluator(s)
	events, err := ev.Evaluate(context.Background(), time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events for a task with no due time, want 0", len(events))
	}
}
