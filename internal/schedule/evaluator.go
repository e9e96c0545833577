package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
)

// Evaluator decides which active tasks need a user-facing notification
// at a given point in time. It is read-only: marking a reminder as fired
// (the last_reminded_at low-water mark) is the caller's job.
type Evaluator struct {
	store store.TaskStore
}

// NewEvaluator creates an evaluator over the given task store.
func NewEvaluator(s store.TaskStore) *Evaluator {
	return &Evaluator{store: s}
}

// Evaluate scans active tasks and returns at most one notification event
// per task:
//
//   - A reminder event fires for the first elapsed reminder slot not yet
//     covered by the task's last_reminded_at mark.
//   - A due event fires whenever the deadline has passed, on every call,
//     until the task leaves the active statuses.
//   - When both qualify in the same pass the due reason wins and the
//     reminder slot stays unmarked.
func (e *Evaluator) Evaluate(ctx context.Context, now time.Time) ([]model.NotificationEvent, error) {
	tasks, err := e.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active tasks: %w", err)
	}

	now = now.UTC()

	var events []model.NotificationEvent
	for _, task := range tasks {
		event, ok := evaluateTask(&task, now)
		if ok {
			events = append(events, event)
		}
	}

	return events, nil
}

// evaluateTask computes the notification candidate for a single task.
func evaluateTask(task *model.Task, now time.Time) (model.NotificationEvent, bool) {
	event := model.NotificationEvent{
		TaskID: task.ID,
		Title:  task.Title,
		DueAt:  task.DueAt,
	}

	for _, r := range task.ReminderTimes {
		if r.After(now) {
			continue
		}
		if task.LastRemindedAt != nil && !task.LastRemindedAt.Before(r) {
			continue
		}
		// One reminder event per task per pass, even when several
		// slots have elapsed.
		r := r
		event.Reason = model.ReasonReminder
		event.ReminderAt = &r
		break
	}

	if task.DueAt != nil && !task.DueAt.After(now) {
		event.Reason = model.ReasonDue
		event.ReminderAt = nil
	}

	return event, event.Reason != ""
}
