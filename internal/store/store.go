package store

import (
	"context"
	"time"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
)

// AddTaskParams carries the caller-supplied fields for a new task.
// DueAtRaw is an unparsed timestamp string; if it cannot be normalized
// the task is created without a deadline.
type AddTaskParams struct {
	Title                 string
	Description           string
	DueAtRaw              string
	Priority              string   // defaults to medium when empty
	Tags                  []string
	ReminderOffsetMinutes []int // minutes before the due time, each > 0
}

// TaskUpdates is a partial update: nil fields are left unchanged.
// Raw timestamp fields are re-normalized on write.
type TaskUpdates struct {
	Title          *string
	Description    *string
	DueAtRaw       *string
	ReminderRaw    *[]string
	Status         *string
	Priority       *string
	Tags           *[]string
	LastRemindedAt *time.Time
}

// TaskStore is the durable record of tasks.
type TaskStore interface {
	Add(ctx context.Context, params AddTaskParams) (*model.Task, error)
	Get(ctx context.Context, id string) (*model.Task, error)
	Update(ctx context.Context, id string, updates TaskUpdates) error
	Delete(ctx context.Context, id string) error

	// ListActive returns all tasks with pending or in_progress status.
	// Ordering is a caller concern.
	ListActive(ctx context.Context) ([]model.Task, error)

	// ListAll returns every stored task, including completed and
	// cancelled ones.
	ListAll(ctx context.Context) ([]model.Task, error)
}
