package model

import "time"

// Notification reasons.
const (
	ReasonDue      = "due"
	ReasonReminder = "reminder"
)

// NotificationEvent is a single firing decision produced by the reminder
// evaluator: a task that needs a user-facing notification right now.
type NotificationEvent struct {
	// TaskID identifies the task that triggered the event.
	TaskID string `json:"task_id"`

	// Title is carried so notifiers need not re-read the store.
	Title string `json:"title"`

	// Reason is ReasonDue or ReasonReminder.
	Reason string `json:"reason"`

	// DueAt is the task's deadline, if any.
	DueAt *time.Time `json:"due_at_utc,omitempty"`

	// ReminderAt is the specific reminder slot that triggered the event.
	// Set only when Reason is ReasonReminder.
	ReminderAt *time.Time `json:"reminder_at_utc,omitempty"`
}
