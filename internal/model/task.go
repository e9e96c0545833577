package model

import "time"

// Task status constants. Only pending and in_progress tasks are
// considered for notification.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Task priority constants.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ValidStatus reports whether s is one of the recognized task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// ValidPriority reports whether p is one of the recognized priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Task is a user-defined unit of work with an optional due time and
// derived reminder times. All timestamps are stored normalized to UTC.
type Task struct {
	// ID is the opaque unique identifier, assigned at creation.
	ID string `json:"task_id"`

	// Title is the required human-readable summary.
	Title string `json:"title"`

	// Description is the optional free-text body.
	Description string `json:"description,omitempty"`

	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"created_at_utc"`

	// DueAt is the optional deadline; nil means no deadline.
	DueAt *time.Time `json:"due_at_utc,omitempty"`

	// ReminderTimes holds the points in time at which reminders should
	// fire, each computed at creation as DueAt minus a caller-supplied
	// offset. Empty when there is no due time or no offset.
	ReminderTimes []time.Time `json:"reminder_at_utc_list"`

	// Status is one of the Status* constants.
	Status string `json:"status"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority"`

	// Tags are free-form labels; order matters for display only.
	Tags []string `json:"project_tags"`

	// LastRemindedAt is the time of the most recent reminder firing,
	// used as a low-water mark to suppress re-firing past reminder slots.
	LastRemindedAt *time.Time `json:"last_reminded_at_utc,omitempty"`
}

// IsActive reports whether the task is eligible for notification.
func (t *Task) IsActive() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress
}
