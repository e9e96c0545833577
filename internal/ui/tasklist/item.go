package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
// Now is the evaluation time used for the overdue indicator.
type TaskItem struct {
	Task model.Task
	Now  time.Time
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{i.Task.Status, i.Task.Priority}
	if i.Task.DueAt != nil {
		parts = append(parts, "due "+i.Task.DueAt.Format("Jan 02 15:04"))
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	task := ti.Task
	isSelected := index == m.Index()

	var prefix string
	switch task.Status {
	case model.StatusCompleted:
		prefix = "✓"
	case model.StatusCancelled:
		prefix = "✗"
	default:
		prefix = "○"
	}

	statusBadge := theme.StatusStyle(task.Status).Render(task.Status)
	priBadge := theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority))

	dueStr := ""
	if task.DueAt != nil {
		dueStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" " + task.DueAt.Format("Jan 02 15:04"))
	}

	overdueStr := ""
	if task.IsActive() && task.DueAt != nil && !ti.Now.IsZero() && task.DueAt.Before(ti.Now) {
		overdueStr = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorRed).
			Render(" OVERDUE")
	}

	reminderStr := ""
	if n := len(task.ReminderTimes); n > 0 {
		reminderStr = lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Render(fmt.Sprintf(" ⏰%d", n))
	}

	tagStr := ""
	if len(task.Tags) > 0 {
		display := task.Tags
		if len(display) > 2 {
			display = append(display[:2:2], "…")
		}
		tagStr = lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render(" #" + strings.Join(display, " #"))
	}

	line := fmt.Sprintf(
		"%s %s %s %s%s%s%s%s",
		prefix, statusBadge, priBadge, task.Title,
		tagStr, dueStr, overdueStr, reminderStr,
	)

	if !task.IsActive() {
		line = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p string) string {
	switch p {
	case model.PriorityHigh:
		return "P1"
	case model.PriorityMedium:
		return "P2"
	case model.PriorityLow:
		return "P3"
	default:
		return "P?"
	}
}
