package taskform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
	"github.com/shrish842/Angel-My-MindAi/internal/theme"
	"github.com/shrish842/Angel-My-MindAi/internal/timeutil"
)

// TaskCreatedMsg is dispatched when the create form is submitted.
type TaskCreatedMsg struct {
	Params store.AddTaskParams
}

// TaskUpdatedMsg is dispatched when the edit form is submitted.
type TaskUpdatedMsg struct {
	TaskID  string
	Updates store.TaskUpdates
}

// TaskFormCancelMsg is dispatched when the user cancels the form.
type TaskFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	dueAt       string
	priority    string
	status      string
	tags        string
	reminders   string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium, status: model.StatusPending},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.dueAt = ""
	m.fb.priority = model.PriorityMedium
	m.fb.status = model.StatusPending
	m.fb.tags = ""
	m.fb.reminders = ""
	m.form = m.buildForm(false)
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.priority = task.Priority
	m.fb.status = task.Status
	m.fb.tags = strings.Join(task.Tags, ", ")
	m.fb.reminders = ""
	if task.DueAt != nil {
		m.fb.dueAt = timeutil.FormatUTC(*task.DueAt)
	} else {
		m.fb.dueAt = ""
	}
	m.form = m.buildForm(true)
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TaskFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm(edit bool) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewInput().
			Title("Due").
			Placeholder("2025-01-15 18:00 or RFC 3339 (optional)").
			Value(&m.fb.dueAt).
			Validate(validateOptionalTime),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Medium", model.PriorityMedium),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Tags").
			Placeholder("comma-separated (optional)").
			Value(&m.fb.tags),
	}

	if edit {
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Pending", model.StatusPending),
					huh.NewOption("In progress", model.StatusInProgress),
					huh.NewOption("Completed", model.StatusCompleted),
					huh.NewOption("Cancelled", model.StatusCancelled),
				).
				Value(&m.fb.status),
		)
	} else {
		fields = append(fields,
			huh.NewInput().
				Title("Remind before due").
				Placeholder("minutes, comma-separated, e.g. 60, 15 (optional)").
				Value(&m.fb.reminders).
				Validate(validateOffsets),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	tags := splitTags(m.fb.tags)

	if m.editMode {
		title := strings.TrimSpace(m.fb.title)
		description := m.fb.description
		due := strings.TrimSpace(m.fb.dueAt)
		status := m.fb.status
		priority := m.fb.priority
		updates := store.TaskUpdates{
			Title:       &title,
			Description: &description,
			DueAtRaw:    &due,
			Status:      &status,
			Priority:    &priority,
			Tags:        &tags,
		}
		id := m.editID
		return func() tea.Msg { return TaskUpdatedMsg{TaskID: id, Updates: updates} }
	}

	params := store.AddTaskParams{
		Title:                 strings.TrimSpace(m.fb.title),
		Description:           m.fb.description,
		DueAtRaw:              strings.TrimSpace(m.fb.dueAt),
		Priority:              m.fb.priority,
		Tags:                  tags,
		ReminderOffsetMinutes: parseOffsets(m.fb.reminders),
	}
	return func() tea.Msg { return TaskCreatedMsg{Params: params} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// splitTags splits a comma-separated tag string, dropping empties.
func splitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseOffsets parses comma-separated positive minute offsets. Invalid
// or non-positive entries are dropped; validation happens in the form.
func parseOffsets(s string) []int {
	var offsets []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			continue
		}
		offsets = append(offsets, n)
	}
	return offsets
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := timeutil.Normalize(s); err != nil {
		return fmt.Errorf("unrecognized time, try YYYY-MM-DD HH:MM")
	}
	return nil
}

func validateOffsets(s string) error {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return fmt.Errorf("offsets must be positive minute counts")
		}
	}
	return nil
}
