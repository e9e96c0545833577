package tasklist

import (
	"context"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shrish842/Angel-My-MindAi/internal/keys"
	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
	"github.com/shrish842/Angel-My-MindAi/internal/theme"
	"github.com/shrish842/Angel-My-MindAi/internal/timeutil"
)

// TasksLoadedMsg is sent when tasks have been loaded from the store.
type TasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

// SelectedTaskMsg is sent when a user selects a task for editing.
type SelectedTaskMsg struct {
	Task model.Task
}

// sortModes defines the available sort modes cycled by Tab.
var sortModes = []string{
	"due_at",
	"priority",
	"created_at",
	"title",
	"status",
}

// priorityRank orders priorities for sorting, highest first.
var priorityRank = map[string]int{
	model.PriorityHigh:   0,
	model.PriorityMedium: 1,
	model.PriorityLow:    2,
}

// Model is the task list view component.
type Model struct {
	list      list.Model
	store     store.TaskStore
	clock     timeutil.Clock
	keys      *keys.KeyMap
	sortIndex int
	loadErr   error
	width     int
	height    int
}

// New creates a new task list model.
func New(s store.TaskStore, clock timeutil.Clock, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		clock:  clock,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.loadErr = msg.Err
		tasks := msg.Tasks
		m.sortTasks(tasks)
		now := m.clock.Now()
		items := make([]list.Item, len(tasks))
		for i, task := range tasks {
			items[i] = TaskItem{Task: task, Now: now}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(TaskItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedTaskMsg{Task: item.Task}
			}

		case key.Matches(msg, m.keys.CycleSort):
			m.sortIndex = (m.sortIndex + 1) % len(sortModes)
			return m, m.LoadTasks()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// sortTasks orders tasks in place according to the current sort mode.
// Tasks without a due time sort after those with one.
func (m Model) sortTasks(tasks []model.Task) {
	mode := sortModes[m.sortIndex]
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch mode {
		case "due_at":
			switch {
			case a.DueAt == nil && b.DueAt == nil:
				return a.CreatedAt.Before(b.CreatedAt)
			case a.DueAt == nil:
				return false
			case b.DueAt == nil:
				return true
			default:
				return a.DueAt.Before(*b.DueAt)
			}
		case "priority":
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		case "created_at":
			return a.CreatedAt.After(b.CreatedAt)
		case "title":
			return a.Title < b.Title
		case "status":
			return a.Status < b.Status
		default:
			return false
		}
	})
}

// SortMode returns the name of the active sort mode for the status bar.
func (m Model) SortMode() string {
	return sortModes[m.sortIndex]
}

// Selected returns the currently highlighted task, if any.
func (m Model) Selected() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// View renders the task list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks exist.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loadErr != nil {
		return style.Render("Could not load tasks.\n" + m.loadErr.Error())
	}
	return style.Render("No tasks yet.\n\nPress n to add one.")
}

// LoadTasks returns a tea.Cmd that reads all tasks from the store.
func (m Model) LoadTasks() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		tasks, err := s.ListAll(context.Background())
		if err != nil {
			return TasksLoadedMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
