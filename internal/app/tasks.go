package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
)

// taskChangedMsg reports the outcome of a task mutation.
type taskChangedMsg struct {
	err error
}

// entryAppendedMsg reports the outcome of a journal append.
type entryAppendedMsg struct {
	err error
}

// createTask returns a command that adds a new task to the store.
func (m Model) createTask(params store.AddTaskParams) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, err := s.Add(context.Background(), params)
		if err != nil {
			return taskChangedMsg{err: fmt.Errorf("creating task: %w", err)}
		}
		return taskChangedMsg{}
	}
}

// updateTask returns a command that applies a partial update.
func (m Model) updateTask(id string, updates store.TaskUpdates) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if err := s.Update(context.Background(), id, updates); err != nil {
			return taskChangedMsg{err: fmt.Errorf("updating task: %w", err)}
		}
		return taskChangedMsg{}
	}
}

// toggleComplete returns a command that flips a task between completed
// and pending.
func (m Model) toggleComplete(task model.Task) tea.Cmd {
	s := m.store
	status := model.StatusCompleted
	if task.Status == model.StatusCompleted {
		status = model.StatusPending
	}
	id := task.ID
	return func() tea.Msg {
		err := s.Update(context.Background(), id, store.TaskUpdates{Status: &status})
		if err != nil {
			return taskChangedMsg{err: fmt.Errorf("updating task status: %w", err)}
		}
		return taskChangedMsg{}
	}
}

// deleteTask returns a command that removes a task from the store.
func (m Model) deleteTask(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if err := s.Delete(context.Background(), id); err != nil {
			return taskChangedMsg{err: fmt.Errorf("deleting task: %w", err)}
		}
		return taskChangedMsg{}
	}
}

// appendEntry returns a command that writes a journal entry and, when
// the retrieval index is available, indexes it for the assistant.
func (m Model) appendEntry(entry model.JournalEntry) tea.Cmd {
	j := m.journal
	idx := m.index
	return func() tea.Msg {
		saved, err := j.Append(context.Background(), entry)
		if err != nil {
			return entryAppendedMsg{err: fmt.Errorf("saving entry: %w", err)}
		}
		if idx != nil {
			// Indexing is best effort; the entry itself is already durable.
			if err := idx.IndexEntry(context.Background(), *saved); err != nil {
				return entryAppendedMsg{err: fmt.Errorf("indexing entry: %w", err)}
			}
		}
		return entryAppendedMsg{}
	}
}
