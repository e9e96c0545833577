package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shrish842/Angel-My-MindAi/internal/ai"
	"github.com/shrish842/Angel-My-MindAi/internal/keys"
	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/notify"
	"github.com/shrish842/Angel-My-MindAi/internal/retrieval"
	"github.com/shrish842/Angel-My-MindAi/internal/schedule"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
	"github.com/shrish842/Angel-My-MindAi/internal/timeutil"
	"github.com/shrish842/Angel-My-MindAi/internal/ui"
	"github.com/shrish842/Angel-My-MindAi/internal/ui/chat"
	helpview "github.com/shrish842/Angel-My-MindAi/internal/ui/help"
	"github.com/shrish842/Angel-My-MindAi/internal/ui/journalform"
	"github.com/shrish842/Angel-My-MindAi/internal/ui/journallist"
	"github.com/shrish842/Angel-My-MindAi/internal/ui/taskform"
	"github.com/shrish842/Angel-My-MindAi/internal/ui/tasklist"
)

// NotificationMsg carries a due or reminder event from the scheduler to
// the UI.
type NotificationMsg struct {
	Event model.NotificationEvent
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewTasks ViewState = iota
	ViewJournal
	ViewChat
	ViewHelp
	ViewTaskCreate
	ViewTaskEdit
	ViewEntryCreate
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the stores.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.TaskStore
	journal      *store.JournalStore
	index        *retrieval.Index
	scheduler    *schedule.Scheduler
	events       <-chan model.NotificationEvent
	keys         *keys.KeyMap

	taskList    tasklist.Model
	journalList journallist.Model
	chatView    chat.Model
	helpView    helpview.Model
	taskForm    taskform.Model
	entryForm   journalform.Model

	ready         bool
	statusMessage string
}

// New creates the root application model. The events channel delivers
// scheduler notifications; it may be nil when the scheduler is disabled.
// The assistant and index may be nil when unconfigured.
func New(
	taskStore store.TaskStore,
	journal *store.JournalStore,
	index *retrieval.Index,
	assistant *ai.Assistant,
	scheduler *schedule.Scheduler,
	events <-chan model.NotificationEvent,
	clock timeutil.Clock,
) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewTasks,
		store:       taskStore,
		journal:     journal,
		index:       index,
		scheduler:   scheduler,
		events:      events,
		keys:        k,
		taskList:    tasklist.New(taskStore, clock, k, 80, 24),
		journalList: journallist.New(journal, k, 80, 24),
		chatView:    chat.New(assistant, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		taskForm:    taskform.New(80, 24),
		entryForm:   journalform.New(80, 24),
	}
}

// Init loads the task list and begins listening for scheduler events.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.taskList.Init(), m.journalList.Init()}
	if m.events != nil {
		cmds = append(cmds, m.waitForNotification())
	}
	return tea.Batch(cmds...)
}

// waitForNotification blocks on the scheduler event channel and converts
// the next event into a NotificationMsg.
func (m Model) waitForNotification() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg{Event: event}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.journalList.SetSize(contentWidth, contentHeight)
		m.chatView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.taskForm.SetSize(contentWidth, contentHeight)
		m.entryForm.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case NotificationMsg:
		m.statusMessage = notify.Message(msg.Event)
		// Reminder marks change the stored task, so reload the list.
		return m, tea.Batch(m.taskList.LoadTasks(), m.waitForNotification())

	case tasklist.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		return m, m.taskForm.StartEdit(msg.Task)

	case taskform.TaskCreatedMsg:
		m.currentView = ViewTasks
		return m, m.createTask(msg.Params)

	case taskform.TaskUpdatedMsg:
		m.currentView = ViewTasks
		return m, m.updateTask(msg.TaskID, msg.Updates)

	case taskform.TaskFormCancelMsg:
		m.currentView = ViewTasks
		return m, nil

	case journalform.EntryCreatedMsg:
		m.currentView = ViewJournal
		return m, m.appendEntry(msg.Entry)

	case journalform.EntryFormCancelMsg:
		m.currentView = ViewJournal
		return m, nil

	case taskChangedMsg:
		if msg.err != nil {
			m.statusMessage = msg.err.Error()
		}
		return m, m.taskList.LoadTasks()

	case entryAppendedMsg:
		if msg.err != nil {
			m.statusMessage = msg.err.Error()
		}
		return m, m.journalList.LoadEntries()

	case chat.ChatCloseMsg:
		m.currentView = ViewTasks
		return m, nil

	case chat.ChatResponseMsg:
		if m.currentView == ViewChat {
			var cmd tea.Cmd
			m.chatView, cmd = m.chatView.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that switch views or act on the
// selected item. Keys are not intercepted while a form or the chat
// input has focus.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.scheduler != nil {
			m.scheduler.Stop()
		}
		return true, m, tea.Quit
	}

	inputFocused := m.currentView == ViewChat ||
		m.currentView == ViewTaskCreate ||
		m.currentView == ViewTaskEdit ||
		m.currentView == ViewEntryCreate
	if inputFocused {
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewTasks || m.currentView == ViewJournal {
			if m.scheduler != nil {
				m.scheduler.Stop()
			}
			return true, m, tea.Quit
		}

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case key.Matches(msg, m.keys.Back):
		if m.currentView != ViewTasks {
			m.currentView = ViewTasks
			return true, m, nil
		}

	case key.Matches(msg, m.keys.Tasks):
		m.currentView = ViewTasks
		return true, m, m.taskList.LoadTasks()

	case key.Matches(msg, m.keys.Journal):
		m.currentView = ViewJournal
		return true, m, m.journalList.LoadEntries()

	case key.Matches(msg, m.keys.Chat):
		m.previousView = m.currentView
		m.currentView = ViewChat
		return true, m, m.chatView.Focus()

	case key.Matches(msg, m.keys.NewTask):
		if m.currentView == ViewTasks {
			m.previousView = m.currentView
			m.currentView = ViewTaskCreate
			return true, m, m.taskForm.StartCreate()
		}

	case key.Matches(msg, m.keys.EditTask):
		if m.currentView == ViewTasks {
			task, ok := m.taskList.Selected()
			if ok {
				m.previousView = m.currentView
				m.currentView = ViewTaskEdit
				return true, m, m.taskForm.StartEdit(task)
			}
		}

	case key.Matches(msg, m.keys.Complete):
		if m.currentView == ViewTasks {
			task, ok := m.taskList.Selected()
			if ok {
				return true, m, m.toggleComplete(task)
			}
		}

	case key.Matches(msg, m.keys.Delete):
		if m.currentView == ViewTasks {
			task, ok := m.taskList.Selected()
			if ok {
				return true, m, m.deleteTask(task.ID)
			}
		}

	case key.Matches(msg, m.keys.NewEntry):
		if m.currentView == ViewTasks || m.currentView == ViewJournal {
			m.previousView = m.currentView
			m.currentView = ViewEntryCreate
			return true, m, m.entryForm.Start()
		}
	}

	return false, m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewJournal:
		m.journalList, cmd = m.journalList.Update(msg)
	case ViewChat:
		m.chatView, cmd = m.chatView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewEntryCreate:
		m.entryForm, cmd = m.entryForm.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Angel", m.schedulerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTasks:
		return m.taskList.View()
	case ViewJournal:
		return m.journalList.View()
	case ViewChat:
		return m.chatView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.taskForm.View()
	case ViewEntryCreate:
		return m.entryForm.View()
	default:
		return ""
	}
}

// schedulerStatus returns a short string describing the reminder loop.
func (m Model) schedulerStatus() string {
	if m.scheduler == nil {
		return "reminders off"
	}
	if m.scheduler.Running() {
		return "reminders on"
	}
	return "reminders stopped"
}

// keyHints returns keyboard shortcut hints for the status bar. A recent
// notification takes precedence over the hints.
func (m Model) keyHints() string {
	if m.statusMessage != "" &&
		(m.currentView == ViewTasks || m.currentView == ViewJournal) {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewChat:
		return "enter send | esc close"
	case ViewTaskCreate, ViewTaskEdit, ViewEntryCreate:
		return "enter submit | esc cancel"
	case ViewJournal:
		return "e new entry | 1 tasks | a ask | ? help | q quit"
	default:
		return fmt.Sprintf(
			"n new | x edit | c complete | d delete | e log | 2 journal | a ask | tab sort (%s) | ? help",
			m.taskList.SortMode(),
		)
	}
}
