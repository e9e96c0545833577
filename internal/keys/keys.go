package keys

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap satisfies bubbles' help.KeyMap so any help widget can render it.
var _ help.KeyMap = (*KeyMap)(nil)

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Views
	Tasks   key.Binding
	Journal key.Binding
	Chat    key.Binding

	// Help toggle
	Help key.Binding

	// Task actions
	NewTask  key.Binding
	EditTask key.Binding
	Complete key.Binding
	Delete   key.Binding

	// Journal actions
	NewEntry key.Binding

	// Sort
	CycleSort key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Tasks: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "tasks"),
		),
		Journal: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "journal"),
		),
		Chat: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "ask Angel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		NewTask: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		EditTask: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "edit task"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		NewEntry: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "new entry"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Tasks, k.Journal, k.Chat, k.Help},
		{k.NewTask, k.EditTask, k.Complete, k.Delete},
		{k.NewEntry, k.CycleSort},
	}
}
