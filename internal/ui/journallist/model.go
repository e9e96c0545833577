package journallist

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shrish842/Angel-My-MindAi/internal/keys"
	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
	"github.com/shrish842/Angel-My-MindAi/internal/theme"
)

// EntriesLoadedMsg is sent when journal entries have been loaded.
type EntriesLoadedMsg struct {
	Entries []model.JournalEntry
	Err     error
}

// EntryItem wraps a model.JournalEntry for use in a bubbles/list.
type EntryItem struct {
	Entry model.JournalEntry
}

// FilterValue returns the string used for fuzzy filtering.
func (i EntryItem) FilterValue() string { return i.Entry.Summary }

// Title returns the entry summary for the list.
func (i EntryItem) Title() string { return i.Entry.Summary }

// Description returns a short summary line for the list.
func (i EntryItem) Description() string {
	parts := []string{i.Entry.Type, i.Entry.Timestamp.Format("2006-01-02")}
	if i.Entry.PrimaryEmotion != "" {
		parts = append(parts, i.Entry.PrimaryEmotion)
	}
	return strings.Join(parts, " | ")
}

// itemDelegate renders journal entry rows.
type itemDelegate struct{}

func (d itemDelegate) Height() int  { return 1 }
func (d itemDelegate) Spacing() int { return 0 }

func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EntryItem)
	if !ok {
		return
	}

	entry := ei.Entry
	isSelected := index == m.Index()

	typeBadge := theme.EntryTypeStyle(entry.Type).Render(entry.Type)
	dateStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(entry.Timestamp.Format("Jan 02"))

	emotionStr := ""
	if entry.PrimaryEmotion != "" {
		emotionStr = lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render(" (" + entry.PrimaryEmotion + ")")
	}

	intensityStr := ""
	if entry.Intensity > 0 {
		intensityStr = lipgloss.NewStyle().
			Foreground(theme.ColorOrange).
			Render(fmt.Sprintf(" %d/10", entry.Intensity))
	}

	line := fmt.Sprintf("%s %s %s%s%s",
		dateStr, typeBadge, entry.Summary, emotionStr, intensityStr)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the journal list view component.
type Model struct {
	list    list.Model
	journal *store.JournalStore
	keys    *keys.KeyMap
	loadErr error
	width   int
	height  int
}

// New creates a new journal list model.
func New(journal *store.JournalStore, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-2)
	l.Title = "Journal"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:    l,
		journal: journal,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init returns a command that loads the journal.
func (m Model) Init() tea.Cmd {
	return m.LoadEntries()
}

// Update handles messages for the journal list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EntriesLoadedMsg:
		m.loadErr = msg.Err
		entries := msg.Entries
		// Newest first for display.
		items := make([]list.Item, len(entries))
		for i := range entries {
			items[i] = EntryItem{Entry: entries[len(entries)-1-i]}
		}
		cmd := m.list.SetItems(items)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Selected returns the currently highlighted entry, if any.
func (m Model) Selected() (model.JournalEntry, bool) {
	item, ok := m.list.SelectedItem().(EntryItem)
	if !ok {
		return model.JournalEntry{}, false
	}
	return item.Entry, true
}

// View renders the journal list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		style := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		if m.loadErr != nil {
			return style.Render("Could not load journal.\n" + m.loadErr.Error())
		}
		return style.Render("No journal entries yet.\n\nPress e to log one.")
	}
	return m.list.View()
}

// LoadEntries returns a tea.Cmd that reads the journal from disk.
func (m Model) LoadEntries() tea.Cmd {
	j := m.journal
	return func() tea.Msg {
		entries, err := j.Load(context.Background())
		if err != nil {
			return EntriesLoadedMsg{Err: err}
		}
		return EntriesLoadedMsg{Entries: entries}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
