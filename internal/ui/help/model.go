package help

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shrish842/Angel-My-MindAi/internal/keys"
	"github.com/shrish842/Angel-My-MindAi/internal/theme"
)

// section pairs one keybinding group with a short description of the
// flow those keys belong to.
type section struct {
	title string
	blurb string
	group int // index into KeyMap.FullHelp
}

var sections = []section{
	{
		title: "Navigate",
		blurb: "Move through lists; esc steps back to the task view.",
		group: 0,
	},
	{
		title: "Views",
		blurb: "Tasks and journal are the two home screens. a opens a chat grounded in your own journal entries.",
		group: 1,
	},
	{
		title: "Tasks",
		blurb: "New tasks take a due time and reminder offsets in minutes; reminders fire while the app is running.",
		group: 2,
	},
	{
		title: "Journal",
		blurb: "Logged entries feed the chat context. Tab cycles the task sort order.",
		group: 3,
	},
}

// Model is the help overlay describing the task, journal, and chat flows.
type Model struct {
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   keys,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue).
		MarginTop(1)
	blurbStyle := lipgloss.NewStyle().
		Foreground(theme.ColorGray)
	keyStyle := lipgloss.NewStyle().
		Foreground(theme.ColorYellow).
		Width(10)

	groups := m.keys.FullHelp()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Angel"))
	b.WriteString("\n")
	b.WriteString(blurbStyle.Render("A task list, a journal, and an assistant that reads only your own words."))
	b.WriteString("\n")

	for _, s := range sections {
		if s.group >= len(groups) {
			continue
		}
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		b.WriteString(blurbStyle.Render(s.blurb))
		b.WriteString("\n")
		for _, binding := range groups[s.group] {
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(h.Desc)
			b.WriteString("\n")
		}
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(b.String())
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
