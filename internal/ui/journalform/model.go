package journalform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/theme"
)

// EntryCreatedMsg is dispatched when the form is submitted.
type EntryCreatedMsg struct {
	Entry model.JournalEntry
}

// EntryFormCancelMsg is dispatched when the user cancels the form.
type EntryFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	entryType string
	summary   string
	emotion   string
	thoughts  string
	learnings string
	intensity int
	tags      string
}

// Model is the Bubble Tea model for logging a new journal entry.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new journal entry form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{entryType: model.EntryGeneralNote},
		width:  width,
		height: height,
	}
}

// Start initializes the form for a fresh entry.
func (m *Model) Start() tea.Cmd {
	m.fb.entryType = model.EntryGeneralNote
	m.fb.summary = ""
	m.fb.emotion = ""
	m.fb.thoughts = ""
	m.fb.learnings = ""
	m.fb.intensity = 0
	m.fb.tags = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the journal form.
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
		return m, func() tea.Msg { return EntryFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the journal form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Journal Entry") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	typeOpts := make([]huh.Option[string], len(model.EntryTypes))
	for i, t := range model.EntryTypes {
		typeOpts[i] = huh.NewOption(displayType(t), t)
	}

	intensityOpts := []huh.Option[int]{huh.NewOption("None", 0)}
	for i := 1; i <= 10; i++ {
		intensityOpts = append(intensityOpts, huh.NewOption(fmt.Sprintf("%d", i), i))
	}

	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Entry type").
			Options(typeOpts...).
			Value(&m.fb.entryType),
		huh.NewInput().
			Title("Summary").
			Placeholder("What happened?").
			Value(&m.fb.summary).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("Summary is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Primary emotion").
			Placeholder("e.g. anxious, proud (optional)").
			Value(&m.fb.emotion),
		huh.NewText().
			Title("Thoughts during").
			Placeholder("One per line (optional)").
			Value(&m.fb.thoughts),
		huh.NewText().
			Title("Learnings / reflections").
			Placeholder("One per line (optional)").
			Value(&m.fb.learnings),
		huh.NewSelect[int]().
			Title("Intensity").
			Options(intensityOpts...).
			Value(&m.fb.intensity),
		huh.NewInput().
			Title("Tags").
			Placeholder("comma-separated (optional)").
			Value(&m.fb.tags),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	entry := model.JournalEntry{
		Type:           m.fb.entryType,
		Summary:        strings.TrimSpace(m.fb.summary),
		PrimaryEmotion: strings.TrimSpace(m.fb.emotion),
		Thoughts:       splitLines(m.fb.thoughts),
		Learnings:      splitLines(m.fb.learnings),
		Intensity:      m.fb.intensity,
		Tags:           splitTags(m.fb.tags),
	}
	return func() tea.Msg { return EntryCreatedMsg{Entry: entry} }
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

// displayType renders an entry type constant as a human-friendly label.
func displayType(t string) string {
	words := strings.Split(t, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func splitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
