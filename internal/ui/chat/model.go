package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shrish842/Angel-My-MindAi/internal/ai"
	"github.com/shrish842/Angel-My-MindAi/internal/keys"
	"github.com/shrish842/Angel-My-MindAi/internal/theme"
)

// ChatCloseMsg signals the parent to close the chat panel.
type ChatCloseMsg struct{}

// ChatResponseMsg carries the assistant's reply to a query.
type ChatResponseMsg struct {
	Text   string
	Expert ai.Expert
	Err    error
}

// displayMessage represents a message rendered in the conversation viewport.
type displayMessage struct {
	Role    string
	Content string
}

// Model is the chat panel Bubble Tea model that fronts the assistant.
type Model struct {
	assistant *ai.Assistant
	input     textarea.Model
	viewport  viewport.Model
	messages  []displayMessage
	waiting   bool
	keys      *keys.KeyMap
	width     int
	height    int
	noAPIKey  bool
}

// New creates a new chat panel model. If assistant is nil (no API key),
// the panel displays a configuration prompt instead.
func New(assistant *ai.Assistant, k *keys.KeyMap, width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask Angel about your logs..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.CharLimit = 2000
	ta.Focus()

	vpHeight := height - 8
	if vpHeight < 4 {
		vpHeight = 4
	}

	vp := viewport.New(width-4, vpHeight)
	vp.Style = lipgloss.NewStyle()

	return Model{
		assistant: assistant,
		input:     ta,
		viewport:  vp,
		messages:  make([]displayMessage, 0),
		keys:      k,
		width:     width,
		height:    height,
		noAPIKey:  assistant == nil,
	}
}

// Init returns the initial command for the chat panel.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the chat panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ChatResponseMsg:
		m.waiting = false
		if msg.Err != nil {
			m.messages = append(m.messages, displayMessage{
				Role:    "Angel",
				Content: fmt.Sprintf("Error: %v", msg.Err),
			})
		} else {
			m.messages = append(m.messages, displayMessage{
				Role:    msg.Expert.DisplayName(),
				Content: msg.Text,
			})
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmds []tea.Cmd

	var taCmd tea.Cmd
	m.input, taCmd = m.input.Update(msg)
	if taCmd != nil {
		cmds = append(cmds, taCmd)
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input for the chat panel.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.waiting {
			return m, nil
		}
		return m, func() tea.Msg { return ChatCloseMsg{} }

	case "enter":
		if m.noAPIKey || m.waiting {
			return m, nil
		}

		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}

		m.input.Reset()
		m.messages = append(m.messages, displayMessage{
			Role:    "You",
			Content: text,
		})
		m.waiting = true
		m.refreshViewport()

		return m, m.sendMessage(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sendMessage returns a command that asks the assistant and reports the
// full reply.
func (m Model) sendMessage(text string) tea.Cmd {
	assistant := m.assistant
	return func() tea.Msg {
		answer, err := assistant.Ask(context.Background(), text)
		if err != nil {
			return ChatResponseMsg{Err: err}
		}
		return ChatResponseMsg{Text: answer.Text, Expert: answer.Expert}
	}
}

// refreshViewport re-renders the conversation content and scrolls to bottom.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

// renderConversation builds the conversation display string.
func (m Model) renderConversation() string {
	if len(m.messages) == 0 && !m.noAPIKey {
		return lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("Ask about how you felt, what you tried, or what " +
				"helped before. Answers come from your own journal.")
	}

	var sections []string

	roleStyle := lipgloss.NewStyle().Bold(true)
	userStyle := roleStyle.Foreground(theme.ColorBlue)
	angelStyle := roleStyle.Foreground(theme.ColorGreen)
	contentStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	for _, msg := range m.messages {
		var label string
		if msg.Role == "You" {
			label = userStyle.Render("You:")
		} else {
			label = angelStyle.Render(msg.Role + ":")
		}

		sections = append(sections, label)
		sections = append(sections, contentStyle.Render(msg.Content))
		sections = append(sections, "")
	}

	if m.waiting {
		thinkingStyle := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true)
		sections = append(sections, thinkingStyle.Render("..."))
	}

	return strings.Join(sections, "\n")
}

// View renders the chat panel.
func (m Model) View() string {
	if m.noAPIKey {
		return m.renderNoAPIKey()
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Ask Angel")

	sepWidth := m.width - 6
	if sepWidth > 80 {
		sepWidth = 80
	}
	if sepWidth < 0 {
		sepWidth = 0
	}
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", sepWidth))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.viewport.View(),
		separator,
		m.input.View(),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// renderNoAPIKey shows a message when the API key is not configured.
func (m Model) renderNoAPIKey() string {
	style := lipgloss.NewStyle().
		Width(m.width - 4).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	msg := "The assistant requires a Gemini API key.\n\n" +
		"Store it in the system keyring under the name:\n" +
		"  gemini-api-key\n\n" +
		"Or set the GEMINI_API_KEY environment variable.\n\n" +
		"Press Esc to go back."

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(style.Render(msg))
}

// SetSize updates the chat panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(width - 4)

	vpHeight := height - 8
	if vpHeight < 4 {
		vpHeight = 4
	}
	m.viewport.Width = width - 4
	m.viewport.Height = vpHeight
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Reset clears the conversation and resets the assistant context.
func (m *Model) Reset() {
	m.messages = m.messages[:0]
	m.waiting = false
	m.input.Reset()
	m.refreshViewport()
	if m.assistant != nil {
		m.assistant.Reset()
	}
}
