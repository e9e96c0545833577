package ai

import "sync"

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "model"
)

// Message is a single turn in the conversation history.
type Message struct {
	Role    Role
	Content string
}

// ConversationContext keeps a bounded, ordered history of chat turns.
// The oldest turns are trimmed once the limit is reached, keeping the
// first message as standing context.
type ConversationContext struct {
	mu          sync.Mutex
	messages    []Message
	maxMessages int
}

// NewConversationContext creates a context holding up to 20 messages.
func NewConversationContext() *ConversationContext {
	return &ConversationContext{
		messages:    make([]Message, 0, 20),
		maxMessages: 20,
	}
}

// AddMessage appends a turn, trimming the oldest middle turns when the
// history exceeds the limit.
func (c *ConversationContext) AddMessage(role Role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, Message{Role: role, Content: content})

	if len(c.messages) > c.maxMessages {
		trimmed := make([]Message, 0, c.maxMessages)
		trimmed = append(trimmed, c.messages[0])
		excess := len(c.messages) - c.maxMessages
		trimmed = append(trimmed, c.messages[1+excess:]...)
		c.messages = trimmed
	}
}

// GetMessages returns a copy of the current conversation history.
func (c *ConversationContext) GetMessages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]Message, len(c.messages))
	copy(result, c.messages)
	return result
}

// Reset clears the conversation history.
func (c *ConversationContext) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = c.messages[:0]
}

// Len returns the number of stored messages.
func (c *ConversationContext) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.messages)
}
