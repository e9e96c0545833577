package ai

import (
	"strings"
	"testing"
)

func TestBuildPromptIncludesContextAndQuery(t *testing.T) {
	prompt := buildPrompt(
		"Why do I keep procrastinating?",
		"Log about procrastinating before deadlines.",
		ExpertProblemSolving,
	)

	if !strings.Contains(prompt, "--- PERSONAL CONTEXT START ---") {
		t.Error("prompt missing personal context delimiter")
	}
	if !strings.Contains(prompt, "Log about procrastinating before deadlines.") {
		t.Error("prompt missing the retrieved context")
	}
	if !strings.Contains(prompt, `"Why do I keep procrastinating?"`) {
		t.Error("prompt missing the user query")
	}
	if !strings.Contains(prompt, "Problem-Solving Strategist") {
		t.Error("prompt missing the expert instructions")
	}
	if !strings.Contains(prompt, "Problem Solving Expert") {
		t.Error("prompt missing the expert sign-off")
	}
}

func TestBuildPromptUnknownExpertFallsBackToGeneral(t *testing.T) {
	prompt := buildPrompt("hello", "(no matching log entries found)", Expert("mystery"))
	if !strings.Contains(prompt, expertInstructions[ExpertGeneral]) {
		t.Error("unknown expert did not fall back to the general instructions")
	}
}

func TestConversationContextTrimsKeepingFirstMessage(t *testing.T) {
	c := NewConversationContext()

	c.AddMessage(RoleUser, "first")
	for i := 0; i < 30; i++ {
		c.AddMessage(RoleAssistant, "reply")
	}

	msgs := c.GetMessages()
	if len(msgs) != 20 {
		t.Fatalf("got %d messages, want 20", len(msgs))
	}
	if msgs[0].Content != "first" {
		t.Errorf("first message = %q, want the opening turn kept", msgs[0].Content)
	}

	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", c.Len())
	}
}
