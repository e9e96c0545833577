package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/retrieval"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
)

const (
	defaultModel     = "gemini-1.5-flash-latest"
	defaultMaxTokens = 2048
	defaultChunks    = 5
	apiURLFormat     = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
)

// Retriever is the content-retrieval collaborator: it returns text
// passages from past journal entries relevant to a query.
type Retriever interface {
	Search(ctx context.Context, query string, filter retrieval.Filter, k int) ([]string, error)
}

// Answer is the assistant's reply to a query, tagged with the expert
// that produced it.
type Answer struct {
	Text   string
	Expert Expert
}

// Assistant answers reflective queries grounded in the user's own
// journal, combining keyword expert routing, retrieval over past logs,
// and a generative language model.
type Assistant struct {
	apiKey        string
	retriever     Retriever
	journal       *store.JournalStore
	context       *ConversationContext
	model         string
	maxTokens     int
	contextChunks int
	client        *http.Client
	logger        *slog.Logger
}

// New creates an assistant with the given configuration. The retriever
// may be nil, in which case recent journal entries are the only context
// source.
func New(
	apiKey string,
	retriever Retriever,
	journal *store.JournalStore,
	cfg model.AIConfig,
	logger *slog.Logger,
) *Assistant {
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	chunks := cfg.ContextChunks
	if chunks <= 0 {
		chunks = defaultChunks
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Assistant{
		apiKey:        apiKey,
		retriever:     retriever,
		journal:       journal,
		context:       NewConversationContext(),
		model:         modelName,
		maxTokens:     maxTokens,
		contextChunks: chunks,
		client:        &http.Client{},
		logger:        logger,
	}
}

// Reset clears the conversation history.
func (a *Assistant) Reset() {
	a.context.Reset()
}

// Ask routes the query to an expert, gathers personal context, and asks
// the language model for a grounded reply.
func (a *Assistant) Ask(ctx context.Context, query string) (*Answer, error) {
	expert := RouteExpert(query)

	personalContext, err := a.gatherContext(ctx, query, expert)
	if err != nil {
		a.logger.Warn("context retrieval failed, answering without it", "error", err)
		personalContext = ""
	}
	if personalContext == "" {
		personalContext = "(no matching log entries found)"
	}

	prompt := buildPrompt(query, personalContext, expert)

	// Prior turns travel with the request so follow-up questions resolve
	// against the running conversation, not just the latest prompt.
	text, err := a.generate(ctx, buildContents(a.context.GetMessages(), prompt))
	if err != nil {
		return nil, err
	}

	a.context.AddMessage(RoleUser, query)
	a.context.AddMessage(RoleAssistant, text)

	return &Answer{Text: text, Expert: expert}, nil
}

// gatherContext collects the personal-context passages for a query:
// retrieval chunks under the expert's filter, falling back first to an
// unfiltered search and then to the most recent journal summaries.
func (a *Assistant) gatherContext(ctx context.Context, query string, expert Expert) (string, error) {
	if a.retriever != nil {
		chunks, err := a.retriever.Search(ctx, query, retrievalFilter(expert), a.contextChunks)
		if err != nil {
			return "", fmt.Errorf("searching logs: %w", err)
		}
		if len(chunks) == 0 {
			chunks, err = a.retriever.Search(ctx, query, retrieval.Filter{}, a.contextChunks)
			if err != nil {
				return "", fmt.Errorf("searching logs unfiltered: %w", err)
			}
		}
		if len(chunks) > 0 {
			return strings.Join(chunks, "\n\n---\n\n"), nil
		}
	}

	if a.journal == nil {
		return "", nil
	}

	// Fallback: most recent entries, newest last so the model reads
	// them in chronological order.
	entries, err := a.journal.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("loading journal for fallback context: %w", err)
	}
	if len(entries) == 0 {
		return "", nil
	}
	start := len(entries) - a.contextChunks
	if start < 0 {
		start = 0
	}
	var lines []string
	for _, e := range entries[start:] {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s",
			e.Timestamp.Format("2006-01-02"), e.Type, e.Summary))
	}
	return strings.Join(lines, "\n"), nil
}

// buildContents lays the stored turns out ahead of the current prompt.
// History holds raw queries and replies; only the newest turn carries
// the persona instructions and retrieved context.
func buildContents(history []Message, prompt string) []apiContent {
	contents := make([]apiContent, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, apiContent{
			Role:  string(m.Role),
			Parts: []apiPart{{Text: m.Content}},
		})
	}
	return append(contents, apiContent{
		Role:  string(RoleUser),
		Parts: []apiPart{{Text: prompt}},
	})
}

// generate sends the conversation to the generateContent endpoint and
// returns the model's text.
func (a *Assistant) generate(ctx context.Context, contents []apiContent) (string, error) {
	reqBody := apiRequest{
		Contents:         contents,
		GenerationConfig: &apiGenerationConfig{MaxOutputTokens: a.maxTokens},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf(apiURLFormat, a.model)
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return extractText(&result)
}

// extractText pulls the usable text out of a generateContent response,
// translating blocked or truncated generations into caller-visible errors.
func extractText(resp *apiResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("response contained no candidates")
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case "", "STOP", "MAX_TOKENS":
		var parts []string
		for _, p := range candidate.Content.Parts {
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
		if len(parts) == 0 {
			return "", fmt.Errorf("candidate contained no text parts")
		}
		return strings.Join(parts, ""), nil
	case "SAFETY":
		return "", fmt.Errorf("response blocked by safety filters")
	default:
		return "", fmt.Errorf("generation stopped: %s", candidate.FinishReason)
	}
}

// --- Gemini API types ---

type apiRequest struct {
	Contents         []apiContent         `json:"contents"`
	GenerationConfig *apiGenerationConfig `json:"generationConfig,omitempty"`
}

type apiContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text string `json:"text,omitempty"`
}

type apiGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type apiResponse struct {
	Candidates     []apiCandidate     `json:"candidates"`
	PromptFeedback *apiPromptFeedback `json:"promptFeedback,omitempty"`
}

type apiCandidate struct {
	Content      apiContent `json:"content"`
	FinishReason string     `json:"finishReason"`
}

type apiPromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
