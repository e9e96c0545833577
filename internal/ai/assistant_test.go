package ai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
)

// recordingTransport captures request bodies and answers every call with
// a fixed successful generation.
type recordingTransport struct {
	bodies [][]byte
	reply  string
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	rt.bodies = append(rt.bodies, body)

	respJSON := `{"candidates":[{"content":{"role":"model","parts":[{"text":"` +
		rt.reply + `"}]},"finishReason":"STOP"}]}`
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(respJSON)),
	}, nil
}

func newTestAssistant(rt *recordingTransport) *Assistant {
	a := New("test-key", nil, nil, model.AIConfig{},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.client = &http.Client{Transport: rt}
	return a
}

func decodeRequest(t *testing.T, body []byte) apiRequest {
	t.Helper()

	var req apiRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("decoding request body: %v", err)
	}
	return req
}

func TestAskCarriesConversationHistory(t *testing.T) {
	rt := &recordingTransport{reply: "a grounded reply"}
	a := newTestAssistant(rt)
	ctx := context.Background()

	if _, err := a.Ask(ctx, "what did I write about exams"); err != nil {
		t.Fatalf("first Ask: %v", err)
	}
	if _, err := a.Ask(ctx, "and what should I do next"); err != nil {
		t.Fatalf("second Ask: %v", err)
	}

	if len(rt.bodies) != 2 {
		t.Fatalf("got %d requests, want 2", len(rt.bodies))
	}

	first := decodeRequest(t, rt.bodies[0])
	if len(first.Contents) != 1 {
		t.Fatalf("first request carries %d contents, want 1", len(first.Contents))
	}

	second := decodeRequest(t, rt.bodies[1])
	if len(second.Contents) != 3 {
		t.Fatalf("second request carries %d contents, want prior turns plus the prompt", len(second.Contents))
	}
	if second.Contents[0].Role != "user" || second.Contents[0].Parts[0].Text != "what did I write about exams" {
		t.Errorf("Contents[0] = %+v, want the first raw query", second.Contents[0])
	}
	if second.Contents[1].Role != "model" || second.Contents[1].Parts[0].Text != "a grounded reply" {
		t.Errorf("Contents[1] = %+v, want the first reply", second.Contents[1])
	}
	if second.Contents[2].Role != "user" ||
		!strings.Contains(second.Contents[2].Parts[0].Text, "and what should I do next") {
		t.Errorf("Contents[2] = %+v, want the current prompt", second.Contents[2])
	}
}

func TestResetDropsHistoryFromRequests(t *testing.T) {
	rt := &recordingTransport{reply: "ok"}
	a := newTestAssistant(rt)
	ctx := context.Background()

	if _, err := a.Ask(ctx, "first question"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	a.Reset()
	if _, err := a.Ask(ctx, "a fresh start"); err != nil {
		t.Fatalf("Ask after reset: %v", err)
	}

	second := decodeRequest(t, rt.bodies[1])
	if len(second.Contents) != 1 {
		t.Fatalf("request after Reset carries %d contents, want 1", len(second.Contents))
	}
	if strings.Contains(second.Contents[0].Parts[0].Text, "first question") {
		t.Errorf("reset conversation still references the earlier turn: %q", second.Contents[0].Parts[0].Text)
	}
}
