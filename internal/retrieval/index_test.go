package retrieval

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewIndex(":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("creating test index: %v", err)
	}
	t.Cleanup(func() {
		if err := idx.Close(); err != nil {
			t.Errorf("closing test index: %v", err)
		}
	})
	return idx
}

func testEntry(id, entryType, summary, emotion string, ts time.Time) model.JournalEntry {
	return model.JournalEntry{
		ID:             id,
		Timestamp:      ts,
		Type:           entryType,
		Summary:        summary,
		PrimaryEmotion: emotion,
		Thoughts:       []string{"I kept turning it over in my head"},
		Learnings:      []string{"Sleep on it before reacting"},
	}
}

func TestExtractChunks(t *testing.T) {
	entry := testEntry("e1", model.EntryEmotionLog,
		"Failed the physics exam", "disappointed", time.Now())

	chunks := extractChunks(entry)
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}
	if !strings.Contains(chunks[0], "Failed the physics exam") {
		t.Errorf("summary chunk missing the summary: %q", chunks[0])
	}
	if !strings.Contains(chunks[1], "disappointed") {
		t.Errorf("emotion chunk missing the emotion: %q", chunks[1])
	}
	if !strings.HasPrefix(chunks[2], "My thoughts were:") {
		t.Errorf("thoughts chunk = %q", chunks[2])
	}
	if !strings.HasPrefix(chunks[3], "Key learnings included:") {
		t.Errorf("learnings chunk = %q", chunks[3])
	}
}

func TestExtractChunksDropsShortFragments(t *testing.T) {
	entry := model.JournalEntry{
		ID:       "e1",
		Type:     model.EntryGeneralNote,
		Thoughts: []string{"so tired"},
	}

	// "My thoughts were: so tired" is five words and kept; an empty
	// entry yields nothing.
	chunks := extractChunks(entry)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}

	if got := extractChunks(model.JournalEntry{}); len(got) != 0 {
		t.Errorf("empty entry produced %d chunks, want 0", len(got))
	}
}

func TestIndexAndSearch(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	entries := []model.JournalEntry{
		testEntry("e1", model.EntryAcademicSetback, "Failed the physics exam", "disappointed", base),
		testEntry("e2", model.EntrySocialEvent, "Waterpark trip with flatmates", "joyful", base.Add(time.Hour)),
	}
	for _, e := range entries {
		if err := idx.IndexEntry(ctx, e); err != nil {
			t.Fatalf("IndexEntry %s: %v", e.ID, err)
		}
	}

	results, err := idx.Search(ctx, "physics exam", Filter{}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results for a query matching an indexed chunk")
	}
	found := false
	for _, r := range results {
		if strings.Contains(r, "physics exam") {
			found = true
		}
	}
	if !found {
		t.Errorf("results %v do not mention the physics exam", results)
	}
}

func TestSearchFilterByEntryType(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := idx.IndexEntry(ctx, testEntry("e1", model.EntryAcademicSetback,
		"Failed the physics exam", "disappointed", base)); err != nil {
		t.Fatalf("IndexEntry: %v", err)
	}
	if err := idx.IndexEntry(ctx, testEntry("e2", model.EntrySocialEvent,
		"Exam celebration trip", "joyful", base.Add(time.Hour))); err != nil {
		t.Fatalf("IndexEntry: %v", err)
	}

	entryType := model.EntryAcademicSetback
	results, err := idx.Search(ctx, "exam", Filter{EntryType: &entryType}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if strings.Contains(r, "celebration") {
			t.Errorf("filter leaked a social_event_travel chunk: %q", r)
		}
	}
	if len(results) == 0 {
		t.Error("filtered search returned nothing for matching entry type")
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"e1", "e2", "e3"} {
		e := testEntry(id, model.EntryGeneralNote, "Daily reflection about work", "", base.Add(time.Duration(i)*time.Hour))
		if err := idx.IndexEntry(ctx, e); err != nil {
			t.Fatalf("IndexEntry %s: %v", id, err)
		}
	}

	results, err := idx.Search(ctx, "reflection", Filter{}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) > 2 {
		t.Errorf("got %d results, want at most 2", len(results))
	}
}

func TestReindexReplacesExistingChunks(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	stale := testEntry("old", model.EntryGeneralNote, "Stale content to discard", "", base)
	if err := idx.IndexEntry(ctx, stale); err != nil {
		t.Fatalf("IndexEntry: %v", err)
	}

	fresh := testEntry("new", model.EntryGeneralNote, "Fresh content to keep", "", base)
	if err := idx.Reindex(ctx, []model.JournalEntry{fresh}); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	results, err := idx.Search(ctx, "stale", Filter{}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("stale chunks survived reindex: %v", results)
	}

	count, err := idx.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count == 0 {
		t.Error("reindex left the index empty")
	}
}
