package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shrish842/Angel-My-MindAi/internal/retrieval"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
	"github.com/shrish842/Angel-My-MindAi/internal/timeutil"
)

// QuietLogger returns a logger that discards everything, keeping test
// output readable.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTaskStore creates a FileTaskStore backed by a temp file that is
// removed when the test completes.
func NewTaskStore(t *testing.T, clock timeutil.Clock) *store.FileTaskStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks_data.jsonl")
	return store.NewFileTaskStore(path, clock, QuietLogger())
}

// NewJournalStore creates a JournalStore backed by a temp file that is
// removed when the test completes.
func NewJournalStore(t *testing.T, clock timeutil.Clock) *store.JournalStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "journal_data.jsonl")
	return store.NewJournalStore(path, clock, QuietLogger())
}

// NewIndex creates an in-memory retrieval index with the schema applied.
// It is closed automatically when the test completes.
func NewIndex(t *testing.T) *retrieval.Index {
	t.Helper()

	idx, err := retrieval.NewIndex(":memory:", QuietLogger())
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

// NewFakeClock returns a FakeClock pinned to the given RFC 3339 instant.
func NewFakeClock(t *testing.T, instant string) *timeutil.FakeClock {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, instant)
	if err != nil {
		t.Fatalf("parsing clock instant %q: %v", instant, err)
	}
	return timeutil.NewFakeClock(ts)
}
