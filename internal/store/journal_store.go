package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/timeutil"
)

// JournalStore is the append-only personal log: one JSON entry per line.
// Unlike the task store, records are never rewritten once appended.
type JournalStore struct {
	path   string
	clock  timeutil.Clock
	logger *slog.Logger

	mu sync.Mutex
}

// NewJournalStore creates a journal store backed by the JSONL file at path.
func NewJournalStore(path string, clock timeutil.Clock, logger *slog.Logger) *JournalStore {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalStore{path: path, clock: clock, logger: logger}
}

// Append assigns an ID and timestamp to the entry, canonicalizes its
// labels to lowercase, and appends it to the log. The summary is the one
// required field.
func (s *JournalStore) Append(ctx context.Context, entry model.JournalEntry) (*model.JournalEntry, error) {
	if strings.TrimSpace(entry.Summary) == "" {
		return nil, invalidf("summary", "must not be empty")
	}

	entry.ID = uuid.New().String()
	entry.Timestamp = s.clock.Now()
	entry.Type = strings.ToLower(strings.TrimSpace(entry.Type))
	if entry.Type == "" {
		entry.Type = model.EntryGeneralNote
	}
	entry.PrimaryEmotion = strings.ToLower(strings.TrimSpace(entry.PrimaryEmotion))
	for i, tag := range entry.Tags {
		entry.Tags[i] = strings.ToLower(strings.TrimSpace(tag))
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encoding journal entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("appending journal entry: %w", err)
	}

	s.logger.Info("journal entry added", "entry_id", entry.ID, "entry_type", entry.Type)
	return &entry, nil
}

// Load reads every entry from the log. Loading is best-effort: a missing
// file is an empty log and malformed lines are skipped with a warning.
func (s *JournalStore) Load(ctx context.Context) ([]model.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening journal %s: %w", s.path, err)
	}
	defer f.Close()

	var entries []model.JournalEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e model.JournalEntry
		if err := json.Unmarshal(line, &e); err != nil {
			s.logger.Warn("skipping malformed journal entry",
				"file", s.path, "line", lineNo, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", s.path, err)
	}

	return entries, nil
}
