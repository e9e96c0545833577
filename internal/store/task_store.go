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
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/timeutil"
)

// FileTaskStore implements TaskStore on a newline-delimited JSON file,
// one task per line. The file is read in full before every operation and
// rewritten in full after every mutation; task counts are small, so
// simplicity wins over throughput. All access is serialized behind a
// mutex so a background tick and a foreground edit cannot interleave
// their read-then-rewrite cycles.
type FileTaskStore struct {
	path   string
	clock  timeutil.Clock
	logger *slog.Logger

	mu sync.Mutex
}

// NewFileTaskStore creates a task store backed by the JSONL file at path.
// The file is created lazily on first write.
func NewFileTaskStore(path string, clock timeutil.Clock, logger *slog.Logger) *FileTaskStore {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileTaskStore{path: path, clock: clock, logger: logger}
}

// Add validates params, derives reminder times, and appends the new task
// to the durable set. It fails only on validation errors; an unparsable
// due timestamp is logged and the task is created without a deadline.
func (s *FileTaskStore) Add(ctx context.Context, params AddTaskParams) (*model.Task, error) {
	if params.Title == "" {
		return nil, invalidf("title", "must not be empty")
	}

	priority := params.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, invalidf("priority", "%q is not one of high, medium, low", priority)
	}

	dueAt, err := timeutil.Normalize(params.DueAtRaw)
	if err != nil {
		s.logger.Warn("ignoring unparsable due time", "raw", params.DueAtRaw, "error", err)
	}

	var reminders []time.Time
	if dueAt != nil {
		for _, offset := range params.ReminderOffsetMinutes {
			if offset <= 0 {
				continue
			}
			reminders = append(reminders, dueAt.Add(-time.Duration(offset)*time.Minute))
		}
		sort.Slice(reminders, func(i, j int) bool { return reminders[i].Before(reminders[j]) })
	}

	task := model.Task{
		ID:            uuid.New().String(),
		Title:         params.Title,
		Description:   params.Description,
		CreatedAt:     s.clock.Now(),
		DueAt:         dueAt,
		ReminderTimes: reminders,
		Status:        model.StatusPending,
		Priority:      priority,
		Tags:          params.Tags,
	}
	if task.ReminderTimes == nil {
		task.ReminderTimes = []time.Time{}
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, task)
	if err := s.save(tasks); err != nil {
		return nil, err
	}

	s.logger.Info("task added", "task_id", task.ID, "title", task.Title)
	return &task, nil
}

// Get retrieves a task by ID, returning ErrNotFound if it does not exist.
func (s *FileTaskStore) Get(ctx context.Context, id string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, fmt.Errorf("getting task %s: %w", id, ErrNotFound)
}

// Update replaces the provided fields on the task with the given ID.
// Raw timestamp values are re-normalized; unparsable ones clear the
// field, matching the treat-as-absent rule for malformed timestamps.
func (s *FileTaskStore) Update(ctx context.Context, id string, updates TaskUpdates) error {
	if updates.Status != nil && !model.ValidStatus(*updates.Status) {
		return invalidf("status", "%q is not a recognized status", *updates.Status)
	}
	if updates.Priority != nil && !model.ValidPriority(*updates.Priority) {
		return invalidf("priority", "%q is not one of high, medium, low", *updates.Priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return err
	}

	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("updating task %s: %w", id, ErrNotFound)
	}

	t := &tasks[idx]
	if updates.Title != nil {
		if *updates.Title == "" {
			return invalidf("title", "must not be empty")
		}
		t.Title = *updates.Title
	}
	if updates.Description != nil {
		t.Description = *updates.Description
	}
	if updates.DueAtRaw != nil {
		dueAt, err := timeutil.Normalize(*updates.DueAtRaw)
		if err != nil {
			s.logger.Warn("ignoring unparsable due time on update",
				"task_id", id, "raw", *updates.DueAtRaw, "error", err)
		}
		t.DueAt = dueAt
	}
	if updates.ReminderRaw != nil {
		reminders := make([]time.Time, 0, len(*updates.ReminderRaw))
		for _, raw := range *updates.ReminderRaw {
			r, err := timeutil.Normalize(raw)
			if err != nil {
				s.logger.Warn("skipping unparsable reminder time",
					"task_id", id, "raw", raw, "error", err)
				continue
			}
			if r != nil {
				reminders = append(reminders, *r)
			}
		}
		t.ReminderTimes = reminders
	}
	if updates.Status != nil {
		t.Status = *updates.Status
	}
	if updates.Priority != nil {
		t.Priority = *updates.Priority
	}
	if updates.Tags != nil {
		t.Tags = *updates.Tags
	}
	if updates.LastRemindedAt != nil {
		u := updates.LastRemindedAt.UTC()
		t.LastRemindedAt = &u
	}

	if err := s.save(tasks); err != nil {
		return err
	}

	s.logger.Info("task updated", "task_id", id)
	return nil
}

// Delete removes the task with the given ID from the persisted set.
func (s *FileTaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return err
	}

	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return fmt.Errorf("deleting task %s: %w", id, ErrNotFound)
	}

	if err := s.save(kept); err != nil {
		return err
	}

	s.logger.Info("task deleted", "task_id", id)
	return nil
}

// ListActive returns all tasks with pending or in_progress status.
func (s *FileTaskStore) ListActive(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	active := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsActive() {
			active = append(active, t)
		}
	}
	return active, nil
}

// ListAll returns every stored task.
func (s *FileTaskStore) ListAll(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads the full task set from disk. A missing file is an empty
// store; a malformed line is skipped with a warning so one bad record
// cannot take the whole store down.
func (s *FileTaskStore) load() ([]model.Task, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening task store %s: %w", s.path, err)
	}
	defer f.Close()

	var tasks []model.Task
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var t model.Task
		if err := json.Unmarshal(line, &t); err != nil {
			s.logger.Warn("skipping malformed task record",
				"file", s.path, "line", lineNo, "error", err)
			continue
		}
		tasks = append(tasks, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading task store %s: %w", s.path, err)
	}

	return tasks, nil
}

// save rewrites the full task set. It writes to a temp file in the same
// directory and renames it over the store so a crash mid-write cannot
// truncate existing data.
func (s *FileTaskStore) save(tasks []model.Task) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tasks-*.jsonl")
	if err != nil {
		return fmt.Errorf("creating temp task file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, t := range tasks {
		line, err := json.Marshal(t)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("encoding task %s: %w", t.ID, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			tmp.Close()
			return fmt.Errorf("writing task store: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing task store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp task file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing task store %s: %w", s.path, err)
	}
	return nil
}
