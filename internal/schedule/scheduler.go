package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/notify"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
	"github.com/shrish842/Angel-My-MindAi/internal/timeutil"
)

// tickTimeout bounds a single tick's work.
const tickTimeout = 30 * time.Second

// Scheduler runs the periodic due/reminder check in the background,
// fully decoupled from the interactive foreground. It has two states,
// stopped and running; Start and Stop are both idempotent. A failure
// inside one tick is logged and the next scheduled tick proceeds.
type Scheduler struct {
	store     store.TaskStore
	evaluator *Evaluator
	notifier  notify.Notifier
	clock     timeutil.Clock
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewScheduler creates a scheduler in the stopped state.
func NewScheduler(
	s store.TaskStore,
	n notify.Notifier,
	clock timeutil.Clock,
	logger *slog.Logger,
) *Scheduler {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:     s,
		evaluator: NewEvaluator(s),
		notifier:  n,
		clock:     clock,
		logger:    logger,
	}
}

// Start begins periodic ticks at the given interval. Calling Start while
// already running is a logged no-op.
func (s *Scheduler) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Info("scheduler already running")
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	s.running = true
	s.stopCh = make(chan struct{})

	go s.run(interval, s.stopCh)
	s.logger.Info("scheduler started", "interval", interval)
}

// Stop halts future ticks. It does not cancel a tick already in
// progress. Calling Stop while stopped is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopCh)
	s.running = false
	s.logger.Info("scheduler stopped")
}

// Running reports whether the scheduler is in the running state.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run is the background loop. It owns no state beyond its stop channel,
// so a stopped scheduler can be started again with a fresh loop.
func (s *Scheduler) run(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if err := s.Tick(context.Background()); err != nil {
				s.logger.Error("reminder check failed", "error", err)
			}
		}
	}
}

// Tick runs one due/reminder check: evaluate, notify, then record the
// last_reminded_at mark for reminder events so the same slot does not
// refire. Due events are not marked and recur until the task's status
// changes.
func (s *Scheduler) Tick(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, tickTimeout)
	defer cancel()

	now := s.clock.Now()
	events, err := s.evaluator.Evaluate(ctx, now)
	if err != nil {
		return fmt.Errorf("evaluating tasks: %w", err)
	}

	for _, event := range events {
		if err := s.notifier.Notify(ctx, event); err != nil {
			s.logger.Error("notification failed",
				"task_id", event.TaskID, "reason", event.Reason, "error", err)
			continue
		}

		if event.Reason != model.ReasonReminder {
			continue
		}
		err := s.store.Update(ctx, event.TaskID, store.TaskUpdates{
			LastRemindedAt: &now,
		})
		if err != nil {
			s.logger.Error("recording reminder mark failed",
				"task_id", event.TaskID, "error", err)
		}
	}

	return nil
}
