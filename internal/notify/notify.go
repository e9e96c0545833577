package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/timeutil"
)

// Notifier delivers a notification event to the user. Implementations
// must be safe for use from the scheduler's background goroutine.
type Notifier interface {
	Notify(ctx context.Context, event model.NotificationEvent) error
}

// Message renders the standard human-readable notification line for an
// event, shared by all delivery channels.
func Message(event model.NotificationEvent) string {
	switch event.Reason {
	case model.ReasonDue:
		if event.DueAt != nil {
			return fmt.Sprintf("🔔 REMINDER (DUE): %q is due now (%s).",
				event.Title, timeutil.FormatUTC(*event.DueAt))
		}
		return fmt.Sprintf("🔔 REMINDER (DUE): %q is due now.", event.Title)
	case model.ReasonReminder:
		due := "n/a"
		if event.DueAt != nil {
			due = timeutil.FormatUTC(*event.DueAt)
		}
		if event.ReminderAt != nil {
			return fmt.Sprintf("🔔 REMINDER: %q (reminder for %s, due %s).",
				event.Title, timeutil.FormatUTC(*event.ReminderAt), due)
		}
		return fmt.Sprintf("🔔 REMINDER: %q (due %s).", event.Title, due)
	default:
		return fmt.Sprintf("🔔 %q needs attention.", event.Title)
	}
}

// ConsoleNotifier prints notifications to a writer, one line per event.
type ConsoleNotifier struct {
	clock timeutil.Clock

	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier creates a console notifier. A nil writer defaults
// to stdout.
func NewConsoleNotifier(out io.Writer, clock timeutil.Clock) *ConsoleNotifier {
	if out == nil {
		out = os.Stdout
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &ConsoleNotifier{out: out, clock: clock}
}

// Notify writes the notification line prefixed with the current time.
func (n *ConsoleNotifier) Notify(_ context.Context, event model.NotificationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, err := fmt.Fprintf(n.out, "%s - %s\n",
		n.clock.Now().Format("2006-01-02 15:04:05 UTC"), Message(event))
	if err != nil {
		return fmt.Errorf("writing console notification: %w", err)
	}
	return nil
}

// FuncNotifier adapts a function to the Notifier interface. The TUI uses
// this to surface events as Bubble Tea messages.
type FuncNotifier func(ctx context.Context, event model.NotificationEvent) error

func (f FuncNotifier) Notify(ctx context.Context, event model.NotificationEvent) error {
	return f(ctx, event)
}
