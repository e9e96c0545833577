package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shrish842/Angel-My-MindAi/internal/ai"
	"github.com/shrish842/Angel-My-MindAi/internal/app"
	"github.com/shrish842/Angel-My-MindAi/internal/credential"
	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/notify"
	"github.com/shrish842/Angel-My-MindAi/internal/retrieval"
	"github.com/shrish842/Angel-My-MindAi/internal/schedule"
	"github.com/shrish842/Angel-My-MindAi/internal/store"
	"github.com/shrish842/Angel-My-MindAi/internal/timeutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the YAML config file")
	headless := flag.Bool("headless", false, "run the reminder scheduler without the TUI")
	interval := flag.Int("interval", 0, "override the reminder check interval in seconds")
	reindex := flag.Bool("reindex", false, "rebuild the retrieval index from the journal and exit")
	setKey := flag.String("set-key", "", "store a credential (gemini or imap) read from stdin, then exit")
	deleteKey := flag.String("delete-key", "", "remove a stored credential (gemini or imap), then exit")
	flag.Parse()

	if *setKey != "" {
		return runSetKey(*setKey)
	}
	if *deleteKey != "" {
		return runDeleteKey(*deleteKey)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *interval > 0 {
		cfg.Scheduler.IntervalSec = *interval
	}

	logger, closeLog, err := newLogger(cfg, *headless || *reindex)
	if err != nil {
		return err
	}
	defer closeLog()

	clock := timeutil.RealClock{}
	taskStore := store.NewFileTaskStore(cfg.Data.TasksFile, clock, logger)
	journal := store.NewJournalStore(cfg.Data.JournalFile, clock, logger)

	index, err := retrieval.NewIndex(cfg.Data.IndexFile, logger)
	if err != nil {
		logger.Warn("retrieval index unavailable", "error", err)
		index = nil
	} else {
		defer index.Close()
	}

	if *reindex {
		return runReindex(journal, index)
	}

	assistant := loadAssistant(index, journal, cfg, logger)
	notifier, err := buildNotifier(cfg, clock, logger)
	if err != nil {
		return err
	}

	if *headless {
		return runHeadless(taskStore, notifier, cfg, clock, logger)
	}

	return runTUI(taskStore, journal, index, assistant, notifier, cfg, clock, logger)
}

// credentialKey maps the CLI credential names to keyring keys.
func credentialKey(name string) (string, error) {
	switch name {
	case "gemini":
		return credential.KeyGeminiAPI, nil
	case "imap":
		return credential.KeyIMAPPassword, nil
	default:
		return "", fmt.Errorf("unknown credential %q, want gemini or imap", name)
	}
}

// runSetKey reads a secret from stdin and stores it in the keyring.
func runSetKey(name string) error {
	key, err := credentialKey(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "paste the %s secret and press enter: ", name)
	reader := bufio.NewReader(os.Stdin)
	secret, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading secret: %w", err)
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return fmt.Errorf("no secret provided")
	}

	if err := credential.Set(key, secret); err != nil {
		return err
	}
	fmt.Printf("stored %s credential\n", name)
	return nil
}

// runDeleteKey removes a stored credential from the keyring.
func runDeleteKey(name string) error {
	key, err := credentialKey(name)
	if err != nil {
		return err
	}
	if err := credential.Delete(key); err != nil {
		return err
	}
	fmt.Printf("removed %s credential\n", name)
	return nil
}

// newLogger builds the application logger. Interactive runs log to a
// file next to the data stores so log lines do not corrupt the TUI.
func newLogger(cfg *model.AppConfig, toStderr bool) (*slog.Logger, func(), error) {
	if toStderr {
		return slog.New(slog.NewTextHandler(os.Stderr, nil)), func() {}, nil
	}

	logPath := filepath.Join(filepath.Dir(cfg.Data.TasksFile), "angel.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", logPath, err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { f.Close() }, nil
}

// loadAssistant wires up the Gemini assistant if an API key is
// available, from the environment first and the keyring second.
func loadAssistant(
	index *retrieval.Index,
	journal *store.JournalStore,
	cfg *model.AppConfig,
	logger *slog.Logger,
) *ai.Assistant {
	apiKey, err := credential.GeminiAPIKey()
	if err != nil || apiKey == "" {
		logger.Info("no Gemini API key configured, assistant disabled")
		return nil
	}

	var retriever ai.Retriever
	if index != nil {
		retriever = index
	}
	return ai.New(apiKey, retriever, journal, cfg.AI, logger)
}

// buildNotifier selects the delivery channel from config.
func buildNotifier(cfg *model.AppConfig, clock timeutil.Clock, logger *slog.Logger) (notify.Notifier, error) {
	switch cfg.Notify.Channel {
	case "", "console":
		return notify.NewConsoleNotifier(os.Stdout, clock), nil
	case "imap":
		password, err := credential.IMAPPassword()
		if err != nil {
			return nil, fmt.Errorf("imap notifications need a password in the keyring or IMAP_PASSWORD: %w", err)
		}
		return notify.NewIMAPNotifier(cfg.Notify, password, clock, logger), nil
	default:
		return nil, fmt.Errorf("unknown notify channel %q", cfg.Notify.Channel)
	}
}

// runReindex rebuilds the retrieval index from the full journal.
func runReindex(journal *store.JournalStore, index *retrieval.Index) error {
	if index == nil {
		return fmt.Errorf("retrieval index is unavailable")
	}

	ctx := context.Background()
	entries, err := journal.Load(ctx)
	if err != nil {
		return err
	}
	if err := index.Reindex(ctx, entries); err != nil {
		return err
	}

	count, err := index.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d chunks from %d journal entries\n", count, len(entries))
	return nil
}

// runHeadless runs only the reminder scheduler, printing notifications
// until interrupted.
func runHeadless(
	taskStore store.TaskStore,
	notifier notify.Notifier,
	cfg *model.AppConfig,
	clock timeutil.Clock,
	logger *slog.Logger,
) error {
	if !cfg.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled in config")
	}

	scheduler := schedule.NewScheduler(taskStore, notifier, clock, logger)
	scheduler.Start(time.Duration(cfg.Scheduler.IntervalSec) * time.Second)
	defer scheduler.Stop()

	// First check immediately rather than waiting a full interval.
	if err := scheduler.Tick(context.Background()); err != nil {
		logger.Error("reminder check failed", "error", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	return nil
}

// runTUI starts the scheduler feeding the TUI status bar and runs the
// Bubble Tea program until exit.
func runTUI(
	taskStore store.TaskStore,
	journal *store.JournalStore,
	index *retrieval.Index,
	assistant *ai.Assistant,
	notifier notify.Notifier,
	cfg *model.AppConfig,
	clock timeutil.Clock,
	logger *slog.Logger,
) error {
	var scheduler *schedule.Scheduler
	var events chan model.NotificationEvent

	if cfg.Scheduler.Enabled {
		events = make(chan model.NotificationEvent, 16)
		fanout := notify.FuncNotifier(func(ctx context.Context, event model.NotificationEvent) error {
			select {
			case events <- event:
			default:
				logger.Warn("dropping notification, UI queue full", "task_id", event.TaskID)
			}
			if _, console := notifier.(*notify.ConsoleNotifier); console {
				// Console output would corrupt the TUI; the status bar
				// already shows the event.
				return nil
			}
			return notifier.Notify(ctx, event)
		})
		scheduler = schedule.NewScheduler(taskStore, fanout, clock, logger)
		scheduler.Start(time.Duration(cfg.Scheduler.IntervalSec) * time.Second)
		defer scheduler.Stop()
	}

	root := app.New(taskStore, journal, index, assistant, scheduler, events, clock)
	program := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
