package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/timeutil"
)

// IMAPNotifier delivers notifications by composing an RFC 5322 message
// and appending it to a mailbox on the user's own IMAP server. Mail
// clients then surface the reminder like any other incoming message.
type IMAPNotifier struct {
	cfg      model.NotifyConfig
	password string
	clock    timeutil.Clock
	logger   *slog.Logger
}

// NewIMAPNotifier creates an IMAP notifier from the notify configuration
// and the account password.
func NewIMAPNotifier(cfg model.NotifyConfig, password string, clock timeutil.Clock, logger *slog.Logger) *IMAPNotifier {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IMAPNotifier{cfg: cfg, password: password, clock: clock, logger: logger}
}

// Notify composes the notification message and appends it to the
// configured mailbox. Each call opens and closes its own connection;
// notification volume is far too low to justify a pooled session.
func (n *IMAPNotifier) Notify(ctx context.Context, event model.NotificationEvent) error {
	msg, err := n.compose(event)
	if err != nil {
		return err
	}

	client, err := n.connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Logout().Wait(); err != nil {
			n.logger.Warn("imap logout failed", "error", err)
		}
	}()

	appendCmd := client.Append(n.cfg.IMAPMailbox, int64(len(msg)), &imap.AppendOptions{
		Flags: []imap.Flag{imap.FlagFlagged},
		Time:  n.clock.Now(),
	})
	if _, err := appendCmd.Write(msg); err != nil {
		return fmt.Errorf("writing notification to %s: %w", n.cfg.IMAPMailbox, err)
	}
	if err := appendCmd.Close(); err != nil {
		return fmt.Errorf("closing append to %s: %w", n.cfg.IMAPMailbox, err)
	}
	if _, err := appendCmd.Wait(); err != nil {
		return fmt.Errorf("appending notification to %s: %w", n.cfg.IMAPMailbox, err)
	}

	n.logger.Info("notification delivered via imap",
		"task_id", event.TaskID, "reason", event.Reason, "mailbox", n.cfg.IMAPMailbox)
	return nil
}

// connect dials the IMAP server and authenticates.
func (n *IMAPNotifier) connect() (*imapclient.Client, error) {
	addr := n.cfg.IMAPHost + ":" + n.cfg.IMAPPort

	var client *imapclient.Client
	var err error
	if n.cfg.IMAPTLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(n.cfg.IMAPUser, n.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authenticating %s: %w", n.cfg.IMAPUser, err)
	}

	return client, nil
}

// compose builds the full message bytes for an event.
func (n *IMAPNotifier) compose(event model.NotificationEvent) ([]byte, error) {
	from := n.cfg.FromAddress
	if from == "" {
		from = n.cfg.IMAPUser
	}

	var h mail.Header
	h.SetDate(n.clock.Now())
	h.SetAddressList("From", []*mail.Address{{Name: "Angel", Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: n.cfg.IMAPUser}})
	if event.Reason == model.ReasonDue {
		h.SetSubject(fmt.Sprintf("Task due: %s", event.Title))
	} else {
		h.SetSubject(fmt.Sprintf("Task reminder: %s", event.Title))
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("composing notification mail: %w", err)
	}
	if _, err := io.WriteString(w, Message(event)+"\r\n"); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing notification body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finishing notification mail: %w", err)
	}

	return buf.Bytes(), nil
}
