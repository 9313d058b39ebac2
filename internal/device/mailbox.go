package device

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/campus-pocket/internal/model"
)

// MailboxSink appends every delivered reminder as a message to an IMAP
// mailbox, so it also shows up in the user's mail client.
type MailboxSink struct {
	host     string
	port     int
	username string
	password string
	mailbox  string
	from     string
	tls      bool
}

// NewMailboxSink creates a sink for the given IMAP account.
func NewMailboxSink(cfg model.MailboxConfig, password string) *MailboxSink {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	mailbox := cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	port := cfg.Port
	if port == 0 {
		port = 993
	}
	return &MailboxSink{
		host:     cfg.Host,
		port:     port,
		username: cfg.Username,
		password: password,
		mailbox:  mailbox,
		from:     from,
		tls:      cfg.TLS,
	}
}

// Deliver connects, authenticates and appends n to the mailbox.
func (s *MailboxSink) Deliver(_ context.Context, n model.Notification) error {
	msg, err := composeReminder(s.from, s.username, n)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	var client *imapclient.Client
	if s.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}
	defer func() { _ = client.Logout().Wait() }()

	if err := client.Login(s.username, s.password).Wait(); err != nil {
		return fmt.Errorf("authenticating %s: %w", s.username, err)
	}

	appendCmd := client.Append(s.mailbox, int64(len(msg)), &imap.AppendOptions{
		Time: n.FireAt,
	})
	if _, err := appendCmd.Write(msg); err != nil {
		return fmt.Errorf("writing reminder to %s: %w", s.mailbox, err)
	}
	if err := appendCmd.Close(); err != nil {
		return fmt.Errorf("closing append to %s: %w", s.mailbox, err)
	}
	if _, err := appendCmd.Wait(); err != nil {
		return fmt.Errorf("appending reminder to %s: %w", s.mailbox, err)
	}

	return nil
}

// composeReminder renders n as a plain-text RFC 5322 message.
func composeReminder(from, to string, n model.Notification) ([]byte, error) {
	var h mail.Header
	h.SetDate(n.FireAt)
	h.SetSubject(n.Title)
	h.SetAddressList("From", []*mail.Address{{Name: "campuspocket", Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}
	h.Set("X-Campuspocket-Departure", n.Payload)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating reminder message: %w", err)
	}
	body := fmt.Sprintf("%s\n\nScheduled %s.\n", n.Body, n.CreatedAt.Format(time.RFC1123))
	if _, err := w.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("writing reminder body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing reminder message: %w", err)
	}

	return buf.Bytes(), nil
}
