package device

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/campus-pocket/internal/model"
)

func TestComposeReminder(t *testing.T) {
	n := model.Notification{
		Handle:    "h-1",
		Payload:   "13",
		Title:     "Shuttle departure reminder",
		Body:      "The shuttle from Library leaves at 13:00.",
		FireAt:    time.Date(2026, 3, 2, 12, 57, 0, 0, time.UTC),
		CreatedAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}

	raw, err := composeReminder("me@campus.example", "me@campus.example", n)
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, n.Title, subject)
	assert.Equal(t, "13", mr.Header.Get("X-Campuspocket-Departure"))

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "me@campus.example", from[0].Address)

	part, err := mr.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), n.Body)
}

func TestNewMailboxSinkDefaults(t *testing.T) {
	s := NewMailboxSink(model.MailboxConfig{Host: "imap.example", Username: "me@example"}, "secret")
	assert.Equal(t, 993, s.port)
	assert.Equal(t, "INBOX", s.mailbox)
	assert.Equal(t, "me@example", s.from)
}
