package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxKey(t *testing.T) {
	assert.Equal(t, "imap-me@campus.example", MailboxKey("me@campus.example"))
}

func TestMailboxPasswordFromEnv(t *testing.T) {
	t.Setenv(PasswordEnv, "hunter2")

	pw, err := MailboxPassword("me@campus.example")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)
}
