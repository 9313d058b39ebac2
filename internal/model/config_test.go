package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, time.Second, cfg.RefreshInterval())
	assert.Equal(t, 20*time.Minute, cfg.ActiveWindow())
	assert.Equal(t, 3*time.Minute, cfg.LeadTime())
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Display.Theme = "mono"
	cfg.Notifications.LeadTimeMin = 5
	cfg.Notifications.DBPath = "/tmp/reminders.db"
	cfg.Mailbox.Enabled = true
	cfg.Mailbox.Host = "imap.campus.example"
	cfg.Mailbox.Username = "me@campus.example"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notifications:\n  lead_time_min: 10\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Notifications.LeadTimeMin)
	assert.Equal(t, 1000, cfg.Display.RefreshIntervalMS)
	assert.True(t, cfg.Notifications.Enabled)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"refresh too fast", "display:\n  refresh_interval_ms: 10\n"},
		{"unknown theme", "display:\n  theme: neon\n"},
		{"lead time too long", "notifications:\n  lead_time_min: 600\n"},
		{"mailbox without host", "mailbox:\n  enabled: true\n  username: me@example.com\n"},
		{"bad from address", "mailbox:\n  from: not-an-address\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := LoadConfig(path)
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}
