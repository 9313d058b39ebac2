package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nhle/campus-pocket/internal/credential"
	"github.com/nhle/campus-pocket/internal/device"
	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/notify"
	"github.com/nhle/campus-pocket/internal/refresh"
	"github.com/nhle/campus-pocket/internal/theme"
	"github.com/nhle/campus-pocket/internal/timetable"
	"github.com/nhle/campus-pocket/internal/timeutil"
)

// env is what every command needs: the configuration and the
// timetable.
type env struct {
	cfg   *model.AppConfig
	store *timetable.Store
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	theme.Use(cfg.Display.Theme)

	return &env{cfg: cfg, store: timetable.Default()}, nil
}

// openCenter opens the notification center with the configured sinks
// plus extra.
func (e *env) openCenter(extra ...device.Sink) (*device.Center, error) {
	dbPath := e.cfg.Notifications.DBPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	opts := []device.Option{
		device.WithPermission(e.cfg.Notifications.Enabled),
		device.WithSink(device.LogSink{}),
	}
	if sink := e.mailboxSink(); sink != nil {
		opts = append(opts, device.WithSink(sink))
	}
	for _, s := range extra {
		opts = append(opts, device.WithSink(s))
	}

	return device.Open(dbPath, opts...)
}

// mailboxSink returns the IMAP sink when it is enabled and a password
// is available.
func (e *env) mailboxSink() device.Sink {
	mb := e.cfg.Mailbox
	if !mb.Enabled {
		return nil
	}
	password, err := credential.MailboxPassword(mb.Username)
	if err != nil {
		log.Printf("mailbox copies disabled: %v (store it under %q or set %s)",
			err, credential.MailboxKey(mb.Username), credential.PasswordEnv)
		return nil
	}
	return device.NewMailboxSink(mb, password)
}

func (e *env) manager(dev notify.Device) *notify.Manager {
	return notify.NewManager(e.store, dev, notify.WithLeadTime(e.cfg.LeadTime()))
}

func (e *env) loop(opts ...refresh.Option) *refresh.Loop {
	opts = append([]refresh.Option{
		refresh.WithInterval(e.cfg.RefreshInterval()),
		refresh.WithCountdown(timeutil.Countdown{ActiveWindow: e.cfg.ActiveWindow()}),
	}, opts...)
	return refresh.New(e.store, opts...)
}

// parseStop matches name against the known stops, ignoring case.
func parseStop(name string, stops []model.Stop) (model.Stop, error) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))
	for _, s := range stops {
		if fold.String(string(s)) == want {
			return s, nil
		}
	}

	names := make([]string, len(stops))
	for i, s := range stops {
		names[i] = string(s)
	}
	return "", fmt.Errorf("unknown stop %q (known: %s)", name, strings.Join(names, ", "))
}

// title renders a heading in title case.
func title(s string) string {
	return cases.Title(language.English).String(s)
}
