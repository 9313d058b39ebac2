package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme             string `mapstructure:"theme" yaml:"theme" validate:"oneof=default mono"`
	RefreshIntervalMS int    `mapstructure:"refresh_interval_ms" yaml:"refresh_interval_ms" validate:"gte=100"`
	ActiveWindowMin   int    `mapstructure:"active_window_min" yaml:"active_window_min" validate:"gte=1,lte=180"`
}

// NotificationConfig controls departure reminders.
type NotificationConfig struct {
	// Enabled mirrors the device notification permission. When false
	// every reminder request is refused.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// LeadTimeMin is how many minutes before departure a reminder fires.
	LeadTimeMin int `mapstructure:"lead_time_min" yaml:"lead_time_min" validate:"gte=1,lte=60"`

	// DBPath is where the notification center keeps scheduled reminders.
	DBPath string `mapstructure:"db_path" yaml:"db_path" validate:"required"`
}

// MailboxConfig configures the optional IMAP mailbox that receives a
// copy of every delivered reminder.
type MailboxConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"host" yaml:"host" validate:"required_if=Enabled true"`
	Port     int    `mapstructure:"port" yaml:"port" validate:"gte=0,lte=65535"`
	Username string `mapstructure:"username" yaml:"username" validate:"required_if=Enabled true"`
	Mailbox  string `mapstructure:"mailbox" yaml:"mailbox" validate:"required"`
	From     string `mapstructure:"from" yaml:"from" validate:"omitempty,email"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Display       DisplayConfig      `mapstructure:"display" yaml:"display"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Mailbox       MailboxConfig      `mapstructure:"mailbox" yaml:"mailbox"`
}

// RefreshInterval returns the board refresh period.
func (c *AppConfig) RefreshInterval() time.Duration {
	return time.Duration(c.Display.RefreshIntervalMS) * time.Millisecond
}

// ActiveWindow returns how far ahead a countdown is shown.
func (c *AppConfig) ActiveWindow() time.Duration {
	return time.Duration(c.Display.ActiveWindowMin) * time.Minute
}

// LeadTime returns how long before departure a reminder fires.
func (c *AppConfig) LeadTime() time.Duration {
	return time.Duration(c.Notifications.LeadTimeMin) * time.Minute
}

// Validate checks the configuration against its struct tags.
func (c *AppConfig) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ConfigDir returns the directory holding campuspocket's files,
// ~/.config/campuspocket.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "campuspocket")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/campuspocket/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Display: DisplayConfig{
			Theme:             "default",
			RefreshIntervalMS: 1000,
			ActiveWindowMin:   20,
		},
		Notifications: NotificationConfig{
			Enabled:     true,
			LeadTimeMin: 3,
			DBPath:      filepath.Join(ConfigDir(), "notifications.db"),
		},
		Mailbox: MailboxConfig{
			Port:    993,
			Mailbox: "INBOX",
			TLS:     true,
		},
	}
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *AppConfig {
	return defaultAppConfig()
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.refresh_interval_ms", def.Display.RefreshIntervalMS)
	v.SetDefault("display.active_window_min", def.Display.ActiveWindowMin)
	v.SetDefault("notifications.enabled", def.Notifications.Enabled)
	v.SetDefault("notifications.lead_time_min", def.Notifications.LeadTimeMin)
	v.SetDefault("notifications.db_path", def.Notifications.DBPath)
	v.SetDefault("mailbox.port", def.Mailbox.Port)
	v.SetDefault("mailbox.mailbox", def.Mailbox.Mailbox)
	v.SetDefault("mailbox.tls", def.Mailbox.TLS)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("display.theme", cfg.Display.Theme)
	v.Set("display.refresh_interval_ms", cfg.Display.RefreshIntervalMS)
	v.Set("display.active_window_min", cfg.Display.ActiveWindowMin)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.lead_time_min", cfg.Notifications.LeadTimeMin)
	v.Set("notifications.db_path", cfg.Notifications.DBPath)
	v.Set("mailbox.enabled", cfg.Mailbox.Enabled)
	v.Set("mailbox.host", cfg.Mailbox.Host)
	v.Set("mailbox.port", cfg.Mailbox.Port)
	v.Set("mailbox.username", cfg.Mailbox.Username)
	v.Set("mailbox.mailbox", cfg.Mailbox.Mailbox)
	v.Set("mailbox.from", cfg.Mailbox.From)
	v.Set("mailbox.tls", cfg.Mailbox.TLS)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
