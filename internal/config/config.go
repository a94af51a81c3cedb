// Package config holds the process configuration of the portfolio server.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// GinMode is passed to gin.SetMode: debug, release or test.
	GinMode string `koanf:"gin_mode"`

	// ProfilePath points at a YAML profile. Empty means the built-in profile.
	ProfilePath string `koanf:"profile_path"`

	// DBPath is the SQLite file for visit tracking. Empty disables tracking.
	DBPath string `koanf:"db_path"`

	// VisitorRetentionDays bounds how long visit rows are kept.
	VisitorRetentionDays int `koanf:"visitor_retention_days"`

	// PublicVisits exposes the visit summary at /api/visits. Off by default.
	PublicVisits bool `koanf:"public_visits"`

	// SMTP relay for the contact form. The relay is disabled unless
	// SMTPUser and SMTPPass are both set.
	SMTPHost  string `koanf:"smtp_host"`
	SMTPPort  string `koanf:"smtp_port"`
	SMTPUser  string `koanf:"smtp_user"`
	SMTPPass  string `koanf:"smtp_pass"`
	ContactTo string `koanf:"contact_to"`

	// ShutdownTimeoutSec bounds graceful shutdown.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":8080",
		GinMode:              "release",
		DBPath:               "portfolio.db",
		VisitorRetentionDays: 365,
		SMTPHost:             "smtp.gmail.com",
		SMTPPort:             "587",
		ShutdownTimeoutSec:   10,
	}
}

// ShutdownTimeout returns ShutdownTimeoutSec as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// RelayEnabled reports whether enough SMTP settings are present to send mail.
func (c *Config) RelayEnabled() bool {
	return c.SMTPUser != "" && c.SMTPPass != "" && c.ContactTo != ""
}

// Validate checks the invariants Load relies on.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("%w: gin_mode %q", ErrInvalidConfig, c.GinMode)
	}
	if c.VisitorRetentionDays < 1 {
		return fmt.Errorf("%w: visitor_retention_days must be positive", ErrInvalidConfig)
	}
	if c.ShutdownTimeoutSec < 0 {
		return fmt.Errorf("%w: shutdown_timeout_sec must not be negative", ErrInvalidConfig)
	}
	return nil
}
