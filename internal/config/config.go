// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file, .env and environment on top.
// - All loading functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig, source failures ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects "text" or "json" log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BackendURL is the base URL of the hiring REST backend.
	BackendURL string `koanf:"backend_url"`

	// BackendTimeoutMS bounds each backend request.
	BackendTimeoutMS int `koanf:"backend_timeout_ms"`

	// PageSizes is the enumerated set of page sizes offered by the table.
	PageSizes []int `koanf:"page_sizes"`

	// DefaultPageSize is the page size of a freshly mounted view.
	DefaultPageSize int `koanf:"default_page_size"`

	// ViewTTLSeconds discards views idle for longer than this.
	ViewTTLSeconds int `koanf:"view_ttl_seconds"`

	// SessionDriver is the database/sql driver of the session store: sqlite or postgres.
	SessionDriver string `koanf:"session_driver"`

	// SessionDSN is the data source name handed to the session driver.
	SessionDSN string `koanf:"session_dsn"`

	// DedupeSize bounds the scheduling idempotency window.
	DedupeSize int `koanf:"dedupe_size"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		BackendURL:       "http://localhost:8000",
		BackendTimeoutMS: 15_000,
		PageSizes:        []int{10, 20, 50},
		DefaultPageSize:  10,
		ViewTTLSeconds:   1800,
		SessionDriver:    "sqlite",
		SessionDSN:       "file:hireview-session.db",
		DedupeSize:       10_000,
	}
}

// BackendTimeout returns BackendTimeoutMS as a duration.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutMS) * time.Millisecond
}

// ViewTTL returns ViewTTLSeconds as a duration.
func (c *Config) ViewTTL() time.Duration {
	return time.Duration(c.ViewTTLSeconds) * time.Second
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.BackendURL == "":
		return fmt.Errorf("%w: backend_url must not be empty", ErrInvalidConfig)
	case len(c.PageSizes) == 0:
		return fmt.Errorf("%w: page_sizes must not be empty", ErrInvalidConfig)
	}
	for _, n := range c.PageSizes {
		if n <= 0 {
			return fmt.Errorf("%w: page size %d must be positive", ErrInvalidConfig, n)
		}
	}
	if !slices.Contains(c.PageSizes, c.DefaultPageSize) {
		return fmt.Errorf("%w: default_page_size %d is not one of page_sizes %v", ErrInvalidConfig, c.DefaultPageSize, c.PageSizes)
	}
	switch c.SessionDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown session_driver %q", ErrInvalidConfig, c.SessionDriver)
	}
	return nil
}
