// Package config loads and validates blameline configuration from file,
// environment, and defaults.
package config

import (
	"errors"
	"time"
)

// Config is the top-level configuration struct for blameline.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	// VCS selects the active backend ("git" or "hg"). The choice is static
	// for the process lifetime; switching requires dropping all cached
	// blame state.
	VCS string `mapstructure:"vcs"`

	Blame  BlameConfig  `mapstructure:"blame"`
	Remote RemoteConfig `mapstructure:"remote"`
}

// BlameConfig holds annotation and rendering settings.
type BlameConfig struct {
	// Template is the placeholder template for rendered attributions.
	Template string `mapstructure:"template"`

	// DateFormat is a Go time layout; the %r escape renders a relative
	// phrase.
	DateFormat string `mapstructure:"date_format"`

	// MaxSummaryLength truncates <summary>; 0 means unlimited.
	MaxSummaryLength int `mapstructure:"max_summary_length"`

	// IgnoreWhitespace skips whitespace-only changes when attributing.
	IgnoreWhitespace bool `mapstructure:"ignore_whitespace"`
}

// RemoteConfig holds remote lookup settings.
type RemoteConfig struct {
	// CommandTimeout bounds every external VCS invocation.
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

// Default configuration values.
const (
	// DefaultVCS is the default backend.
	DefaultVCS = "git"

	// DefaultTemplate is the default attribution template.
	DefaultTemplate = "<author> • <date> • <summary>"

	// DefaultDateFormat renders dates as relative phrases.
	DefaultDateFormat = "%r"

	// DefaultMaxSummaryLength is the default summary truncation bound.
	DefaultMaxSummaryLength = 0

	// DefaultIgnoreWhitespace is the default whitespace handling.
	DefaultIgnoreWhitespace = false

	// DefaultCommandTimeout bounds external VCS invocations.
	DefaultCommandTimeout = 30 * time.Second
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidVCS indicates the backend name is empty.
	ErrInvalidVCS = errors.New("vcs must be set")
	// ErrInvalidTemplate indicates the template is empty.
	ErrInvalidTemplate = errors.New("blame.template must not be empty")
	// ErrInvalidMaxSummaryLength indicates the truncation bound is negative.
	ErrInvalidMaxSummaryLength = errors.New("blame.max_summary_length must be non-negative")
	// ErrInvalidCommandTimeout indicates the timeout is not positive.
	ErrInvalidCommandTimeout = errors.New("remote.command_timeout must be positive")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.VCS == "" {
		return ErrInvalidVCS
	}

	if c.Blame.Template == "" {
		return ErrInvalidTemplate
	}

	if c.Blame.MaxSummaryLength < 0 {
		return ErrInvalidMaxSummaryLength
	}

	if c.Remote.CommandTimeout <= 0 {
		return ErrInvalidCommandTimeout
	}

	return nil
}
