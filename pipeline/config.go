// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline // import "github.com/politepol/crawllog/pipeline"

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/politepol/crawllog/adapter"
	"github.com/politepol/crawllog/severity"
)

// ErrInvalidConfig is returned when the logging configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid logging configuration")

// Config is the logging configuration surface.
type Config struct {
	// Enabled turns the whole pipeline on or off.
	Enabled bool `mapstructure:"log_enabled"`
	// File is appended to. Empty means standard error.
	File string `mapstructure:"log_file"`
	// Level is the minimum level written by every sink.
	Level severity.Level `mapstructure:"log_level"`
	// Stdout publishes lines written to standard output as log events.
	Stdout bool `mapstructure:"log_stdout"`
	// Encoding of text written by the sinks.
	Encoding string `mapstructure:"log_encoding"`
	// Syslog sends events to the local system log as well.
	Syslog bool `mapstructure:"log_syslog"`

	// TraceAutoMigrate creates the traces table in trace databases.
	TraceAutoMigrate bool `mapstructure:"trace_auto_migrate"`
	// BotName is reported in the startup banner.
	BotName string `mapstructure:"bot_name"`
}

// NewDefaultConfig returns the configuration used when nothing is set.
func NewDefaultConfig() Config {
	return Config{
		Enabled:  true,
		Level:    severity.Info,
		Encoding: "utf-8",
		Syslog:   true,
		BotName:  "crawllog",
	}
}

// Validate checks the level and the encoding.
func (cfg Config) Validate() error {
	var errs error
	if !cfg.Level.Known() {
		errs = multierr.Append(errs, fmt.Errorf("%w: log_level %s", severity.ErrInvalidLevel, cfg.Level))
	}
	if _, err := adapter.LookupEncoding(cfg.Encoding); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errs)
	}
	return nil
}
