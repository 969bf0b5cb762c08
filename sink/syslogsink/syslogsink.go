// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package syslogsink sends adapted events to the system log.
package syslogsink // import "github.com/politepol/crawllog/sink/syslogsink"

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/text/encoding"

	"github.com/politepol/crawllog/adapter"
	"github.com/politepol/crawllog/event"
	"github.com/politepol/crawllog/severity"
	"github.com/politepol/crawllog/sink"
)

// Tag identifies crawler messages in the system log.
const Tag = "crawler"

// ErrUnsupported is returned by Dial on platforms without a system log.
var ErrUnsupported = errors.New("syslog is not supported on this platform")

// Writer is the subset of *log/syslog.Writer used by the sink.
type Writer interface {
	Alert(m string) error
	Crit(m string) error
	Err(m string) error
	Warning(m string) error
	Info(m string) error
	Debug(m string) error
	Close() error
}

// Settings configures a syslog sink.
type Settings struct {
	MinLevel severity.Level
	Encoding encoding.Encoding
}

// Sink writes events to a syslog Writer without the level prefix; the level is
// carried by the syslog priority instead.
type Sink struct {
	w     Writer
	adapt adapter.Settings
}

var _ sink.Sink = (*Sink)(nil)

// New creates a sink writing to w.
func New(w Writer, set Settings) *Sink {
	return &Sink{
		w: w,
		adapt: adapter.Settings{
			MinLevel: set.MinLevel,
			Encoding: set.Encoding,
		},
	}
}

// Emit writes every line of the event text as a separate syslog message.
func (s *Sink) Emit(_ context.Context, raw event.Raw) (*event.LogEvent, error) {
	ev, ok := adapter.Adapt(raw, s.adapt)
	if !ok {
		return nil, nil
	}
	text := ev.Text()
	if text == "" {
		return ev, nil
	}
	system := ev.System
	if system == "" {
		system = "-"
	}

	lines := strings.Split(text, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	write := s.priority(ev)
	var errs error
	for i, line := range lines {
		if i > 0 {
			line = "\t" + line
		}
		errs = multierr.Append(errs, write("["+system+"] "+line))
	}
	return ev, errs
}

// Close closes the underlying writer.
func (s *Sink) Close() error {
	return s.w.Close()
}

func (s *Sink) priority(ev *event.LogEvent) func(string) error {
	if ev.IsError {
		return s.w.Alert
	}
	switch {
	case ev.Level >= severity.Critical:
		return s.w.Crit
	case ev.Level >= severity.Error:
		return s.w.Err
	case ev.Level >= severity.Warning:
		return s.w.Warning
	case ev.Level >= severity.Info:
		return s.w.Info
	default:
		return s.w.Debug
	}
}
