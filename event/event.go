// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package event holds the two shapes a log occurrence takes in the pipeline: the
// loosely populated Raw record delivered by the host logging runtime and the
// canonical LogEvent produced by the adapter and consumed by sinks.
package event // import "github.com/politepol/crawllog/event"

import (
	"maps"
	"strings"
	"time"

	"github.com/politepol/crawllog/severity"
)

// FrameworkSystem is the reserved system label of events emitted by the crawler
// framework itself. Non-error events from any other system are noise.
const FrameworkSystem = "crawler"

// Spider is the crawl component an event is associated with.
type Spider struct {
	Name string `mapstructure:"name"`
}

// Request is the crawl request an event is associated with.
type Request struct {
	Meta map[string]any `mapstructure:"meta"`
}

// Raw is an event as delivered by the host logging runtime. Any field may be
// absent; only the adapter interprets it.
type Raw struct {
	IsError    bool            `mapstructure:"isError"`
	LogLevel   *severity.Level `mapstructure:"logLevel"`
	System     string          `mapstructure:"system"`
	Spider     *Spider         `mapstructure:"spider"`
	Message    []string        `mapstructure:"message"`
	Why        string          `mapstructure:"why"`
	Format     string          `mapstructure:"format"`
	Request    *Request        `mapstructure:"request"`
	Printed    bool            `mapstructure:"printed"`
	Time       time.Time       `mapstructure:"-"`
	Failure    error           `mapstructure:"-"`
	FormatArgs map[string]any  `mapstructure:",remain"`
}

// Level returns the event level and whether one was supplied.
func (r Raw) Level() (severity.Level, bool) {
	if r.LogLevel == nil {
		return 0, false
	}
	return *r.LogLevel, true
}

// WithLevel returns a copy of r carrying the given level.
func (r Raw) WithLevel(l severity.Level) Raw {
	r.LogLevel = &l
	return r
}

// LogEvent is the canonical, filtered and adapted form of a log occurrence.
// It is produced only by the adapter and must be treated as immutable.
type LogEvent struct {
	Time       time.Time
	Level      severity.Level
	IsError    bool
	System     string
	Message    []string
	Why        string
	Format     string
	FormatArgs map[string]any
	Failure    error
	Printed    bool
	// RequestMeta is the metadata of the associated request, if any.
	RequestMeta map[string]any
}

// Clone returns a deep copy of the slices and maps held by e.
func (e *LogEvent) Clone() *LogEvent {
	c := *e
	if e.Message != nil {
		c.Message = append([]string(nil), e.Message...)
	}
	c.FormatArgs = maps.Clone(e.FormatArgs)
	c.RequestMeta = maps.Clone(e.RequestMeta)
	return &c
}

// Text renders the event the way it appears in text output. It returns an empty
// string when the event has nothing printable.
func (e *LogEvent) Text() string {
	switch {
	case len(e.Message) > 0:
		return strings.Join(e.Message, " ")
	case e.Failure != nil:
		why := e.Why
		if why == "" {
			why = "Unhandled Error"
		}
		return why + "\n" + e.Failure.Error()
	case e.Format != "":
		return formatSafe(e.Format, e.FormatArgs)
	}
	return ""
}
