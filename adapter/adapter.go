// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package adapter turns raw host events into canonical log events. It is the
// single place where severity and origin filtering happen.
package adapter // import "github.com/politepol/crawllog/adapter"

import (
	"maps"

	"golang.org/x/text/encoding"

	"github.com/politepol/crawllog/event"
	"github.com/politepol/crawllog/severity"
)

// noLevelName prefixes events whose level has no symbolic name.
const noLevelName = "NOLEVEL"

// Settings controls how events are adapted for one sink.
type Settings struct {
	// MinLevel is the lowest level that passes.
	MinLevel severity.Level
	// Encoding is the output text encoding; nil means UTF-8.
	Encoding encoding.Encoding
	// PrependLevel prefixes the first message fragment, or the why and format
	// strings, with "<LEVEL>: ".
	PrependLevel bool
}

// Adapt filters raw and converts it into a LogEvent. It returns false when the
// event must be dropped. raw is never modified.
func Adapt(raw event.Raw, set Settings) (*event.LogEvent, bool) {
	level, hasLevel := raw.Level()
	if raw.IsError && !hasLevel {
		level, hasLevel = severity.Error, true
	}

	// Non-error events from outside the framework are noise.
	if raw.System != event.FrameworkSystem && !raw.IsError {
		return nil, false
	}
	if !hasLevel || level < set.MinLevel {
		return nil, false
	}

	ev := &event.LogEvent{
		Time:       raw.Time,
		Level:      level,
		IsError:    raw.IsError,
		System:     raw.System,
		Failure:    raw.Failure,
		Printed:    raw.Printed,
		FormatArgs: maps.Clone(raw.FormatArgs),
	}
	if raw.Request != nil {
		ev.RequestMeta = maps.Clone(raw.Request.Meta)
	}
	if raw.Spider != nil && raw.Spider.Name != "" {
		ev.System = encodeString(set.Encoding, raw.Spider.Name)
	}

	prefix := ""
	if set.PrependLevel {
		name, ok := severity.Name(level)
		if !ok {
			name = noLevelName
		}
		prefix = name + ": "
	}

	if len(raw.Message) > 0 {
		msg := make([]string, len(raw.Message))
		for i, fragment := range raw.Message {
			msg[i] = encodeString(set.Encoding, fragment)
		}
		msg[0] = prefix + msg[0]
		ev.Message = msg
	}
	if raw.Why != "" {
		ev.Why = prefix + encodeString(set.Encoding, raw.Why)
	}
	if raw.Format != "" {
		ev.Format = prefix + encodeString(set.Encoding, raw.Format)
	}
	return ev, true
}
