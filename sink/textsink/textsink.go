// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package textsink writes adapted events as timestamped text lines to a stream
// and forwards traced events to the trace sink.
package textsink // import "github.com/politepol/crawllog/sink/textsink"

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/encoding"

	"github.com/politepol/crawllog/adapter"
	"github.com/politepol/crawllog/event"
	"github.com/politepol/crawllog/severity"
	"github.com/politepol/crawllog/sink"
)

const (
	// TimeLayout is the timestamp column of every line.
	TimeLayout = "2006-01-02 15:04:05-0700"
	// TracePrefix is prepended to the format of traced events.
	TracePrefix = "Crawler: "

	noSystem = "-"
)

// TraceRecorder persists trace rows. *tracesink.Recorder implements it.
type TraceRecorder interface {
	Record(ctx context.Context, connectionStrings []string, snapshotID int64, code int, message string) error
}

// Settings configures a text sink.
type Settings struct {
	MinLevel severity.Level
	Encoding encoding.Encoding
	// Trace receives traced events after their line is written. Nil disables
	// trace persistence.
	Trace TraceRecorder
	// Now is used for events without a timestamp.
	Now func() time.Time
}

// Sink writes one line per event:
//
//	2024-03-09 08:00:00+0000 [crawler] INFO: Spider opened
type Sink struct {
	core  zapcore.Core
	set   Settings
	adapt adapter.Settings
}

var _ sink.Sink = (*Sink)(nil)

// New creates a text sink writing to w. Writes to w are serialized.
func New(w io.Writer, set Settings) *Sink {
	if set.Now == nil {
		set.Now = time.Now
	}
	return &Sink{
		core: newLineCore(w),
		set:  set,
		adapt: adapter.Settings{
			MinLevel:     set.MinLevel,
			Encoding:     set.Encoding,
			PrependLevel: true,
		},
	}
}

func newLineCore(w io.Writer) zapcore.Core {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	// The level is part of the message text.
	encoderConfig.LevelKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.StacktraceKey = ""
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(TimeLayout)
	encoderConfig.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + name + "]")
	}
	encoderConfig.ConsoleSeparator = " "
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		zapcore.DebugLevel,
	)
}

// Emit adapts raw with the level prefix, writes its line and then, when the
// request carries a trace target, records the trace. A trace failure is
// returned after the line has been written.
func (s *Sink) Emit(ctx context.Context, raw event.Raw) (*event.LogEvent, error) {
	ev, ok := adapter.Adapt(raw, s.adapt)
	if !ok {
		return nil, nil
	}
	if err := s.write(ev); err != nil {
		return ev, err
	}
	if s.set.Trace == nil {
		return ev, nil
	}
	target, ok := ev.Trace()
	if !ok {
		return ev, nil
	}
	return ev, s.set.Trace.Record(ctx, target.ConnectionStrings, target.SnapshotID, TraceCode(ev.Level), traceText(ev))
}

func (s *Sink) write(ev *event.LogEvent) error {
	text := ev.Text()
	if text == "" {
		return nil
	}
	system := ev.System
	if system == "" {
		system = noSystem
	}
	ts := ev.Time
	if ts.IsZero() {
		ts = s.set.Now()
	}
	return s.core.Write(zapcore.Entry{
		LoggerName: system,
		Time:       ts,
		Message:    strings.ReplaceAll(text, "\n", "\n\t"),
	}, nil)
}

// TraceCode is the code stored for a trace row: error and worse levels are
// negated.
func TraceCode(l severity.Level) int {
	if l >= severity.Error {
		return -int(l)
	}
	return int(l)
}

func traceText(ev *event.LogEvent) string {
	if ev.Format == "" {
		return ev.Text()
	}
	c := ev.Clone()
	c.Format = TracePrefix + c.Format
	return c.Text()
}
