// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package textsink

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/politepol/crawllog/event"
	"github.com/politepol/crawllog/severity"
	"github.com/politepol/crawllog/sink/tracesink"
	"github.com/politepol/crawllog/tracestore"
)

var at = time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)

func msg(level severity.Level, parts ...string) event.Raw {
	return event.Raw{
		System:  event.FrameworkSystem,
		Message: parts,
		Time:    at,
	}.WithLevel(level)
}

func traced(raw event.Raw, snapshotID int64, dsns ...string) event.Raw {
	raw.Request = &event.Request{Meta: map[string]any{
		event.MetaSnapshotID:        snapshotID,
		event.MetaConnectionStrings: dsns,
	}}
	return raw
}

type call struct {
	dsns    []string
	id      int64
	code    int
	message string
	// written is the output seen when the trace was recorded.
	written string
}

type fakeRecorder struct {
	out   *bytes.Buffer
	err   error
	calls []call
}

func (f *fakeRecorder) Record(_ context.Context, dsns []string, id int64, code int, message string) error {
	f.calls = append(f.calls, call{dsns: dsns, id: id, code: code, message: message, written: f.out.String()})
	return f.err
}

func TestLineFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  event.Raw
		want string
	}{
		{
			name: "message",
			raw:  msg(severity.Warning, "disk", "low"),
			want: "2024-03-09 08:00:00+0000 [crawler] WARNING: disk low\n",
		},
		{
			name: "spider system",
			raw: func() event.Raw {
				r := msg(severity.Info, "Crawled (200)")
				r.Spider = &event.Spider{Name: "books"}
				return r
			}(),
			want: "2024-03-09 08:00:00+0000 [books] INFO: Crawled (200)\n",
		},
		{
			name: "multi line continuation",
			raw:  msg(severity.Error, "first\nsecond"),
			want: "2024-03-09 08:00:00+0000 [crawler] ERROR: first\n\tsecond\n",
		},
		{
			name: "format",
			raw: event.Raw{
				System:     event.FrameworkSystem,
				Format:     "Scraped %(count)d items",
				FormatArgs: map[string]any{"count": 3},
				Time:       at,
			}.WithLevel(severity.Info),
			want: "2024-03-09 08:00:00+0000 [crawler] INFO: Scraped 3 items\n",
		},
		{
			name: "failure without system",
			raw: event.Raw{
				IsError: true,
				Failure: errors.New("connection refused"),
				Time:    at,
			},
			want: "2024-03-09 08:00:00+0000 [-] Unhandled Error\n\tconnection refused\n",
		},
		{
			name: "nothing printable",
			raw:  event.Raw{System: event.FrameworkSystem, Time: at}.WithLevel(severity.Info),
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := New(&buf, Settings{MinLevel: severity.Debug})
			ev, err := s.Emit(context.Background(), tt.raw)
			require.NoError(t, err)
			require.NotNil(t, ev)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDropped(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, Settings{MinLevel: severity.Info})

	for _, raw := range []event.Raw{
		msg(severity.Debug, "too quiet"),
		{System: "twisted", Message: []string{"noise"}, Time: at},
	} {
		ev, err := s.Emit(context.Background(), raw.WithLevel(severity.Debug))
		assert.NoError(t, err)
		assert.Nil(t, ev)
	}
	assert.Empty(t, buf.String())
}

func TestEncoding(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, Settings{MinLevel: severity.Info, Encoding: charmap.ISO8859_1})

	_, err := s.Emit(context.Background(), msg(severity.Info, "café"))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09 08:00:00+0000 [crawler] INFO: caf\xe9\n", buf.String())
}

func TestMissingTimeUsesClock(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, Settings{MinLevel: severity.Info, Now: func() time.Time { return at.Add(time.Hour) }})

	raw := msg(severity.Info, "x")
	raw.Time = time.Time{}
	_, err := s.Emit(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09 09:00:00+0000 [crawler] INFO: x\n", buf.String())
}

func TestTraceAfterWrite(t *testing.T) {
	var buf bytes.Buffer
	rec := &fakeRecorder{out: &buf}
	s := New(&buf, Settings{MinLevel: severity.Info, Trace: rec})

	_, err := s.Emit(context.Background(), traced(msg(severity.Critical, "engine", "stopped"), 42, "sqlite://"))
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	c := rec.calls[0]
	assert.Equal(t, []string{"sqlite://"}, c.dsns)
	assert.EqualValues(t, 42, c.id)
	assert.Equal(t, -int(severity.Critical), c.code)
	assert.Equal(t, "CRITICAL: engine stopped", c.message)
	assert.Equal(t, "2024-03-09 08:00:00+0000 [crawler] CRITICAL: engine stopped\n", c.written,
		"the line is written before the trace is recorded")
}

func TestTraceFormatPrefix(t *testing.T) {
	var buf bytes.Buffer
	rec := &fakeRecorder{out: &buf}
	s := New(&buf, Settings{MinLevel: severity.Info, Trace: rec})

	raw := event.Raw{
		System:     event.FrameworkSystem,
		Format:     "Crawled %(url)s",
		FormatArgs: map[string]any{"url": "http://example.com"},
		Time:       at,
	}.WithLevel(severity.Info)
	ev, err := s.Emit(context.Background(), traced(raw, 9, "sqlite://"))
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, int(severity.Info), rec.calls[0].code)
	assert.Equal(t, "Crawler: INFO: Crawled http://example.com", rec.calls[0].message)
	assert.Equal(t, "INFO: Crawled %(url)s", ev.Format, "the emitted event keeps its format")
}

func TestNoTraceWithoutTarget(t *testing.T) {
	var buf bytes.Buffer
	rec := &fakeRecorder{out: &buf}
	s := New(&buf, Settings{MinLevel: severity.Info, Trace: rec})

	for _, raw := range []event.Raw{
		msg(severity.Info, "no request"),
		traced(msg(severity.Info, "no id"), 0, "sqlite://"),
		traced(msg(severity.Info, "no databases"), 5),
	} {
		_, err := s.Emit(context.Background(), raw)
		require.NoError(t, err)
	}
	assert.Empty(t, rec.calls)
}

func TestTraceErrorPropagates(t *testing.T) {
	var buf bytes.Buffer
	errDB := errors.New("no such table: traces")
	s := New(&buf, Settings{MinLevel: severity.Info, Trace: &fakeRecorder{out: &buf, err: errDB}})

	ev, err := s.Emit(context.Background(), traced(msg(severity.Error, "x"), 1, "sqlite://"))
	assert.ErrorIs(t, err, errDB)
	assert.NotNil(t, ev)
	assert.NotEmpty(t, buf.String())
}

func TestTraceCode(t *testing.T) {
	assert.Equal(t, 10, TraceCode(severity.Debug))
	assert.Equal(t, 30, TraceCode(severity.Warning))
	assert.Equal(t, -40, TraceCode(severity.Error))
	assert.Equal(t, -50, TraceCode(severity.Critical))
	assert.Equal(t, -45, TraceCode(severity.Level(45)))
}

func TestTraceIntoSQLite(t *testing.T) {
	dir := t.TempDir()
	dsns := []string{
		"sqlite:///" + filepath.Join(dir, "a.db"),
		"sqlite:///" + filepath.Join(dir, "b.db"),
	}
	reg := tracestore.NewRegistry(tracestore.StoreOpener(tracestore.Options{AutoMigrate: true}), nil)
	t.Cleanup(func() { assert.NoError(t, reg.Close()) })

	var buf bytes.Buffer
	s := New(&buf, Settings{MinLevel: severity.Info, Trace: tracesink.New(reg)})
	ctx := context.Background()

	_, err := s.Emit(ctx, traced(msg(severity.Critical, "shutdown"), 42, dsns...))
	require.NoError(t, err)
	_, err = s.Emit(ctx, traced(msg(severity.Info, "resumed"), 42, dsns...))
	require.NoError(t, err)

	for _, dsn := range dsns {
		store, err := tracestore.Open(dsn, tracestore.Options{})
		require.NoError(t, err)
		rows, err := store.FindBySnapshot(ctx, 42)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.Len(t, rows, 2)
		assert.Equal(t, -50, rows[0].Code)
		assert.Equal(t, "CRITICAL: shutdown", rows[0].Message)
		assert.Equal(t, 20, rows[1].Code)
		assert.Equal(t, "INFO: resumed", rows[1].Message)
	}
}
