// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/politepol/crawllog/event"
	"github.com/politepol/crawllog/severity"
	"github.com/politepol/crawllog/stats"
)

// passThrough keeps every event that carries a level.
func passThrough(_ context.Context, raw event.Raw) (*event.LogEvent, error) {
	lvl, ok := raw.Level()
	if !ok {
		return nil, nil
	}
	return &event.LogEvent{Level: lvl, System: raw.System}, nil
}

func TestCountingCountsEachEmittedEvent(t *testing.T) {
	st := stats.NewMemory()
	s := NewCounting(Func(passThrough), st)

	const n = 7
	for i := 0; i < n; i++ {
		ev, err := s.Emit(context.Background(), event.Raw{}.WithLevel(severity.Error))
		require.NoError(t, err)
		require.NotNil(t, ev)
	}
	assert.EqualValues(t, n, st.Value("log_count/ERROR"))
	assert.Len(t, st.Snapshot(), 1)
}

func TestCountingSkipsDropped(t *testing.T) {
	st := stats.NewMemory()
	s := NewCounting(Func(passThrough), st)

	ev, err := s.Emit(context.Background(), event.Raw{})
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.Empty(t, st.Snapshot())
}

func TestCountingSkipsFailed(t *testing.T) {
	st := stats.NewMemory()
	errWant := errors.New("trace insert failed")
	s := NewCounting(Func(func(ctx context.Context, raw event.Raw) (*event.LogEvent, error) {
		ev, _ := passThrough(ctx, raw)
		return ev, errWant
	}), st)

	ev, err := s.Emit(context.Background(), event.Raw{}.WithLevel(severity.Critical))
	assert.ErrorIs(t, err, errWant)
	assert.NotNil(t, ev)
	assert.Empty(t, st.Snapshot())
}

func TestCountingReturnsInnerEvent(t *testing.T) {
	want := &event.LogEvent{Level: severity.Info, System: "books"}
	s := NewCounting(Func(func(context.Context, event.Raw) (*event.LogEvent, error) {
		return want, nil
	}), stats.NewMemory())

	got, err := s.Emit(context.Background(), event.Raw{})
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestCountKey(t *testing.T) {
	assert.Equal(t, "log_count/WARNING", CountKey(severity.Warning))
	assert.Equal(t, "log_count/25", CountKey(severity.Level(25)))
}

func TestTwoWrappersShareCollector(t *testing.T) {
	st := stats.NewMemory()
	a := NewCounting(Func(passThrough), st)
	b := NewCounting(Func(passThrough), st)

	raw := event.Raw{}.WithLevel(severity.Info)
	_, err := a.Emit(context.Background(), raw)
	require.NoError(t, err)
	_, err = b.Emit(context.Background(), raw)
	require.NoError(t, err)

	assert.EqualValues(t, 2, st.Value("log_count/INFO"), "one increment per wrapping sink")
}
