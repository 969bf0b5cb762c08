// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package sink // import "github.com/politepol/crawllog/sink"

import (
	"context"

	"github.com/politepol/crawllog/event"
	"github.com/politepol/crawllog/severity"
	"github.com/politepol/crawllog/stats"
)

const countKeyPrefix = "log_count/"

// Counting decorates a Sink and counts the events it emits per level.
type Counting struct {
	next  Sink
	stats stats.Collector
}

var _ Sink = (*Counting)(nil)

// NewCounting wraps next so that every emitted event increments
// "log_count/<LEVEL>" on st.
func NewCounting(next Sink, st stats.Collector) *Counting {
	return &Counting{next: next, stats: st}
}

// Emit delegates to the wrapped sink. Dropped events and failed emissions are
// not counted.
func (c *Counting) Emit(ctx context.Context, raw event.Raw) (*event.LogEvent, error) {
	ev, err := c.next.Emit(ctx, raw)
	if err != nil || ev == nil {
		return ev, err
	}
	c.stats.IncValue(CountKey(ev.Level))
	return ev, nil
}

// CountKey is the counter name used for events of level l.
func CountKey(l severity.Level) string {
	// String falls back to the numeric value for unnamed levels.
	return countKeyPrefix + l.String()
}
