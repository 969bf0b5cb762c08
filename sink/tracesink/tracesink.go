// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package tracesink appends trace rows for a snapshot to every database of the
// trace engine registry.
package tracesink // import "github.com/politepol/crawllog/sink/tracesink"

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/politepol/crawllog/tracestore"
)

// EngineSource hands out the frozen set of trace engines.
// *tracestore.Registry implements it.
type EngineSource interface {
	Engines(dsns []string) ([]tracestore.Engine, error)
}

var _ EngineSource = (*tracestore.Registry)(nil)

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// Recorder writes trace rows.
type Recorder struct {
	engines EngineSource
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a Recorder writing to the engines of src.
func New(src EngineSource, opts ...Option) *Recorder {
	r := &Recorder{
		engines: src,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record inserts one row per engine. The engine set is built from
// connectionStrings on the first call only; later calls reuse it whatever
// strings they pass.
//
// Inserts run in engine order on the calling goroutine. The first failure is
// returned and the remaining engines are not attempted.
func (r *Recorder) Record(ctx context.Context, connectionStrings []string, snapshotID int64, code int, message string) error {
	engines, err := r.engines.Engines(connectionStrings)
	if err != nil {
		return err
	}
	rec := tracestore.NewRecord(snapshotID, code, message, r.now())
	for _, e := range engines {
		if err := e.Insert(ctx, rec); err != nil {
			return fmt.Errorf("insert trace for snapshot %d into %s: %w", snapshotID, e.Name(), err)
		}
	}
	r.logger.Debug("Trace recorded",
		zap.Int64("snapshot_id", snapshotID),
		zap.Int("code", code),
		zap.Int("engines", len(engines)))
	return nil
}
