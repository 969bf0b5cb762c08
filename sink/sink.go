// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package sink defines the contract shared by every log destination.
package sink // import "github.com/politepol/crawllog/sink"

import (
	"context"

	"github.com/politepol/crawllog/event"
)

// Sink receives raw host events, adapts them with its own settings and
// produces a side effect for the ones that pass.
//
// Emit returns the adapted event, or nil when the event was dropped. Dropping is
// not an error. A non-nil error means a side effect failed after adaptation.
type Sink interface {
	Emit(ctx context.Context, raw event.Raw) (*event.LogEvent, error)
}

// Func is an adapter to allow the use of ordinary functions as a Sink.
type Func func(ctx context.Context, raw event.Raw) (*event.LogEvent, error)

// Emit calls f(ctx, raw).
func (f Func) Emit(ctx context.Context, raw event.Raw) (*event.LogEvent, error) {
	return f(ctx, raw)
}
