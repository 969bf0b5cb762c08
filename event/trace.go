// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package event // import "github.com/politepol/crawllog/event"

import (
	"github.com/spf13/cast"
)

// Request metadata keys read by the trace sink.
const (
	MetaSnapshotID        = "snapshot_id"
	MetaConnectionStrings = "connection_strings"
)

// TraceMeta is the trace persistence target carried by a request.
type TraceMeta struct {
	SnapshotID        int64
	ConnectionStrings []string
}

// Trace extracts the trace target from the request metadata. Missing, zero or
// badly typed values mean the event is not traced.
func (e *LogEvent) Trace() (TraceMeta, bool) {
	if e.RequestMeta == nil {
		return TraceMeta{}, false
	}
	rawID, ok := e.RequestMeta[MetaSnapshotID]
	if !ok {
		return TraceMeta{}, false
	}
	id, err := cast.ToInt64E(rawID)
	if err != nil || id == 0 {
		return TraceMeta{}, false
	}
	rawConns, ok := e.RequestMeta[MetaConnectionStrings]
	if !ok {
		return TraceMeta{}, false
	}
	conns, err := cast.ToStringSliceE(rawConns)
	if err != nil || len(conns) == 0 {
		return TraceMeta{}, false
	}
	return TraceMeta{SnapshotID: id, ConnectionStrings: conns}, true
}
