// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package stats provides the counter stores that log sinks increment.
package stats // import "github.com/politepol/crawllog/stats"

// Collector is a named-counter store shared by the components of one run.
// Implementations must be safe for concurrent use.
type Collector interface {
	IncValue(key string)
}
