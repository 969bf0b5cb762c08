// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package lifecycle tracks whether a long lived component is running.
package lifecycle // import "github.com/politepol/crawllog/internal/lifecycle"

import "go.uber.org/atomic"

const (
	stopped int64 = iota
	running
)

// State is the concurrency safe running state of a component.
type State struct {
	current atomic.Int64
}

// Start marks the component running and reports whether it was stopped.
func (s *State) Start() bool {
	return s.current.Swap(running) == stopped
}

// Stop marks the component stopped and reports whether it was running.
func (s *State) Stop() bool {
	return s.current.Swap(stopped) == running
}
