// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package stats // import "github.com/politepol/crawllog/stats"

import (
	"sync"

	"go.uber.org/atomic"
)

// Memory keeps counters in process memory.
type Memory struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
}

var _ Collector = (*Memory)(nil)

// NewMemory returns an empty in-memory collector.
func NewMemory() *Memory {
	return &Memory{counters: map[string]*atomic.Int64{}}
}

// IncValue increments the counter named key by one.
func (m *Memory) IncValue(key string) {
	m.counter(key).Inc()
}

// Value returns the current value of the counter named key.
func (m *Memory) Value(key string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.counters[key]; ok {
		return c.Load()
	}
	return 0
}

// Snapshot returns a copy of all counters.
func (m *Memory) Snapshot() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64, len(m.counters))
	for k, c := range m.counters {
		out[k] = c.Load()
	}
	return out
}

func (m *Memory) counter(key string) *atomic.Int64 {
	m.mu.RLock()
	c, ok := m.counters[key]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.counters[key]; !ok {
		c = atomic.NewInt64(0)
		m.counters[key] = c
	}
	return c
}
