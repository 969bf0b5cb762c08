// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostlog is the in-process logging runtime the crawler publishes raw
// events to. Observers registered on a Publisher see every event in
// registration order.
package hostlog // import "github.com/politepol/crawllog/hostlog"

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/politepol/crawllog/event"
	"github.com/politepol/crawllog/sink"
)

type registration struct {
	id       uint64
	observer sink.Sink
}

// Publisher fans raw events out to its observers.
type Publisher struct {
	// observers is replaced, never mutated, so Publish reads it without locking.
	observers atomic.Pointer[[]registration]

	mu     sync.Mutex
	nextID uint64

	now func() time.Time
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithNow sets the clock used to stamp events published without a time.
func WithNow(now func() time.Time) PublisherOption {
	return func(p *Publisher) {
		p.now = now
	}
}

// NewPublisher creates a Publisher with no observers.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	p.observers.Store(&[]registration{})
	return p
}

// AddObserver registers o and returns a func that unregisters it. The func is
// safe to call more than once.
func (p *Publisher) AddObserver(o sink.Sink) (remove func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	id := p.nextID
	cur := *p.observers.Load()
	next := make([]registration, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, registration{id: id, observer: o})
	p.observers.Store(&next)

	return func() { p.remove(id) }
}

func (p *Publisher) remove(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := *p.observers.Load()
	next := slices.DeleteFunc(slices.Clone(cur), func(r registration) bool {
		return r.id == id
	})
	p.observers.Store(&next)
}

// Len returns the number of registered observers.
func (p *Publisher) Len() int {
	return len(*p.observers.Load())
}

// Publish stamps raw with the current time when it has none and hands it to
// every observer on the calling goroutine. An observer failing does not stop
// the others; all errors are returned together.
func (p *Publisher) Publish(ctx context.Context, raw event.Raw) error {
	if raw.Time.IsZero() {
		raw.Time = p.now()
	}
	var errs error
	for _, r := range *p.observers.Load() {
		_, err := r.observer.Emit(ctx, raw)
		errs = multierr.Append(errs, err)
	}
	return errs
}
