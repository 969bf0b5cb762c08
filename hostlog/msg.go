// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package hostlog // import "github.com/politepol/crawllog/hostlog"

import (
	"context"

	"github.com/politepol/crawllog/event"
	"github.com/politepol/crawllog/severity"
)

// MsgOption sets optional fields of a published event.
type MsgOption func(*event.Raw)

// WithLevel overrides the default level.
func WithLevel(l severity.Level) MsgOption {
	return func(r *event.Raw) {
		r.LogLevel = &l
	}
}

// WithSystem overrides the framework system label.
func WithSystem(system string) MsgOption {
	return func(r *event.Raw) {
		r.System = system
	}
}

// WithSpider associates the event with a spider.
func WithSpider(name string) MsgOption {
	return func(r *event.Raw) {
		r.Spider = &event.Spider{Name: name}
	}
}

// WithRequestMeta associates the event with a request carrying meta.
func WithRequestMeta(meta map[string]any) MsgOption {
	return func(r *event.Raw) {
		r.Request = &event.Request{Meta: meta}
	}
}

// WithFormat sets a %(name)s style format and its arguments.
func WithFormat(format string, args map[string]any) MsgOption {
	return func(r *event.Raw) {
		r.Format = format
		r.FormatArgs = args
	}
}

// Msg publishes an informational framework event. An empty message publishes
// an event rendered from its format only.
func Msg(ctx context.Context, p *Publisher, message string, opts ...MsgOption) error {
	raw := event.Raw{System: event.FrameworkSystem}.WithLevel(severity.Info)
	if message != "" {
		raw.Message = []string{message}
	}
	for _, opt := range opts {
		opt(&raw)
	}
	return p.Publish(ctx, raw)
}

// Err publishes failure as an error event explained by why.
func Err(ctx context.Context, p *Publisher, failure error, why string, opts ...MsgOption) error {
	raw := event.Raw{
		IsError: true,
		System:  event.FrameworkSystem,
		Failure: failure,
		Why:     why,
	}.WithLevel(severity.Error)
	for _, opt := range opts {
		opt(&raw)
	}
	return p.Publish(ctx, raw)
}
