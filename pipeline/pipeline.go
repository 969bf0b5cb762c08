// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline wires the text and syslog sinks into the host logging
// runtime from a logging configuration.
package pipeline // import "github.com/politepol/crawllog/pipeline"

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/politepol/crawllog/adapter"
	"github.com/politepol/crawllog/hostlog"
	"github.com/politepol/crawllog/internal/lifecycle"
	"github.com/politepol/crawllog/sink"
	"github.com/politepol/crawllog/sink/syslogsink"
	"github.com/politepol/crawllog/sink/textsink"
	"github.com/politepol/crawllog/sink/tracesink"
	"github.com/politepol/crawllog/stats"
	"github.com/politepol/crawllog/tracestore"
)

type options struct {
	stats    stats.Collector
	logger   *zap.Logger
	registry *tracestore.Registry
	syslog   syslogsink.Writer
	stderr   io.Writer
	now      func() time.Time
}

// Option configures Start.
type Option func(*options)

// WithStats counts emitted events per level on st. Both sinks count into it.
func WithStats(st stats.Collector) Option {
	return func(o *options) {
		o.stats = st
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry shares an existing trace engine registry. The pipeline does not
// close it.
func WithRegistry(reg *tracestore.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithSyslog writes syslog messages to w instead of dialing the local daemon,
// even when the configuration disables syslog. The pipeline does not close it.
func WithSyslog(w syslogsink.Writer) Option {
	return func(o *options) {
		o.syslog = w
	}
}

// WithStderr replaces standard error as the text destination used when no log
// file is configured.
func WithStderr(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// WithClock sets the clock of the text sink and of trace rows.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Pipeline is a started logging pipeline.
type Pipeline struct {
	logger *zap.Logger
	state  lifecycle.State

	session      *hostlog.Session
	removeSyslog func()
	closers      []io.Closer
}

// Start validates cfg, builds a text sink and a syslog sink, wraps both with
// event counting when WithStats is given and registers them on pub.
//
// Registering replaces the process warning handler; Start restores the handler
// that was installed before it was called.
func Start(pub *hostlog.Publisher, cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{
		logger: zap.NewNop(),
		stderr: os.Stderr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	enc, err := adapter.LookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	p := &Pipeline{logger: o.logger}

	out := o.stderr
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		p.closers = append(p.closers, f)
		out = f
	}

	reg := o.registry
	if reg == nil {
		reg = tracestore.NewRegistry(
			tracestore.StoreOpener(tracestore.Options{AutoMigrate: cfg.TraceAutoMigrate}),
			o.logger)
		p.closers = append(p.closers, reg)
	}

	var text sink.Sink = textsink.New(out, textsink.Settings{
		MinLevel: cfg.Level,
		Encoding: enc,
		Trace:    tracesink.New(reg, tracesink.WithLogger(o.logger), tracesink.WithClock(utc(o.now))),
		Now:      o.now,
	})

	var syslog sink.Sink
	w := o.syslog
	if w == nil && cfg.Syslog {
		dialed, err := syslogsink.Dial(syslogsink.Tag)
		if err != nil {
			o.logger.Warn("Syslog is unavailable, events will not be sent to it", zap.Error(err))
		} else {
			p.closers = append(p.closers, dialed)
			w = dialed
		}
	}
	if w != nil {
		syslog = syslogsink.New(w, syslogsink.Settings{MinLevel: cfg.Level, Encoding: enc})
	}

	if o.stats != nil {
		text = sink.NewCounting(text, o.stats)
		if syslog != nil {
			syslog = sink.NewCounting(syslog, o.stats)
		}
	}

	prev := hostlog.CurrentWarningHandler()
	session, err := pub.StartLoggingWithObserver(text, cfg.Stdout)
	if err != nil {
		return nil, multierr.Append(err, p.close())
	}
	p.session = session
	if syslog != nil {
		p.removeSyslog = pub.AddObserver(syslog)
	}
	hostlog.SetWarningHandler(prev)

	p.state.Start()
	o.logger.Info("Logging pipeline started",
		zap.Stringer("level", cfg.Level),
		zap.String("file", cfg.File),
		zap.Bool("syslog", syslog != nil),
		zap.Bool("stdout", cfg.Stdout))
	return p, nil
}

// StartFromConfig starts a pipeline when cfg enables logging. It returns a nil
// Pipeline and no error otherwise.
func StartFromConfig(pub *hostlog.Publisher, cfg Config, opts ...Option) (*Pipeline, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return Start(pub, cfg, opts...)
}

// Shutdown unregisters the sinks, stops stdout capture and closes the log
// file, the syslog connection and the trace engines owned by the pipeline.
// A nil Pipeline is valid.
func (p *Pipeline) Shutdown(context.Context) error {
	if p == nil || !p.state.Stop() {
		return nil
	}
	if p.removeSyslog != nil {
		p.removeSyslog()
	}
	err := p.session.Stop()
	err = multierr.Append(err, p.close())
	p.logger.Info("Logging pipeline stopped")
	return err
}

func (p *Pipeline) close() error {
	var errs error
	for i := len(p.closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, p.closers[i].Close())
	}
	p.closers = nil
	return errs
}

func utc(now func() time.Time) func() time.Time {
	return func() time.Time { return now().UTC() }
}
