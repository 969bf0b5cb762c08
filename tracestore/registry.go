// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package tracestore // import "github.com/politepol/crawllog/tracestore"

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrRegistryClosed is returned by Engines after Close.
var ErrRegistryClosed = errors.New("trace engine registry is closed")

// Engine is a database that trace rows are written to.
type Engine interface {
	Name() string
	Insert(ctx context.Context, rec Record) error
	Close() error
}

// Opener creates the engine for one connection string.
type Opener func(dsn string) (Engine, error)

// StoreOpener returns an Opener creating gorm backed stores.
func StoreOpener(opts Options) Opener {
	return func(dsn string) (Engine, error) {
		s, err := Open(dsn, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Registry lazily builds the set of trace engines, once, from the first
// non-empty list of connection strings it is given.
//
// Once built, the set is frozen: later lists are ignored even when they name
// other databases, so their rows go to the databases of the first list.
type Registry struct {
	open   Opener
	logger *zap.Logger

	mu      sync.Mutex
	built   bool
	closed  bool
	dsns    []string
	engines []Engine
}

// NewRegistry creates an empty registry using open to create engines.
func NewRegistry(open Opener, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{open: open, logger: logger}
}

// Engines returns the frozen engine set, building it from dsns on first use.
// Construction is serialized; a failed build leaves the registry empty so a
// later call can try again.
func (r *Registry) Engines(dsns []string) ([]Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	if r.built {
		if !slices.Equal(dsns, r.dsns) {
			r.logger.Debug("Trace engines already built, ignoring connection strings",
				zap.Int("requested", len(dsns)), zap.Int("engines", len(r.engines)))
		}
		return slices.Clone(r.engines), nil
	}
	if len(dsns) == 0 {
		return nil, nil
	}

	engines := make([]Engine, 0, len(dsns))
	for _, dsn := range dsns {
		e, err := r.open(dsn)
		if err != nil {
			for _, opened := range engines {
				err = multierr.Append(err, opened.Close())
			}
			return nil, fmt.Errorf("build trace engines: %w", err)
		}
		engines = append(engines, e)
	}

	r.built = true
	r.dsns = slices.Clone(dsns)
	r.engines = engines

	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = e.Name()
	}
	r.logger.Info("Trace engines built", zap.Strings("engines", names))
	return slices.Clone(engines), nil
}

// Built reports whether the engine set has been built.
func (r *Registry) Built() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.built
}

// Close closes every engine. The registry cannot be used afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var errs error
	for _, e := range r.engines {
		errs = multierr.Append(errs, e.Close())
	}
	r.engines = nil
	return errs
}
