// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package hostlog // import "github.com/politepol/crawllog/hostlog"

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/politepol/crawllog/event"
	"github.com/politepol/crawllog/sink"
)

// System is the label of events the runtime produces on its own behalf:
// routed warnings and captured standard output.
const System = "-"

const warningFormat = "%(filename)s:%(lineno)s: %(category)s: %(warning)s"

// Session is an observer started with StartLoggingWithObserver.
type Session struct {
	remove  func()
	capture *stdoutCapture

	once sync.Once
	err  error
}

// StartLoggingWithObserver registers o and makes the runtime the destination
// of process output:
//
//   - the process warning handler is replaced by one publishing warnings as
//     events of the "-" system, which framework sinks drop;
//   - with setStdout, lines written to os.Stdout are published as printed
//     events until the session stops.
//
// Callers that want warnings displayed as before must restore the handler
// themselves.
func (p *Publisher) StartLoggingWithObserver(o sink.Sink, setStdout bool) (*Session, error) {
	s := &Session{}
	if setStdout {
		c, err := captureStdout(p)
		if err != nil {
			return nil, fmt.Errorf("capture stdout: %w", err)
		}
		s.capture = c
	}
	s.remove = p.AddObserver(o)
	SetWarningHandler(p.publishWarning)
	return s, nil
}

func (p *Publisher) publishWarning(w Warning) {
	_ = p.Publish(context.Background(), event.Raw{
		System: System,
		Format: warningFormat,
		FormatArgs: map[string]any{
			"warning":  w.Message,
			"category": w.Category,
			"filename": w.File,
			"lineno":   w.Line,
		},
	})
}

// Stop ends stdout capture, publishing any buffered line, and unregisters the
// observer.
func (s *Session) Stop() error {
	s.once.Do(func() {
		if s.capture != nil {
			s.err = s.capture.stop()
		}
		s.remove()
	})
	return s.err
}

type stdoutCapture struct {
	orig *os.File
	r, w *os.File
	done chan struct{}
	// err is the read error of the capture goroutine, set before done closes.
	err error
}

func captureStdout(p *Publisher) (*stdoutCapture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	c := &stdoutCapture{orig: os.Stdout, r: r, w: w, done: make(chan struct{})}
	os.Stdout = w

	go c.forward(p)
	return c, nil
}

// forward publishes every line read from the pipe. Lines have no length limit.
// After a read error the pipe is still drained so writers never block.
func (c *stdoutCapture) forward(p *Publisher) {
	defer close(c.done)
	br := bufio.NewReader(c.r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			_ = p.Publish(context.Background(), event.Raw{
				System:  System,
				Message: []string{strings.TrimRight(line, "\r\n")},
				Printed: true,
			})
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) {
			c.err = fmt.Errorf("read captured stdout: %w", err)
			_, _ = io.Copy(io.Discard, c.r)
		}
		return
	}
}

func (c *stdoutCapture) stop() error {
	os.Stdout = c.orig
	err := c.w.Close()
	<-c.done
	return multierr.Combine(err, c.err, c.r.Close())
}
