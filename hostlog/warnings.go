// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package hostlog // import "github.com/politepol/crawllog/hostlog"

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Warning is a runtime warning such as a deprecation notice.
type Warning struct {
	Message  string
	Category string
	File     string
	Line     int
}

// String renders w as "file:line: category: message".
func (w Warning) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", w.File, w.Line, w.Category, w.Message)
}

// WarningHandler displays warnings. There is one per process.
type WarningHandler func(Warning)

var (
	warningMu      sync.Mutex
	warningHandler = StderrWarningHandler(os.Stderr)
)

// StderrWarningHandler returns the default handler, which writes one line per
// warning to w.
func StderrWarningHandler(w io.Writer) WarningHandler {
	return func(warn Warning) {
		fmt.Fprintln(w, warn.String())
	}
}

// SetWarningHandler installs h as the process warning handler and returns the
// handler it replaced. A nil h discards warnings.
func SetWarningHandler(h WarningHandler) (previous WarningHandler) {
	if h == nil {
		h = func(Warning) {}
	}
	warningMu.Lock()
	defer warningMu.Unlock()
	previous, warningHandler = warningHandler, h
	return previous
}

// CurrentWarningHandler returns the process warning handler.
func CurrentWarningHandler() WarningHandler {
	warningMu.Lock()
	defer warningMu.Unlock()
	return warningHandler
}

// ShowWarning displays warn through the current handler.
func ShowWarning(warn Warning) {
	CurrentWarningHandler()(warn)
}
