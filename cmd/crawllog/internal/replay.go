// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package internal // import "github.com/politepol/crawllog/cmd/crawllog/internal"

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/politepol/crawllog/event"
	"github.com/politepol/crawllog/hostlog"
)

const (
	failureKey   = "failure"
	maxLineBytes = 1 << 20
)

// json keeps numbers as json.Number so snapshot ids above 2^53 stay exact.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// replay publishes every non-blank JSON line of in. A malformed line stops the
// replay; publishing errors are collected and the replay goes on.
func replay(ctx context.Context, pub *hostlog.Publisher, in io.Reader, logger *zap.Logger) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var errs error
	lineNo, published := 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		raw, err := decodeLine([]byte(line))
		if err != nil {
			return multierr.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
		}
		if err := pub.Publish(ctx, raw); err != nil {
			logger.Warn("Event could not be fully logged", zap.Int("line", lineNo), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
		}
		published++
	}
	logger.Debug("Replay finished", zap.Int("events", published))
	return multierr.Append(errs, scanner.Err())
}

func decodeLine(line []byte) (event.Raw, error) {
	var m map[string]any
	if err := json.Unmarshal(line, &m); err != nil {
		return event.Raw{}, err
	}
	var failure error
	if v, ok := m[failureKey]; ok {
		delete(m, failureKey)
		if s := cast.ToString(v); s != "" {
			failure = errors.New(s)
		}
	}
	raw, err := event.FromMap(m)
	if err != nil {
		return event.Raw{}, err
	}
	raw.Failure = failure
	return raw, nil
}
