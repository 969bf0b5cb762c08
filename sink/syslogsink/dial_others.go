// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows || plan9

package syslogsink // import "github.com/politepol/crawllog/sink/syslogsink"

// Dial always fails on this platform.
func Dial(string) (Writer, error) {
	return nil, ErrUnsupported
}
