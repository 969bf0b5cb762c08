// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows && !plan9

package syslogsink // import "github.com/politepol/crawllog/sink/syslogsink"

import "log/syslog"

// Dial connects to the local system log daemon.
func Dial(tag string) (Writer, error) {
	w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, tag)
	if err != nil {
		return nil, err
	}
	return w, nil
}
