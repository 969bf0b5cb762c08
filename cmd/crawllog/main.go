// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Program crawllog replays JSON-lines crawler events through the logging
// pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/politepol/crawllog/cmd/crawllog/internal"
)

func main() {
	cmd, err := internal.Command()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
