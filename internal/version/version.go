// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information of the crawllog binary.
package version // import "github.com/politepol/crawllog/internal/version"

import (
	"bytes"
	"fmt"
	"runtime"
)

const buildDev = "dev"

// Version variable will be replaced at link time.
var Version = "latest"

// GitHash variable will be replaced at link time.
var GitHash = "<NOT PROPERLY GENERATED>"

// BuildType should be one of (dev, release).
var BuildType = buildDev

// Info has properties about the build and runtime.
type Info [][2]string

// Current returns the build information of the running binary.
func Current() Info {
	return Info{
		{"Version", Version},
		{"GitHash", GitHash},
		{"BuildType", BuildType},
		{"Goversion", runtime.Version()},
		{"OS", runtime.GOOS},
		{"Architecture", runtime.GOARCH},
	}
}

// String returns one left aligned "key value" line per property.
func (i Info) String() string {
	buf := new(bytes.Buffer)
	width := 0
	for _, prop := range i {
		if n := len(prop[0]); n > width {
			width = n
		}
	}
	for _, prop := range i {
		fmt.Fprintf(buf, "%*s %s\n", -width, prop[0], prop[1])
	}
	return buf.String()
}
