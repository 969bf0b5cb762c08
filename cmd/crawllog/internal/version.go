// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package internal // import "github.com/politepol/crawllog/cmd/crawllog/internal"

import (
	"github.com/spf13/cobra"

	"github.com/politepol/crawllog/internal/version"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Version of crawllog",
		Long:  "Prints the build information of the crawllog binary",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s version %s\n", cmd.Parent().Name(), version.Version)
			cmd.Print(version.Current().String())
		},
	}
}
