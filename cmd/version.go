// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import "github.com/spf13/cobra"

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

// versionCmd prints the same information as the root --version flag.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI and Metabase server version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
