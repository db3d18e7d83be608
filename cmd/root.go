// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for mbcli.
// It wires credentials, configuration and the keychain-backed session into a
// Metabase client and exposes the client operations as Cobra subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mbcli/cli/internal/config"
	"mbcli/cli/internal/logging"
)

var (
	showVersion bool
	debug       bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mbcli",
	Short: "Command-line client for the Metabase API",
	Long: `mbcli talks to a Metabase server: it lists databases, exports and prints
schema metadata, checks SQL against that metadata and runs native queries.

Credentials are read from METABASE_URL, METABASE_USERNAME and METABASE_PASSWORD
(a .env file in the working directory is loaded first). The session token is
kept in the OS keychain between invocations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			pterm.DisableColor()
		}
		if debug {
			pterm.EnableDebugMessages()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion(cmd.Context())
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// printVersion prints the CLI version and, when credentials are configured,
// the version of the Metabase server.
func printVersion(ctx context.Context) {
	fmt.Printf("mbcli %s\n", Version)

	// The server version needs only the URL, so missing username/password is fine here.
	creds, _ := config.LoadCredentials()
	if creds.URL == "" {
		return
	}
	a, err := newApp(creds, os.Stdout)
	if err != nil {
		return
	}
	serverVersion, err := a.client.ServerVersion(ctx)
	if err != nil {
		serverVersion = "unknown"
	}
	fmt.Printf("metabase %s\n", serverVersion)
}

// Execute runs the CLI application.
// Errors are printed masked, followed by a hint where one applies.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(logging.PresentError("mbcli", err))
		if hint := logging.Hint(err); hint != "" {
			pterm.Fprintln(os.Stderr, "   "+hint)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and Metabase server version information")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log HTTP requests and keychain access")
}
