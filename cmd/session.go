// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mbcli/cli/internal/config"
	"mbcli/cli/internal/keychain"
)

// loginCmd authenticates with the configured credentials and stores the session.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Authenticate against Metabase and store the session",
	Long: `The login command always creates a new Metabase session with the credentials
from METABASE_URL, METABASE_USERNAME and METABASE_PASSWORD and stores the session
token in the OS keychain. Later commands reuse it until it expires.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		creds, err := config.LoadCredentials()
		if err != nil {
			return err
		}
		a, err := newApp(creds, os.Stdout)
		if err != nil {
			return err
		}
		if err := a.svc.Login(ctx); err != nil {
			return a.explain(err, "authenticating")
		}
		if u, err := a.client.CurrentUser(ctx); err == nil {
			pterm.Println(fmt.Sprintf("👋 Logged in as %s", u.Identifier()))
		}
		return nil
	},
}

// logoutCmd ends the Metabase session and removes it from the keychain.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the Metabase session and remove the stored token",
	Long: `The logout command asks the server to end the stored session (best effort)
and always removes the session token from the OS keychain.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Try to logout remotely (best effort - don't fail if offline or unconfigured)
		if creds, err := config.LoadCredentials(); err == nil {
			if a, err := newApp(creds, os.Stdout); err == nil {
				_ = a.svc.Logout(cmd.Context())
			}
		}

		// Always clear local session regardless of server response
		if km, err := keychain.GetManager(); err == nil {
			_ = km.ClearSession()
		}

		pterm.Println("✅ Session token has been removed")
		return nil
	},
}

// whoamiCmd shows the account behind the stored session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current Metabase user",
	Long: `The whoami command validates the stored session with the server and prints
the account it belongs to. An expired session is removed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := config.LoadCredentials()
		if err != nil {
			return err
		}
		a, err := newApp(creds, os.Stdout)
		if err != nil {
			return err
		}
		u, err := a.svc.WhoAmI(cmd.Context())
		if err != nil {
			return a.explain(err, "checking the session")
		}
		if u == nil {
			pterm.Println("🔒 You're not logged in yet!")
			pterm.Println("   Run 'mbcli login' to get started.")
			return nil
		}
		pterm.Println(fmt.Sprintf("👤 Current user: %s", u.Identifier()))
		if u.IsSuperuser {
			pterm.Println("   Role: admin")
		}
		pterm.Println(fmt.Sprintf("   Server: %s", a.client.BaseURL()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
