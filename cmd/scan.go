// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mbcli/cli/internal/config"
)

const scanProbeSQL = "SELECT 1 as test"

// scanCmd walks through every client operation against the first database.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Authenticate, export and summarize the first database, then run a probe query",
	Long: `The scan command is an end-to-end check of a Metabase setup. It logs in,
lists databases, exports the schema of the first one to schema_db_<id>.json,
prints its summary, then validates and runs "SELECT 1 as test".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		creds, err := config.LoadCredentials()
		if err != nil {
			pterm.Println("❌ Missing credentials in .env file")
			return err
		}

		pterm.Println("🚀 Metabase API Client")
		pterm.Println("   URL: " + creds.URL)
		pterm.Println("   User: " + creds.Username)
		pterm.Println()

		a, err := newApp(creds, os.Stdout)
		if err != nil {
			return err
		}
		if err := a.svc.Login(ctx); err != nil {
			return a.explain(err, "authenticating")
		}

		dbs, err := a.client.ListDatabases(ctx)
		if err != nil {
			return a.explain(err, "listing databases")
		}
		if len(dbs) == 0 {
			pterm.Println("❌ No databases found")
			return nil
		}

		db := dbs[0]
		pterm.Println()
		pterm.Println(fmt.Sprintf("🔍 Analyzing database: %s (ID: %d)", db.Name, db.ID))

		// Export and summary failures are reported by the client and do not stop the scan.
		path := exportPath("", a.cfg.ExportDir, db.ID)
		if a.cfg.ExportDir != "" {
			_ = os.MkdirAll(a.cfg.ExportDir, 0o755)
		}
		_, _ = a.client.ExportSchema(ctx, db.ID, path)
		_ = a.client.PrintSchemaSummary(ctx, db.ID)

		rule := strings.Repeat("=", 80)
		pterm.Println()
		pterm.Println(rule)
		pterm.Println("Example: Execute SQL Query")
		pterm.Println(rule)

		if res := a.client.ValidateSQL(ctx, db.ID, scanProbeSQL); res.Valid {
			if _, err := a.client.ExecuteSQL(ctx, db.ID, scanProbeSQL); err != nil {
				return a.explain(err, "executing the query")
			}
			pterm.Println()
			pterm.Println("✅ All operations completed successfully!")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
