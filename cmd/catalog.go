// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	databasesJSON bool
	schemaRefresh bool
	exportOutput  string
)

// databasesCmd lists the databases registered in Metabase.
var databasesCmd = &cobra.Command{
	Use:     "databases",
	Aliases: []string{"dbs"},
	Short:   "List databases registered in Metabase",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// With --json, status lines move to stderr so stdout stays machine-readable.
		var status io.Writer = os.Stdout
		if databasesJSON {
			status = os.Stderr
		}
		a, err := openSession(cmd.Context(), status)
		if err != nil {
			return err
		}
		dbs, err := a.client.ListDatabases(cmd.Context())
		if err != nil {
			return a.explain(err, "listing databases")
		}
		if databasesJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(dbs)
		}
		return nil
	},
}

// schemaCmd prints a readable summary of a database schema.
var schemaCmd = &cobra.Command{
	Use:   "schema <database-id>",
	Short: "Print the schema of a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseDatabaseID(args[0])
		if err != nil {
			return err
		}
		a, err := openSession(cmd.Context(), os.Stdout)
		if err != nil {
			return err
		}
		if schemaRefresh {
			if _, err := a.client.GetDatabaseMetadata(cmd.Context(), id, true); err != nil {
				return a.explain(err, "fetching metadata")
			}
		}
		if err := a.client.PrintSchemaSummary(cmd.Context(), id); err != nil {
			return a.explain(err, "fetching metadata")
		}
		return nil
	},
}

// exportCmd writes the normalized schema of a database to a JSON file.
var exportCmd = &cobra.Command{
	Use:   "export <database-id>",
	Short: "Export the schema of a database to JSON",
	Long: `The export command writes tables and columns of a database to a JSON file.
Without -o the file is named schema_db_<id>.json and placed in export_dir from
config.json, or in the working directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseDatabaseID(args[0])
		if err != nil {
			return err
		}
		a, err := openSession(cmd.Context(), os.Stdout)
		if err != nil {
			return err
		}
		if exportOutput == "" && a.cfg.ExportDir != "" {
			if err := os.MkdirAll(a.cfg.ExportDir, 0o755); err != nil {
				return err
			}
		}
		path := exportPath(exportOutput, a.cfg.ExportDir, id)
		if _, err := a.client.ExportSchema(cmd.Context(), id, path); err != nil {
			return a.explain(err, "fetching metadata")
		}
		return nil
	},
}

func init() {
	databasesCmd.Flags().BoolVar(&databasesJSON, "json", false, "Print the database list as JSON")
	schemaCmd.Flags().BoolVar(&schemaRefresh, "refresh", false, "Fetch metadata again even when cached")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default schema_db_<id>.json)")

	rootCmd.AddCommand(databasesCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(exportCmd)
}
