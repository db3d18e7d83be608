// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mbcli/cli/internal/metabase"
)

var (
	querySkipValidation bool
	queryJSON           bool
	queryLimit          int
)

// validateCmd checks SQL against the schema of a database without running it.
var validateCmd = &cobra.Command{
	Use:   "validate <database-id> <sql>",
	Short: "Check that the tables referenced by a query exist",
	Long: `The validate command finds the tables named after FROM and JOIN and checks
them against the cached schema of the database. It is a heuristic: aliases,
CTEs, subqueries and quoted identifiers are not understood. When the schema
cannot be loaded the check is skipped and reported as passing.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseDatabaseID(args[0])
		if err != nil {
			return err
		}
		a, err := openSession(cmd.Context(), os.Stdout)
		if err != nil {
			return err
		}
		res := a.client.ValidateSQL(cmd.Context(), id, args[1])
		if !res.Valid {
			return fmt.Errorf("validation failed with %d issue(s)", len(res.Issues))
		}
		return nil
	},
}

// queryCmd runs a native SQL query.
var queryCmd = &cobra.Command{
	Use:   "query <database-id> <sql>",
	Short: "Run a native SQL query",
	Long: `The query command validates the SQL (unless --skip-validation is given) and
runs it through the Metabase dataset API. Finished results are shown as a table
or, with --json, as the raw response. A query the server accepted for
asynchronous execution is reported as accepted without waiting for it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseDatabaseID(args[0])
		if err != nil {
			return err
		}
		var status io.Writer = os.Stdout
		if queryJSON {
			status = os.Stderr
		}
		a, err := openSession(cmd.Context(), status)
		if err != nil {
			return err
		}

		sql := args[1]
		if !querySkipValidation {
			if res := a.client.ValidateSQL(cmd.Context(), id, sql); !res.Valid {
				return fmt.Errorf("query not executed: validation failed with %d issue(s)", len(res.Issues))
			}
		}

		result, err := a.client.ExecuteSQL(cmd.Context(), id, sql)
		if err != nil {
			return a.explain(err, "executing the query")
		}
		if queryJSON {
			return writeJSON(os.Stdout, result.Body)
		}
		if result.Accepted {
			pterm.Println("⏳ Query accepted for asynchronous execution; no rows yet")
			return nil
		}
		return renderRows(os.Stdout, result.Data, queryLimit)
	},
}

// writeJSON writes a raw JSON body indented by two spaces.
func writeJSON(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

// tableData converts query rows to table cells, header first, keeping at most
// limit rows (all rows when limit <= 0). It reports how many rows were cut.
func tableData(data *metabase.QueryData, limit int) (pterm.TableData, int) {
	header := make([]string, 0, len(data.Cols))
	for _, c := range data.Cols {
		header = append(header, c.Label())
	}
	rows := data.Rows
	cut := 0
	if limit > 0 && len(rows) > limit {
		cut = len(rows) - limit
		rows = rows[:limit]
	}

	td := pterm.TableData{header}
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			if v == nil {
				cells = append(cells, "NULL")
				continue
			}
			cells = append(cells, fmt.Sprint(v))
		}
		td = append(td, cells)
	}
	return td, cut
}

// renderRows prints query rows as a table.
func renderRows(w io.Writer, data *metabase.QueryData, limit int) error {
	if data == nil || len(data.Cols) == 0 {
		return nil
	}
	td, cut := tableData(data, limit)
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(td).Render(); err != nil {
		return err
	}
	if cut > 0 {
		pterm.Fprintln(w, fmt.Sprintf("… %d more row(s) not shown (use --limit or --json)", cut))
	}
	return nil
}

func init() {
	queryCmd.Flags().BoolVar(&querySkipValidation, "skip-validation", false, "Run the query without checking referenced tables")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print the raw JSON response")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 50, "Maximum rows to display (0 for all)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(queryCmd)
}
