// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metabase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	apperrors "mbcli/cli/internal/errors"
)

var rule = strings.Repeat("=", 80)

// WriteSchemaSummary renders metadata as human-readable text.
func WriteSchemaSummary(w io.Writer, md *SchemaMetadata) {
	pterm.Fprintln(w)
	pterm.Fprintln(w, rule)
	pterm.Fprintln(w, "DATABASE SCHEMA: "+md.DatabaseName())
	pterm.Fprintln(w, rule)
	pterm.Fprintln(w)

	for _, t := range md.Tables {
		pterm.Fprintln(w, fmt.Sprintf("📋 %s.%s", t.Namespace(), t.Name))
		if label := t.Label(); label != t.Name {
			pterm.Fprintln(w, "   Display: "+label)
		}
		pterm.Fprintln(w, fmt.Sprintf("   Columns (%d):", len(t.Fields)))
		for _, f := range t.Fields {
			line := fmt.Sprintf("      • %-30s %-30s", f.Name, f.TypeDescriptor())
			if desc := f.DescriptionText(); desc != "" {
				line += " # " + desc
			}
			pterm.Fprintln(w, line)
		}
		pterm.Fprintln(w)
	}
}

// PrintSchemaSummary writes the summary of a database to the client's output.
// When metadata is unavailable it prints nothing further and returns a MetadataUnavailable error.
func (c *Client) PrintSchemaSummary(ctx context.Context, databaseID int) error {
	md, err := c.GetDatabaseMetadata(ctx, databaseID, false)
	if err != nil {
		return apperrors.Wrap(apperrors.MetadataUnavailable, "schema summary", err)
	}
	WriteSchemaSummary(c.out, md)
	return nil
}
