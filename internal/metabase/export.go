// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metabase

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	apperrors "mbcli/cli/internal/errors"
)

// SchemaExport is the normalized shape written by ExportSchema.
type SchemaExport struct {
	DatabaseID   int           `json:"database_id"`
	DatabaseName string        `json:"database_name"`
	Tables       []TableExport `json:"tables"`
}

// TableExport is one table of a SchemaExport.
type TableExport struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Schema      *string        `json:"schema"`
	DisplayName *string        `json:"display_name"`
	Columns     []ColumnExport `json:"columns"`
}

// ColumnExport is one column of a TableExport.
type ColumnExport struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	DisplayName  *string `json:"display_name"`
	BaseType     *string `json:"base_type"`
	SemanticType *string `json:"semantic_type"`
	Description  string  `json:"description"`
}

// ColumnCount returns the number of columns across all tables.
func (e *SchemaExport) ColumnCount() int {
	n := 0
	for _, t := range e.Tables {
		n += len(t.Columns)
	}
	return n
}

// BuildSchemaExport flattens metadata into the export shape. Order of tables
// and columns follows the metadata.
func BuildSchemaExport(databaseID int, md *SchemaMetadata) *SchemaExport {
	out := &SchemaExport{
		DatabaseID:   databaseID,
		DatabaseName: md.DatabaseName(),
		Tables:       make([]TableExport, 0, len(md.Tables)),
	}
	for _, t := range md.Tables {
		te := TableExport{
			ID:          t.ID,
			Name:        t.Name,
			Schema:      t.Schema,
			DisplayName: t.DisplayName,
			Columns:     make([]ColumnExport, 0, len(t.Fields)),
		}
		for _, f := range t.Fields {
			te.Columns = append(te.Columns, ColumnExport{
				ID:           f.ID,
				Name:         f.Name,
				DisplayName:  f.DisplayName,
				BaseType:     f.BaseType,
				SemanticType: f.SemanticType,
				Description:  f.DescriptionText(),
			})
		}
		out.Tables = append(out.Tables, te)
	}
	return out
}

// Marshal renders the export as JSON indented by two spaces.
func (e *SchemaExport) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportSchema writes the normalized schema of a database to path, replacing
// any existing file. When metadata cannot be obtained nothing is written.
func (c *Client) ExportSchema(ctx context.Context, databaseID int, path string) (*SchemaExport, error) {
	md, err := c.GetDatabaseMetadata(ctx, databaseID, false)
	if err != nil {
		c.say("❌ No metadata to export")
		return nil, apperrors.Wrap(apperrors.MetadataUnavailable, "export schema", err)
	}

	exp := BuildSchemaExport(databaseID, md)
	b, err := exp.Marshal()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Export, "encode schema", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		c.say("❌ Failed to write %s: %v", path, err)
		return nil, apperrors.Wrap(apperrors.Export, "write "+path, err)
	}

	c.say("")
	c.say("💾 Schema exported to: %s", path)
	c.say("   Tables: %d", len(exp.Tables))
	c.say("   Total columns: %d", exp.ColumnCount())
	return exp, nil
}
