// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metabase

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mbcli/cli/internal/errors"
)

func TestBuildSchemaExport(t *testing.T) {
	exp := BuildSchemaExport(1, shop(t))

	assert.Equal(t, 1, exp.DatabaseID)
	assert.Equal(t, "Shop", exp.DatabaseName)
	require.Len(t, exp.Tables, 2)
	assert.Len(t, exp.Tables[0].Columns, 3)
	assert.Len(t, exp.Tables[1].Columns, 5)
	assert.Equal(t, 8, exp.ColumnCount())

	col := exp.Tables[0].Columns[1]
	assert.Equal(t, "customer_id", col.Name)
	assert.Equal(t, "Buyer", col.Description)
	require.NotNil(t, col.SemanticType)
	assert.Equal(t, "type/FK", *col.SemanticType)

	total := exp.Tables[0].Columns[2]
	assert.Nil(t, total.SemanticType)
	assert.Equal(t, "", total.Description)
}

func TestBuildSchemaExportDefaults(t *testing.T) {
	exp := BuildSchemaExport(9, &SchemaMetadata{})

	assert.Equal(t, "Unknown", exp.DatabaseName)
	b, err := exp.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"database_id":9,"database_name":"Unknown","tables":[]}`, string(b))
}

func TestExportSchemaFileShape(t *testing.T) {
	c, _, out := authedClient(t)
	path := filepath.Join(t.TempDir(), "schema_db_1.json")

	exp, err := c.ExportSchema(context.Background(), 1, path)
	require.NoError(t, err)
	assert.Len(t, exp.Tables, 2)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"database_id\": 1,")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Shop", doc["database_name"])

	tables := doc["tables"].([]any)
	require.Len(t, tables, 2)
	first := tables[0].(map[string]any)
	assert.ElementsMatch(t, []string{"id", "name", "schema", "display_name", "columns"}, keys(first))
	column := first["columns"].([]any)[0].(map[string]any)
	assert.ElementsMatch(t,
		[]string{"id", "name", "display_name", "base_type", "semantic_type", "description"},
		keys(column))
	assert.Len(t, tables[1].(map[string]any)["columns"], 5)

	assert.Contains(t, out.String(), "Schema exported to: "+path)
	assert.Contains(t, out.String(), "Tables: 2")
}

func TestExportSchemaOverwritesIdentically(t *testing.T) {
	c, f, _ := authedClient(t)
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"stale": true, "padding": "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"}`+"\n"+string(make([]byte, 4096))), 0o644))

	_, err := c.ExportSchema(context.Background(), 1, path)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = c.ExportSchema(context.Background(), 1, path)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotContains(t, string(first), "stale")
	assert.Equal(t, 1, f.count(metadataPath))
}

func TestExportSchemaWithoutMetadataWritesNothing(t *testing.T) {
	c, f, out := authedClient(t)
	f.mu.Lock()
	f.metadataStatus = http.StatusBadGateway
	f.mu.Unlock()
	path := filepath.Join(t.TempDir(), "schema.json")

	exp, err := c.ExportSchema(context.Background(), 1, path)
	assert.Nil(t, exp)
	assert.Equal(t, apperrors.MetadataUnavailable, apperrors.KindOf(err))
	assert.True(t, apperrors.Is(err, apperrors.HTTPStatus))
	assert.NoFileExists(t, path)
	assert.Contains(t, out.String(), "No metadata to export")
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
