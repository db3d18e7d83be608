// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metabase

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mbcli/cli/internal/errors"
	"mbcli/cli/internal/logging"
)

func strPtr(s string) *string { return &s }

func TestFieldTypeDescriptor(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{name: "base only", field: Field{BaseType: strPtr("type/Text")}, want: "Text"},
		{name: "with semantic", field: Field{BaseType: strPtr("type/Integer"), SemanticType: strPtr("type/PK")}, want: "Integer [PK]"},
		{name: "missing base", field: Field{}, want: "unknown"},
		{name: "empty semantic", field: Field{BaseType: strPtr("type/Float"), SemanticType: strPtr("")}, want: "Float"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.TypeDescriptor())
		})
	}
}

func TestWriteSchemaSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSchemaSummary(&buf, shop(t))
	out := buf.String()

	assert.Contains(t, out, "DATABASE SCHEMA: Shop")
	assert.Contains(t, out, strings.Repeat("=", 80))
	assert.Contains(t, out, "📋 public.orders\n   Display: Orders\n   Columns (3):")
	assert.NotContains(t, out, "Display: customers")
	assert.Contains(t, out, "      • customer_id                    Integer [FK]                   # Buyer\n")
	assert.Contains(t, out, "      • total                          Float                         \n")
	assert.Contains(t, out, "   Columns (5):")
}

func TestWriteSchemaSummaryDefaultsNamespace(t *testing.T) {
	var buf bytes.Buffer
	WriteSchemaSummary(&buf, &SchemaMetadata{Tables: []Table{{Name: "events"}}})

	assert.Contains(t, buf.String(), "DATABASE SCHEMA: Unknown")
	assert.Contains(t, buf.String(), "📋 public.events\n   Columns (0):")
}

func TestPrintSchemaSummary(t *testing.T) {
	c, _, out := authedClient(t)

	require.NoError(t, c.PrintSchemaSummary(context.Background(), 1))
	assert.Contains(t, out.String(), "DATABASE SCHEMA: Shop")
}

func TestPrintSchemaSummaryUnavailable(t *testing.T) {
	c, f, out := authedClient(t)
	f.mu.Lock()
	f.metadataStatus = http.StatusServiceUnavailable
	f.mu.Unlock()

	err := c.PrintSchemaSummary(context.Background(), 1)
	assert.Equal(t, apperrors.MetadataUnavailable, apperrors.KindOf(err))
	assert.NotContains(t, out.String(), "DATABASE SCHEMA")
}

func TestPrintSchemaSummaryExpiredSessionPointsAtLogin(t *testing.T) {
	c, _, _ := authedClient(t)
	c.SetToken("expired-token")

	err := c.PrintSchemaSummary(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.MetadataUnavailable, apperrors.KindOf(err))
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
	assert.Equal(t, "The session was rejected. It may have expired; run 'mbcli login' again.", logging.Hint(err))

	_, err = c.ExportSchema(context.Background(), 1, t.TempDir()+"/schema.json")
	assert.Contains(t, logging.Hint(err), "run 'mbcli login' again")
}
