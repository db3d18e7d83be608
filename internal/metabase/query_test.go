// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metabase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mbcli/cli/internal/errors"
)

func TestExecuteSQLSynchronous(t *testing.T) {
	c, f, out := authedClient(t)
	f.setDataset(http.StatusOK, `{"status":"completed","row_count":2,"data":{"rows":[[1,"a"],[2,"b"]],"cols":[{"name":"id","base_type":"type/Integer"},{"name":"label","base_type":"type/Text"}]}}`)

	res, err := c.ExecuteSQL(context.Background(), 1, "SELECT id, label FROM orders")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, res.Accepted)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 2, res.Columns)
	require.NotNil(t, res.Data)
	assert.Equal(t, "label", res.Data.Cols[1].Name)
	assert.JSONEq(t, f.dataset(), string(res.Body))

	assert.Equal(t, map[string]any{
		"database": float64(1),
		"type":     "native",
		"native":   map[string]any{"query": "SELECT id, label FROM orders"},
	}, f.lastRequest())
	assert.Contains(t, out.String(), "Rows: 2")
	assert.Contains(t, out.String(), "Columns: 2")
}

func TestExecuteSQLAcceptedPassesBodyThrough(t *testing.T) {
	c, f, out := authedClient(t)
	f.setDataset(http.StatusAccepted, `{"status":"running", "data":{"rows":[[1]],"cols":[{"name":"x"}]}}`)

	res, err := c.ExecuteSQL(context.Background(), 1, "SELECT 1")
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, f.dataset(), string(res.Body))
	assert.Nil(t, res.Data)
	assert.Zero(t, res.Rows)
	assert.Zero(t, res.Columns)
	assert.Equal(t, 1, f.count("POST /api/dataset"))
	assert.NotContains(t, out.String(), "Rows:")
}

func TestExecuteSQLFailureCarriesBody(t *testing.T) {
	c, f, out := authedClient(t)
	f.setDataset(http.StatusBadRequest, `{"error":"Table \"NOPE\" not found"}`)

	res, err := c.ExecuteSQL(context.Background(), 1, "SELECT * FROM nope")
	assert.Nil(t, res)
	assert.Equal(t, apperrors.HTTPStatus, apperrors.KindOf(err))

	var e *apperrors.E
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusBadRequest, e.StatusCode)
	assert.Equal(t, f.dataset(), e.Body)
	assert.Contains(t, out.String(), "Query failed: 400")
}
