// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metabase

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "mbcli/cli/internal/errors"
	"mbcli/cli/internal/logging"
)

// nativeQuery is the body of POST /api/dataset.
type nativeQuery struct {
	Database int    `json:"database"`
	Type     string `json:"type"`
	Native   struct {
		Query string `json:"query"`
	} `json:"native"`
}

// ExecuteSQL runs a native query through POST /api/dataset.
//
// A 202 response means the query was accepted and runs asynchronously; the
// body is returned unchanged and no polling happens. A 200 response carries the
// finished result, whose row and column counts are filled in. Any other status
// is an HTTPStatus error carrying the response body.
func (c *Client) ExecuteSQL(ctx context.Context, databaseID int, sql string) (*QueryResult, error) {
	token, err := c.requireToken()
	if err != nil {
		c.say("❌ Not authenticated")
		return nil, err
	}

	payload := nativeQuery{Database: databaseID, Type: "native"}
	payload.Native.Query = sql

	c.say("🔄 Executing SQL on database %d...", databaseID)
	resp, err := c.do(ctx, c.timeouts.Query, http.MethodPost, c.endpoints.Dataset, token, payload, "execute sql")
	if err != nil {
		c.say("❌ Error executing SQL: %s", logging.Mask(err.Error()))
		return nil, err
	}

	switch resp.status {
	case http.StatusAccepted:
		if !json.Valid(resp.body) {
			c.say("❌ Error executing SQL: response is not JSON")
			return nil, apperrors.New(apperrors.Decode, "execute sql: response is not JSON")
		}
		c.say("✅ Query executed successfully")
		return &QueryResult{StatusCode: resp.status, Accepted: true, Body: resp.body}, nil

	case http.StatusOK:
		var out struct {
			Data *QueryData `json:"data"`
		}
		if err := decode(resp, &out, "execute sql"); err != nil {
			c.say("❌ Error executing SQL: %v", err)
			return nil, err
		}
		c.say("✅ Query executed successfully")
		res := &QueryResult{StatusCode: resp.status, Body: resp.body, Data: out.Data}
		if out.Data != nil {
			res.Rows = len(out.Data.Rows)
			res.Columns = len(out.Data.Cols)
			c.say("   Rows: %d", res.Rows)
			c.say("   Columns: %d", res.Columns)
		}
		return res, nil

	default:
		c.say("❌ Query failed: %d", resp.status)
		c.say("   Error: %s", logging.Body(string(resp.body), 2000))
		return nil, apperrors.Status("execute sql", resp.status, string(resp.body))
	}
}
