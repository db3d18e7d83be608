// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metabase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	apperrors "mbcli/cli/internal/errors"
	"mbcli/cli/internal/logging"
)

// ListDatabases calls GET /api/database. The endpoint returns the full set in
// one response; no pagination is attempted.
func (c *Client) ListDatabases(ctx context.Context) ([]Database, error) {
	token, err := c.requireToken()
	if err != nil {
		c.say("❌ Not authenticated. Call Authenticate first.")
		return nil, err
	}

	resp, err := c.do(ctx, c.timeouts.Auth, http.MethodGet, c.endpoints.Databases, token, nil, "list databases")
	if err != nil {
		c.say("❌ Error listing databases: %s", logging.Mask(err.Error()))
		return nil, err
	}
	if resp.status != http.StatusOK {
		c.say("❌ Failed to list databases: %d", resp.status)
		return nil, apperrors.Status("list databases", resp.status, string(resp.body))
	}

	var out struct {
		Data []Database `json:"data"`
	}
	if err := decode(resp, &out, "list databases"); err != nil {
		c.say("❌ Error listing databases: %v", err)
		return nil, err
	}
	if out.Data == nil {
		out.Data = []Database{}
	}

	c.say("")
	c.say("📊 Found %d database(s):", len(out.Data))
	for _, db := range out.Data {
		c.say("   - ID: %d | Name: %s | Engine: %s", db.ID, db.Name, db.Engine)
	}
	return out.Data, nil
}

// GetDatabaseMetadata returns schema metadata for a database.
// A cached entry is returned without any request unless forceRefresh is set.
// On a successful fetch the entry is stored (replacing any previous one);
// a failed fetch never touches the cache.
func (c *Client) GetDatabaseMetadata(ctx context.Context, databaseID int, forceRefresh bool) (*SchemaMetadata, error) {
	token, err := c.requireToken()
	if err != nil {
		c.say("❌ Not authenticated")
		return nil, err
	}

	if !forceRefresh {
		if md := c.cached(databaseID); md != nil {
			c.say("📦 Using cached schema for database %d", databaseID)
			return md, nil
		}
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.fetches.DoChan(strconv.Itoa(databaseID), func() (any, error) {
		if !forceRefresh {
			if md := c.cached(databaseID); md != nil {
				return md, nil
			}
		}
		return c.fetchMetadata(fetchCtx, token, databaseID)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*SchemaMetadata), nil
	case <-ctx.Done():
		return nil, apperrors.Wrap(apperrors.Transport, "fetch metadata", ctx.Err())
	}
}

// cached returns the cache entry for databaseID, or nil.
func (c *Client) cached(databaseID int) *SchemaMetadata {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache[databaseID]
}

// fetchMetadata issues the metadata request and stores the result on success.
func (c *Client) fetchMetadata(ctx context.Context, token string, databaseID int) (*SchemaMetadata, error) {
	c.say("🔍 Fetching schema for database %d...", databaseID)

	path := fmt.Sprintf(c.endpoints.Metadata, databaseID)
	resp, err := c.do(ctx, c.timeouts.Metadata, http.MethodGet, path, token, nil, "fetch metadata")
	if err != nil {
		c.say("❌ Error: %s", logging.Mask(err.Error()))
		return nil, err
	}
	if resp.status != http.StatusOK {
		c.say("❌ Failed: %d - %s", resp.status, logging.Body(string(resp.body), 500))
		return nil, apperrors.Status("fetch metadata", resp.status, string(resp.body))
	}

	var md SchemaMetadata
	if err := decode(resp, &md, "fetch metadata"); err != nil {
		c.say("❌ Error: %v", err)
		return nil, err
	}
	if md.DatabaseID == 0 {
		md.DatabaseID = databaseID
	}

	c.mu.Lock()
	c.cache[databaseID] = &md
	c.mu.Unlock()

	c.say("✅ Retrieved %d tables", len(md.Tables))
	c.say("   Total columns: %d", md.ColumnCount())
	return &md, nil
}
