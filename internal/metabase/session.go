// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metabase

import (
	"context"
	"net/http"

	apperrors "mbcli/cli/internal/errors"
	"mbcli/cli/internal/logging"
)

// Authenticate calls POST /api/session with the client credentials and stores
// the returned session token. On any failure the token is left unset.
// The token is never refreshed automatically.
func (c *Client) Authenticate(ctx context.Context) error {
	creds := map[string]string{
		"username": c.username,
		"password": c.password,
	}
	resp, err := c.do(ctx, c.timeouts.Auth, http.MethodPost, c.endpoints.Session, "", creds, "authenticate")
	if err != nil {
		c.say("❌ Connection error: %s", logging.Mask(err.Error()))
		return err
	}
	if resp.status != http.StatusOK {
		c.say("❌ Authentication failed: %d", resp.status)
		c.say("   Response: %s", logging.Body(string(resp.body), 500))
		return apperrors.Status("authenticate", resp.status, string(resp.body))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := decode(resp, &out, "authenticate"); err != nil {
		c.say("❌ Connection error: %v", err)
		return err
	}
	if out.ID == "" {
		c.say("❌ Authentication failed: no session id in response")
		return apperrors.New(apperrors.Decode, "authenticate: empty session id")
	}

	c.SetToken(out.ID)
	c.say("✅ Authentication successful! Token: %s", logging.ShortToken(out.ID))
	return nil
}

// Authenticated reports whether a session token is held.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Token returns the current session token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a session token obtained earlier, e.g. one persisted by the CLI.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Logout calls DELETE /api/session and drops the token and the schema cache.
// Local state is cleared even when the remote call fails.
func (c *Client) Logout(ctx context.Context) error {
	token, err := c.requireToken()
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, c.timeouts.Auth, http.MethodDelete, c.endpoints.Session, token, nil, "logout")

	c.mu.Lock()
	c.token = ""
	c.cache = make(map[int]*SchemaMetadata)
	c.mu.Unlock()

	if err != nil {
		return err
	}
	if resp.status != http.StatusOK && resp.status != http.StatusNoContent {
		return apperrors.Status("logout", resp.status, string(resp.body))
	}
	return nil
}

// CurrentUser calls GET /api/user/current.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	token, err := c.requireToken()
	if err != nil {
		c.say("❌ Not authenticated")
		return nil, err
	}
	resp, err := c.do(ctx, c.timeouts.Auth, http.MethodGet, c.endpoints.CurrentUser, token, nil, "current user")
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, apperrors.Status("current user", resp.status, string(resp.body))
	}
	var u User
	if err := decode(resp, &u, "current user"); err != nil {
		return nil, err
	}
	return &u, nil
}

// ServerVersion calls GET /api/session/properties and returns the version tag.
// No authentication required. It returns "unknown" when the server does not report one.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, c.timeouts.Auth, http.MethodGet, c.endpoints.SessionProperties, c.Token(), nil, "server version")
	if err != nil {
		return "", err
	}
	if resp.status != http.StatusOK {
		return "unknown", nil
	}
	var out struct {
		Version struct {
			Tag string `json:"tag"`
		} `json:"version"`
	}
	if err := decode(resp, &out, "server version"); err != nil {
		return "", err
	}
	if out.Version.Tag == "" {
		return "unknown", nil
	}
	return out.Version.Tag, nil
}
