// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package metabase implements a client for the Metabase HTTP API.
// It owns the session token, dispatches requests, keeps an in-memory schema
// cache per database and performs heuristic SQL validation against that cache.
// Every operation reports a human-readable status line to the client's output
// and returns failures as *errors.E values.
package metabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/sync/singleflight"

	apperrors "mbcli/cli/internal/errors"
	"mbcli/cli/internal/logging"
)

// SessionHeader carries the session token on authenticated requests.
const SessionHeader = "X-Metabase-Session"

// Endpoints contains REST API endpoint paths.
type Endpoints struct {
	Session           string // e.g., "/api/session"
	SessionProperties string // e.g., "/api/session/properties"
	Databases         string // e.g., "/api/database"
	Metadata          string // printf pattern taking the database id
	Dataset           string // e.g., "/api/dataset"
	CurrentUser       string // e.g., "/api/user/current"
}

// DefaultEndpoints returns the paths served by every Metabase release.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Session:           "/api/session",
		SessionProperties: "/api/session/properties",
		Databases:         "/api/database",
		Metadata:          "/api/database/%d/metadata",
		Dataset:           "/api/dataset",
		CurrentUser:       "/api/user/current",
	}
}

// Timeouts bounds each class of request.
type Timeouts struct {
	// Auth covers session and listing calls.
	Auth time.Duration
	// Metadata covers schema fetches, which carry large payloads.
	Metadata time.Duration
	// Query covers dataset execution.
	Query time.Duration
}

// DefaultTimeouts returns 10s/30s/60s.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Auth:     10 * time.Second,
		Metadata: 30 * time.Second,
		Query:    60 * time.Second,
	}
}

// Client talks to one Metabase server with one set of credentials.
// It is safe for concurrent use.
type Client struct {
	// baseURL is the server root without trailing slash (e.g., "https://metabase.example.com")
	baseURL  string
	username string
	password string

	endpoints Endpoints
	timeouts  Timeouts
	// client is the underlying HTTP client; per-request deadlines come from Timeouts
	client *http.Client
	out    io.Writer
	log    *slog.Logger

	// mu guards token and cache
	mu    sync.RWMutex
	token string
	// cache stores schema metadata keyed by database id for the client's lifetime
	cache map[int]*SchemaMetadata
	// fetches coalesces concurrent metadata requests for the same database id
	fetches singleflight.Group
}

// Option customizes a Client.
type Option func(*Client)

// WithOutput sets where status lines are written. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Client) { c.out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeouts overrides the per-class request timeouts. Zero values keep the defaults.
func WithTimeouts(t Timeouts) Option {
	return func(c *Client) {
		if t.Auth > 0 {
			c.timeouts.Auth = t.Auth
		}
		if t.Metadata > 0 {
			c.timeouts.Metadata = t.Metadata
		}
		if t.Query > 0 {
			c.timeouts.Query = t.Query
		}
	}
}

// New creates a client for the server at baseURL. No request is made until
// Authenticate is called.
func New(baseURL, username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		username:  username,
		password:  password,
		endpoints: DefaultEndpoints(),
		timeouts:  DefaultTimeouts(),
		client:    &http.Client{},
		out:       os.Stdout,
		log:       logging.Discard(),
		cache:     make(map[int]*SchemaMetadata),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Username returns the account the client authenticates as.
func (c *Client) Username() string { return c.username }

// say writes one status line to the client's output.
func (c *Client) say(format string, args ...any) {
	pterm.Fprintln(c.out, fmt.Sprintf(format, args...))
}

// setStandardHeaders adds headers common to every request.
func (c *Client) setStandardHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(SessionHeader, token)
	}
}

// response is a fully read HTTP response.
type response struct {
	status int
	body   []byte
}

// do sends one request bounded by timeout and reads the whole body.
// A nil payload sends no body. Transport and read failures come back as Transport errors.
func (c *Client) do(ctx context.Context, timeout time.Duration, method, path, token string, payload any, op string) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Transport, op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Transport, op, err)
	}
	c.setStandardHeaders(req, token)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "error", logging.Mask(err.Error()))
		return nil, apperrors.Wrap(apperrors.Transport, op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Transport, op, err)
	}
	c.log.Debug("request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(b),
		"duration", time.Since(start).Round(time.Millisecond).String())
	return &response{status: resp.StatusCode, body: b}, nil
}

// requireToken returns the current token or an Unauthenticated error.
func (c *Client) requireToken() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return "", apperrors.New(apperrors.Unauthenticated, "not authenticated, call Authenticate first")
	}
	return c.token, nil
}

// decode unmarshals a response body into v, wrapping failures as Decode errors.
func decode(r *response, v any, op string) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return apperrors.Wrap(apperrors.Decode, op, err)
	}
	return nil
}
