// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth manages the Metabase session across CLI invocations.
// The session token and the server/account it belongs to are kept in the OS
// keychain; the password is only ever read from the environment.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "mbcli/cli/internal/errors"
	"mbcli/cli/internal/keychain"
	"mbcli/cli/internal/metabase"
)

// Service centralizes session operations for one Metabase client and the
// keychain that persists its token.
type Service struct {
	client *metabase.Client
	km     *keychain.Manager
	now    func() time.Time
}

// NewService constructs a Service over client and km.
func NewService(client *metabase.Client, km *keychain.Manager) *Service {
	return &Service{client: client, km: km, now: time.Now}
}

// Client returns the underlying Metabase client.
func (s *Service) Client() *metabase.Client { return s.client }

// Restore installs the stored token on the client when it was issued for the
// client's server and account. It reports whether a token was installed.
func (s *Service) Restore() bool {
	token, err := s.km.LoadSessionToken()
	if err != nil {
		return false
	}
	raw, err := s.km.LoadSessionState()
	if err != nil {
		return false
	}
	st, err := decodeState(raw)
	if err != nil || !st.Matches(s.client.BaseURL(), s.client.Username()) {
		return false
	}
	s.client.SetToken(token)
	return true
}

// EnsureSession reuses a stored session or authenticates and stores a new one.
// A reused token is not checked against the server.
func (s *Service) EnsureSession(ctx context.Context) error {
	if s.Restore() {
		return nil
	}
	return s.Login(ctx)
}

// Login authenticates with the client credentials and stores the new session.
func (s *Service) Login(ctx context.Context) error {
	if err := s.client.Authenticate(ctx); err != nil {
		return err
	}
	state, err := encodeState(State{
		ServerURL: s.client.BaseURL(),
		Username:  s.client.Username(),
		IssuedAt:  s.now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.km.SaveSession(s.client.Token(), state)
}

// WhoAmI validates the stored session and returns the current user.
// It returns (nil, nil) when there is no usable session; a session rejected by
// the server is cleared locally.
func (s *Service) WhoAmI(ctx context.Context) (*metabase.User, error) {
	if !s.client.Authenticated() && !s.Restore() {
		return nil, nil
	}
	u, err := s.client.CurrentUser(ctx)
	if err == nil {
		return u, nil
	}
	if apperrors.StatusCode(err) == http.StatusUnauthorized {
		s.client.SetToken("")
		_ = s.km.ClearSession()
		return nil, nil
	}
	return nil, err
}

// Logout ends the session on the server (best effort) and clears local state.
func (s *Service) Logout(ctx context.Context) error {
	var remote error
	if s.client.Authenticated() || s.Restore() {
		remote = s.client.Logout(ctx)
	}
	if err := s.km.ClearSession(); err != nil {
		return errors.Join(remote, err)
	}
	return remote
}
