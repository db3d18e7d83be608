// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewManagerWithBackend(NewMemoryBackend())

	_, err := m.LoadSessionToken()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.SaveSession("tok-123", []byte(`{"server_url":"https://mb"}`)))

	token, err := m.LoadSessionToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	state, err := m.LoadSessionState()
	require.NoError(t, err)
	assert.JSONEq(t, `{"server_url":"https://mb"}`, string(state))

	require.NoError(t, m.ClearSession())
	_, err = m.LoadSessionToken()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.LoadSessionState()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadSessionTokenRejectsEmpty(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Set(KeySessionToken, ""))

	_, err := NewManagerWithBackend(b).LoadSessionToken()
	assert.EqualError(t, err, "empty session token")
}
