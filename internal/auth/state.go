// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/json"
	"strings"
	"time"
)

// State describes the stored session: which server and account the token in
// the keychain was issued for.
type State struct {
	ServerURL string    `json:"server_url"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issued_at"`
}

// Matches reports whether the state belongs to serverURL and username.
// Server URLs compare without trailing slashes; usernames case-insensitively.
func (s State) Matches(serverURL, username string) bool {
	return strings.TrimRight(s.ServerURL, "/") == strings.TrimRight(serverURL, "/") &&
		strings.EqualFold(s.Username, username)
}

func encodeState(s State) ([]byte, error) {
	return json.Marshal(s)
}

func decodeState(b []byte) (State, error) {
	var s State
	err := json.Unmarshal(b, &s)
	return s, err
}
