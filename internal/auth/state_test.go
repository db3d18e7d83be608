// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateMatches(t *testing.T) {
	st := State{ServerURL: "https://mb.example.com/", Username: "Ana@Example.com"}

	tests := []struct {
		url, user string
		want      bool
	}{
		{"https://mb.example.com", "ana@example.com", true},
		{"https://mb.example.com/", "ANA@EXAMPLE.COM", true},
		{"https://other.example.com", "ana@example.com", false},
		{"https://mb.example.com", "bob@example.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, st.Matches(tt.url, tt.user), "%s %s", tt.url, tt.user)
	}
}
