// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "mbcli/cli/internal/errors"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// Hint returns a follow-up suggestion for a failed client call, or "" when
// there is nothing useful to add. The whole error chain is inspected, so a
// rejected session behind a metadata failure still points at login.
func Hint(err error) string {
	switch {
	case apperrors.Is(err, apperrors.Unauthenticated):
		return "Run 'mbcli login' first."
	case apperrors.Is(err, apperrors.MissingCredentials):
		return "Set METABASE_URL, METABASE_USERNAME and METABASE_PASSWORD (a .env file works too)."
	}

	code := apperrors.StatusCode(err)
	switch {
	case code == http.StatusUnauthorized:
		return "The session was rejected. It may have expired; run 'mbcli login' again."
	case code == http.StatusForbidden:
		return "Your Metabase user lacks permission for this database."
	case code == http.StatusNotFound:
		return "The server does not know this database id."
	case code >= 500:
		return "Metabase reported an internal error; try again in a few minutes."
	}

	if apperrors.Is(err, apperrors.MetadataUnavailable) {
		return "Schema metadata could not be loaded; check the database id with 'mbcli databases'."
	}
	return ""
}

// Body trims and masks a response body for display, keeping at most limit bytes.
func Body(body string, limit int) string {
	b := strings.TrimSpace(Mask(body))
	if limit > 0 && len(b) > limit {
		b = b[:limit] + "..."
	}
	return b
}
