// Package errors defines typed errors with categories for user-friendly reporting.
// Every failing Metabase client operation returns an *E so callers can branch on
// the failure kind (missing session, transport, HTTP status, unavailable metadata)
// instead of matching on message text.
//
// The package supports wrapping underlying errors while maintaining error kind information.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Unauthenticated indicates a privileged call was made without a session token.
	Unauthenticated Kind = "unauthenticated"
	// Transport indicates the request never produced an HTTP response.
	Transport Kind = "transport"
	// HTTPStatus indicates the server answered with an unexpected status code.
	HTTPStatus Kind = "http_status"
	// Decode indicates the response body could not be decoded.
	Decode Kind = "decode"
	// MetadataUnavailable indicates schema metadata was neither cached nor fetchable.
	MetadataUnavailable Kind = "metadata_unavailable"
	// Export indicates the schema export file could not be written.
	Export Kind = "export"
	// MissingCredentials indicates the server URL, username or password is not configured.
	MissingCredentials Kind = "missing_credentials"
)

// E wraps an error with kind and human-friendly message.
// StatusCode and Body are set for HTTPStatus errors.
type E struct {
	Kind       Kind
	Message    string
	StatusCode int
	Body       string
	Err        error
}

func (e *E) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Status builds an HTTPStatus error carrying the response code and body text.
func Status(msg string, code int, body string) *E {
	return &E{Kind: HTTPStatus, Message: msg, StatusCode: code, Body: body}
}

// KindOf returns the kind of the outermost *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether any *E in err's chain has the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *E
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// StatusCode returns the first HTTP status found in err's chain, or 0.
func StatusCode(err error) int {
	for err != nil {
		var e *E
		if !stderrors.As(err, &e) {
			return 0
		}
		if e.StatusCode != 0 {
			return e.StatusCode
		}
		err = e.Err
	}
	return 0
}
