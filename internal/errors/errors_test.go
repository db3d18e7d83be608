package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: stderrors.New("boom"), want: ""},
		{name: "direct", err: New(Unauthenticated, "not authenticated"), want: Unauthenticated},
		{name: "fmt wrapped", err: fmt.Errorf("listing: %w", Status("list databases", 500, "oops")), want: HTTPStatus},
		{name: "outermost wins", err: Wrap(MetadataUnavailable, "export", New(Transport, "dial")), want: MetadataUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsWalksChain(t *testing.T) {
	err := Wrap(MetadataUnavailable, "export", Wrap(Transport, "fetch metadata", stderrors.New("connection refused")))

	assert.True(t, Is(err, MetadataUnavailable))
	assert.True(t, Is(err, Transport))
	assert.False(t, Is(err, HTTPStatus))
	assert.False(t, Is(nil, Transport))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "unauthenticated: not authenticated", New(Unauthenticated, "not authenticated").Error())
	assert.Equal(t, "http_status: list databases (status 401)", Status("list databases", 401, "denied").Error())
	assert.Equal(t, "transport: fetch: dial tcp", Wrap(Transport, "fetch", stderrors.New("dial tcp")).Error())
	assert.Equal(t, 502, StatusCode(fmt.Errorf("x: %w", Status("run", 502, ""))))
	assert.Equal(t, 401, StatusCode(Wrap(MetadataUnavailable, "export schema", Status("fetch metadata", 401, ""))))
	assert.Equal(t, 0, StatusCode(Wrap(Transport, "fetch", stderrors.New("EOF"))))
}
