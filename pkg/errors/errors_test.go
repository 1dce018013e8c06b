package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusErrorReturnsRawBody(t *testing.T) {
	err := NewStatusError(404, "https://example.org/isso/id/5", `{"error":"not found"}`)

	assert.Equal(t, `{"error":"not found"}`, err.Error())
	assert.Equal(t, CodeStatus, err.Code)
	assert.Equal(t, 404, StatusCodeOf(fmt.Errorf("wrapped: %w", err)))
}

func TestAuthorizationErrorMatchesSentinel(t *testing.T) {
	var err error = NewAuthorizationError(7)

	require.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, NotAuthorizedMessage, err.Error())

	var authErr *AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, int64(7), authErr.CommentID)
}

func TestTransportErrorUnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewTransportError("request failed", "GET", "http://localhost/count", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "request failed: connection refused", err.Error())
	assert.Equal(t, 0, StatusCodeOf(err))
}

func TestClientErrorWithCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewClientError("outer", CodeClientError, 500, nil).WithCause(cause)

	assert.Equal(t, "outer: boom", err.Error())
	assert.Same(t, cause, stderrors.Unwrap(err))
}

func TestValidationErrorWithCauseKeepsType(t *testing.T) {
	cause := stderrors.New("invalid URL escape")
	var err error = NewValidationError("invalid endpoint", "endpoint", "http://%zz").WithCause(cause)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "endpoint", validationErr.Field)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invalid endpoint: invalid URL escape", err.Error())
}
