package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeClientError   = "CLIENT_ERROR"
	CodeTransport     = "TRANSPORT_ERROR"
	CodeStatus        = "STATUS_ERROR"
	CodeAuthorization = "AUTHORIZATION_ERROR"
	CodeDecode        = "DECODE_ERROR"
	CodeResolve       = "RESOLVE_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
)

// NotAuthorizedMessage is surfaced when the service refuses a removal.
const NotAuthorizedMessage = "Not authorized to remove this comment!"

// ErrNotAuthorized matches any AuthorizationError through errors.Is.
var ErrNotAuthorized = stderrors.New(NotAuthorizedMessage)

type ClientError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

func NewClientError(message, code string, statusCode int, context map[string]any) *ClientError {
	return &ClientError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *ClientError) WithCause(cause error) *ClientError {
	e.Cause = cause
	return e
}

// TransportError reports that the exchange could not be opened or sent.
type TransportError struct {
	*ClientError
	Method string
	URL    string
}

func NewTransportError(message, method, url string, cause error) *TransportError {
	return &TransportError{
		ClientError: &ClientError{
			Message: message,
			Code:    CodeTransport,
			Context: map[string]any{
				"method": method,
				"url":    url,
			},
			Cause: cause,
		},
		Method: method,
		URL:    url,
	}
}

// StatusError reports a status the route does not accept. Error returns the
// raw response body unchanged.
type StatusError struct {
	*ClientError
	Body string
}

func NewStatusError(statusCode int, url, body string) *StatusError {
	return &StatusError{
		ClientError: &ClientError{
			Message:    body,
			Code:       CodeStatus,
			StatusCode: statusCode,
			Context: map[string]any{
				"url": url,
			},
		},
		Body: body,
	}
}

func (e *StatusError) Error() string {
	return e.Body
}

type AuthorizationError struct {
	*ClientError
	CommentID int64
}

func NewAuthorizationError(commentID int64) *AuthorizationError {
	return &AuthorizationError{
		ClientError: &ClientError{
			Message:    NotAuthorizedMessage,
			Code:       CodeAuthorization,
			StatusCode: 403,
			Context: map[string]any{
				"id": commentID,
			},
		},
		CommentID: commentID,
	}
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrNotAuthorized
}

type DecodeError struct {
	*ClientError
	Body string
}

func NewDecodeError(operation, body string, cause error) *DecodeError {
	return &DecodeError{
		ClientError: &ClientError{
			Message: fmt.Sprintf("failed to decode %s response", operation),
			Code:    CodeDecode,
			Context: map[string]any{
				"operation": operation,
			},
			Cause: cause,
		},
		Body: body,
	}
}

type ResolveError struct {
	*ClientError
	PageURL string
}

func NewResolveError(message, pageURL string) *ResolveError {
	return &ResolveError{
		ClientError: &ClientError{
			Message: message,
			Code:    CodeResolve,
			Context: map[string]any{
				"page_url": pageURL,
			},
		},
		PageURL: pageURL,
	}
}

type ValidationError struct {
	*ClientError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		ClientError: &ClientError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// WithCause keeps the concrete type so errors.As still finds a ValidationError.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.Cause = cause
	return e
}

// StatusCodeOf returns the HTTP status carried by err, or 0.
func StatusCodeOf(err error) int {
	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
