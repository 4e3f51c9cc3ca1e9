package application

import (
	"errors"
	"net/http"

	"github.com/oksasatya/go-social-network/pkg/response"
)

// Kind classifies an application failure. Each kind maps to one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindConflict
	KindNotFound
)

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain failure whose Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Details []response.FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind and message so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewValidationError(message string, details ...response.FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NewUnauthenticatedError(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewInternalError wraps an unexpected failure. Its message is never sent to clients.
func NewInternalError(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Client-facing messages.
const (
	MsgInvalidCredentials = "invalid email or password"
	MsgEmailTaken         = "email is already registered"
	MsgUsernameTaken      = "username is already registered"
	MsgUserNotFound       = "user not found"
	MsgPostNotFound       = "post not found"
	MsgContentRequired    = "content is required"
	MsgValidationFailed   = "validation failed"
)

// Sentinel-style values for errors.Is comparisons in callers and tests.
var (
	ErrInvalidCredentials = NewUnauthenticatedError(MsgInvalidCredentials)
	ErrUserNotFound       = NewNotFoundError(MsgUserNotFound)
	ErrPostNotFound       = NewNotFoundError(MsgPostNotFound)
)
