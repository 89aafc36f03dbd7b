package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrDuplicateEmail      = errors.New("email already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotAuthenticated    = errors.New("authentication credentials were not provided")
	ErrTokenInvalid        = errors.New("access token not valid")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid or expired")
	ErrInvalidDateFormat   = errors.New("invalid date format")
	ErrDateOrder           = errors.New("initial date not before final date")
	ErrMalformedBody       = errors.New("malformed request body")
	ErrInvalidRequestLog   = errors.New("invalid request log")
)

// NonFieldErrors is the key cross-field messages are reported under.
const NonFieldErrors = "non_field_errors"

// Client-facing validation messages.
const (
	MsgRequired           = "This field is required."
	MsgBlank              = "This field may not be blank."
	MsgInvalidEmail       = "Enter a valid email address."
	MsgNotUnique          = "This field must be unique."
	MsgPasswordMismatch   = "Passwords don't match."
	MsgInvalidCredentials = "Invalid credentials."
)

// ValidationError maps request field names to the messages raised for them.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends msg to the messages recorded for field.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
