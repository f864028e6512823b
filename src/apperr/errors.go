// Package apperr defines the error taxonomy shared by the budget engine, the
// auth layer, and the HTTP handlers. Handlers map these to status codes; the
// inner layers never touch HTTP.
package apperr

import (
	"errors"
	"fmt"
)

// ErrAuthentication is the single error returned for every authentication
// failure. Expired, revoked, malformed, and missing tokens all collapse into
// it so callers cannot probe which case they hit; the specific cause is only
// ever logged server-side.
var ErrAuthentication = errors.New("invalid or expired token")

// ValidationError reports input that is malformed or would violate a budget
// invariant. Its message is safe to return to the client.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an absent entity. Resource distinguishes which thing
// was missing (e.g. a budget versus a single category limit entry).
type NotFoundError struct {
	Resource string
	Msg      string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NotFound(resource, format string, args ...interface{}) error {
	return &NotFoundError{Resource: resource, Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports an attempt to create something that already exists.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports a valid identity with an insufficient role.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

func Forbidden(format string, args ...interface{}) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}
