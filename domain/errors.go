package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error. Details carries validation
// violations for ErrCodeInvalid errors.
type Error struct {
	Code    ErrorCode
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s Violations: %s.", msg, strings.Join(e.Details, "|"))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewInvalidInputError reports rejected input together with the violations found.
func NewInvalidInputError(message string, violations ...string) *Error {
	return &Error{
		Code:    ErrCodeInvalid,
		Message: message,
		Details: append([]string(nil), violations...),
		Err:     ErrInvalidInput,
	}
}

// Common domain errors.
var (
	ErrInvalidInput          = NewError(ErrCodeInvalid, "invalid input")
	ErrIdentityMismatch      = NewError(ErrCodeConflict, "invalid entity id")
	ErrDegreeProgramNotFound = NewError(ErrCodeNotFound, "degree program not found")
	ErrMissingTranslation    = NewError(ErrCodeNotFound, "translation missing")
	ErrUnauthorized          = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload        = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Violations returns the validation violations carried by err, if any.
func Violations(err error) []string {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Details
	}
	return nil
}
