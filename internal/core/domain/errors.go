package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own account")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

// Entity lookups; both match ErrNotFound
var (
	ErrUserNotFound error = notFoundError("user not found")
	ErrLoanNotFound error = notFoundError("loan not found")
)

// FieldError describes one offending input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field that failed validation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field was added
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// TransitionError reports a status precondition that was not met
type TransitionError struct {
	LoanID   string
	Target   LoanStatus
	Expected []LoanStatus
	Actual   LoanStatus
}

func (e *TransitionError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, s := range e.Expected {
		expected[i] = string(s)
	}
	return fmt.Sprintf("loan %s cannot become %s: expected status %s, got %s",
		e.LoanID, e.Target, strings.Join(expected, " or "), e.Actual)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// AuthorizationError is a deny for an authenticated identity
type AuthorizationError struct {
	Action Action
	Reason DenyReason
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("forbidden: %s (%s)", e.Action, e.Reason)
}

func (e *AuthorizationError) Is(target error) bool { return target == ErrForbidden }
