package services

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of a service error
type ErrorKind int

const (
	ErrKindValidation ErrorKind = iota
	ErrKindNotFound
	ErrKindConflict
	ErrKindAuthorization
	ErrKindInternal
)

// ServiceError is a standardized error for all engine operations
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error (invalid enum value,
// missing required reference)
func NewValidationError(message string) *ServiceError {
	return &ServiceError{Kind: ErrKindValidation, Message: message}
}

// NewNotFoundError creates a not-found error (entity missing or outside
// tenant scope)
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: ErrKindNotFound, Message: message}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *ServiceError {
	return &ServiceError{Kind: ErrKindConflict, Message: message}
}

// NewAuthorizationError creates an authorization error (targeting rule
// violation)
func NewAuthorizationError(message string) *ServiceError {
	return &ServiceError{Kind: ErrKindAuthorization, Message: message}
}

// NewInternalError wraps an unexpected failure
func NewInternalError(message string, err error) *ServiceError {
	return &ServiceError{Kind: ErrKindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err if it is a ServiceError, ErrKindInternal
// otherwise
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ErrKindInternal
}

// IsNotFound reports whether err is a not-found service error
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsValidation reports whether err is a validation service error
func IsValidation(err error) bool {
	return KindOf(err) == ErrKindValidation
}

// IsAuthorization reports whether err is an authorization service error
func IsAuthorization(err error) bool {
	return KindOf(err) == ErrKindAuthorization
}
