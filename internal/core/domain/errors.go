package domain

import (
	"errors"
	"fmt"
)

// ValidationError is returned when caller-supplied data violates a domain rule.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConnectionError is returned when a backend cannot be reached.
type ConnectionError struct {
	Backend string
	Op      string
	Err     error
}

func NewConnectionError(backend, op string, err error) *ConnectionError {
	return &ConnectionError{Backend: backend, Op: op, Err: err}
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s backend unavailable during %s: %v", e.Backend, e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// AuthorizationError is returned when the caller lacks the role an action requires.
type AuthorizationError struct {
	Action        string
	Required      Role
	Authenticated bool
}

func (e *AuthorizationError) Error() string {
	if !e.Authenticated {
		return fmt.Sprintf("authentication required to %s", e.Action)
	}
	return fmt.Sprintf("%s role required to %s", e.Required, e.Action)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConnection reports whether err is a ConnectionError.
func IsConnection(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}
