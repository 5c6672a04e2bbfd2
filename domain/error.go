package domain

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when an entity with the given ID is not in the catalog
type NotFoundError struct {
	Entity string
	ID     int
}

// Error implements the error interface for NotFoundError
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: id=%d", e.Entity, e.ID)
}

// Is allows proper error type checking with errors.Is()
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// InvalidEntityError is returned when fixture data fails validation
type InvalidEntityError struct {
	Entity string
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface for InvalidEntityError
func (e *InvalidEntityError) Error() string {
	return fmt.Sprintf("invalid %s: field=%s, reason=%s, value=%v", e.Entity, e.Field, e.Reason, e.Value)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidEntityError) Is(target error) bool {
	_, ok := target.(*InvalidEntityError)
	return ok
}

// StateNotFoundError is returned by a StateStore when the key holds no value
type StateNotFoundError struct {
	Key string
}

// Error implements the error interface for StateNotFoundError
func (e *StateNotFoundError) Error() string {
	return fmt.Sprintf("state not found: key=%s", e.Key)
}

// Is allows proper error type checking with errors.Is()
func (e *StateNotFoundError) Is(target error) bool {
	_, ok := target.(*StateNotFoundError)
	return ok
}

// Helper functions for creating errors with context

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewInvalidEntityError creates a new InvalidEntityError
func NewInvalidEntityError(entity, field, reason string, value interface{}) error {
	return &InvalidEntityError{
		Entity: entity,
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// NewStateNotFoundError creates a new StateNotFoundError
func NewStateNotFoundError(key string) error {
	return &StateNotFoundError{Key: key}
}

// Type assertion helpers for use with errors.As()

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidEntityError checks if an error is an InvalidEntityError
func IsInvalidEntityError(err error) bool {
	var ie *InvalidEntityError
	return errors.As(err, &ie)
}

// IsStateNotFoundError checks if an error is a StateNotFoundError
func IsStateNotFoundError(err error) bool {
	var sn *StateNotFoundError
	return errors.As(err, &sn)
}
