// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrInputValidation  = errors.New("input validation failed")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrDataNotFound     = errors.New("data not found")
	ErrDatabaseError    = errors.New("database error")
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// StoreError represents an error from the scenario store.
type StoreError struct {
	Operation string
	Scenario  string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Scenario != "" {
		return fmt.Sprintf("store error [%s] %s: %v", e.Operation, e.Scenario, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation, scenario string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Scenario:  scenario,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
