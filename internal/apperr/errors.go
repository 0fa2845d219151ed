package apperr

import (
	"context"
	"errors"
	"fmt"
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing document or version.
type NotFoundError struct {
	Resource string
	ID       string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a state conflict such as editing a deleted document.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AgentInvocationError wraps a failed or unparseable language-model call.
type AgentInvocationError struct {
	Agent string
	Err   error
}

func (e *AgentInvocationError) Error() string {
	return fmt.Sprintf("agent %s: %v", e.Agent, e.Err)
}

func (e *AgentInvocationError) Unwrap() error { return e.Err }

// PersistenceError wraps a storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PanicError is produced when a fan-out task panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func Agent(name string, err error) error {
	if err == nil {
		return nil
	}
	var existing *AgentInvocationError
	if errors.As(err, &existing) {
		return err
	}
	return &AgentInvocationError{Agent: name, Err: err}
}

func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsAgentInvocation(err error) bool {
	var target *AgentInvocationError
	return errors.As(err, &target)
}

// TypeName maps err onto the taxonomy name reported to clients.
func TypeName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "CancelledError"
	case IsValidation(err):
		return "ValidationError"
	case IsNotFound(err):
		return "NotFoundError"
	case IsConflict(err):
		return "ConflictError"
	case IsAgentInvocation(err):
		return "AgentInvocationError"
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return "PersistenceError"
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return "PanicError"
	}
	return "ProcessingError"
}
