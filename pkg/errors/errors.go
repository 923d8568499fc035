package errors

import (
	"errors"
	"fmt"
)

// ErrSubmissionInProgress is returned when an order submission is requested
// while another one for the same session has not resolved yet.
var ErrSubmissionInProgress = errors.New("order submission already in progress")

// ValidationKind identifies why an address failed validation
type ValidationKind string

const (
	MissingField  ValidationKind = "MISSING_FIELD"
	InvalidMobile ValidationKind = "INVALID_MOBILE"
)

// ValidationError is a locally detected address problem. It never reaches the order store.
type ValidationError struct {
	Kind  ValidationKind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("missing required field: %s", e.Field)
	case InvalidMobile:
		return "mobile number must be exactly 10 digits"
	default:
		return "invalid address"
	}
}

// UserMessage is the text shown to the user for this failure
func (e *ValidationError) UserMessage() string {
	if e.Kind == InvalidMobile {
		return "Please enter a valid mobile number"
	}
	return "All fields are required"
}

// PersistenceError wraps a failure of the order store
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ErrInvalidStateTransition reports a state change the state machine does not allow
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrNotFound is returned by repositories when a record does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when no identity matches the presented credentials
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}
