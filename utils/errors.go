package utils

import "fmt"

// Domain error taxonomy. Services return these; handlers map them to HTTP
// status codes in HandleServiceError.

// ValidationError signals missing or malformed required input.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// NotFoundError signals that a referenced document is absent.
type NotFoundError struct {
	Message string
}

func (e NotFoundError) Error() string { return e.Message }

// ExpiredError signals a promo code past its expiry.
type ExpiredError struct {
	Message string
}

func (e ExpiredError) Error() string { return e.Message }

// StateError signals an operation that is invalid for the entity's current
// state, e.g. cancelling a booking that already started.
type StateError struct {
	Message string
}

func (e StateError) Error() string { return e.Message }

// PermissionError signals an operation attempted without the required
// authorization.
type PermissionError struct {
	Message string
}

func (e PermissionError) Error() string { return e.Message }

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Message string
	Err     error
}

func (e PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e PersistenceError) Unwrap() error { return e.Err }
