package domain

import "errors"

// Sentinel errors forming the application error taxonomy. Services wrap these
// with %w so handlers can map them to HTTP status codes in one place.
var (
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrValidation = errors.New("validation failed")

	ErrNotFound = errors.New("not found")

	// ErrForbidden marks the wrong party attempting an action.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict covers date overlaps, duplicate submissions and state-machine
	// transitions attempted from the wrong state.
	ErrConflict = errors.New("conflict")

	// ErrPaymentFailed marks an authorization, capture or refund rejected by the
	// payments processor.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrDependencyUnavailable marks a storage or third-party call failure.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
