// Package apperrors defines error values that are reused across the
// repository, service and dispatch layers. These sentinel values allow
// higher layers such as handlers to distinguish between different failure
// scenarios. For example, ErrIntegrity indicates that a write would
// violate a uniqueness or foreign-key constraint (e.g. a duplicate
// company name, or a patient referencing a company that does not exist),
// while ErrNotFound signals that a lookup by id returned nothing.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrValidation is returned when input is missing or malformed.
// Handlers should translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

// ErrIntegrity is returned when a write would violate a uniqueness or
// referential-integrity constraint. Handlers should translate this into
// an HTTP 409 response.
var ErrIntegrity = errors.New("integrity constraint violated")

// ErrNotFound is returned when a referenced entity does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrUnauthenticated is returned when no valid session accompanies a
// request. Handlers should translate this into an HTTP 401 response.
var ErrUnauthenticated = errors.New("unauthenticated")

// Validationf wraps ErrValidation with a formatted reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Integrityf wraps ErrIntegrity with a formatted reason.
func Integrityf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrIntegrity, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted reason.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Unauthenticatedf wraps ErrUnauthenticated with a formatted reason.
func Unauthenticatedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnauthenticated, fmt.Sprintf(format, args...))
}

// DeliveryError records a per-company mail transport failure inside the
// dispatch workflow. It is aggregated into the workflow result instead of
// aborting the batch.
type DeliveryError struct {
	CompanyID string
	Reason    string
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to company %s failed: %s", e.CompanyID, e.Reason)
}
