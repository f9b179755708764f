// Package service provides application-level services for managing shop
// items, display surfaces, settings and the public storefront.
package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNotSignedIn is returned when a write arrives without a signed-in user.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrNotSignedIn = errors.New("please log in again")

	// ErrUnknownItem is returned when a display references an item that is
	// not in the caller's store.
	ErrUnknownItem = errors.New("item is not in this store")

	// ErrGachaponEmpty is returned when spinning a machine with nothing in it.
	ErrGachaponEmpty = errors.New("the gachapon machine is empty")

	// ErrStoreNotFound is returned when a storefront reference matches no store.
	ErrStoreNotFound = errors.New("store not found")

	// ErrDrafterUnavailable is returned when description drafting is not configured.
	ErrDrafterUnavailable = errors.New("description drafting is not available")

	// ErrSlugTaken is returned when another store already uses a slug.
	ErrSlugTaken = errors.New("slug is already taken")
)

// ServiceError records the service and operation that failed.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}
