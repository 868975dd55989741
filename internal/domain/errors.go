package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart is returned when checkout is attempted with nothing resolvable in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmissionInFlight rejects a second order submission for the same scope.
	ErrSubmissionInFlight = errors.New("order submission already in progress")
	// ErrDuplicateOrder is returned by order writers when the order id already exists.
	ErrDuplicateOrder = errors.New("order already exists")
	// ErrUpstream marks a failure of an external collaborator such as the document store.
	ErrUpstream = errors.New("upstream failure")
	// ErrInvalidPostalCode is returned when a postal code fails validation.
	ErrInvalidPostalCode = errors.New("invalid postal code")
	// ErrUnauthenticated indicates a missing or rejected session/identity token.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError carries per-field messages for user input that was rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
