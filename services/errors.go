package services

import (
	"errors"
	"fmt"
)

// Service-level error taxonomy. Controllers map these onto HTTP statuses;
// store-level failures (store.ErrUnavailable, store.ErrFormat) pass through
// wrapped.
var (
	// ErrInvalidOrder indicates bad order input (zero/negative quantity,
	// negative price or deposit).
	ErrInvalidOrder = errors.New("invalid order")

	// ErrCustomerNotFound indicates no customer matches the given id.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInvalidImagePayload indicates a malformed data-URL image payload.
	ErrInvalidImagePayload = errors.New("invalid image payload")
)

func errInvalidOrderf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidOrder}, args...)...)
}
