package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a 404 from the remote store. Callers that implement
// soft lookups convert it to a nil result instead of surfacing it.
var ErrNotFound = errors.New("resource not found")

// TransportError wraps a network or HTTP failure talking to the remote
// store. It is propagated verbatim to callers that surface errors.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: remote store returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
