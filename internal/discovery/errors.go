package discovery

import (
	"errors"
	"fmt"
)

// TransportError reports a socket level failure during discovery: socket
// creation, broadcast enable, address resolution, send or receive. It aborts
// the scan and no partial results are returned with it.
type TransportError struct {
	Op      string // Operation that failed (e.g., "send probe")
	Details string // Additional context (optional)
	Err     error  // Underlying error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("discovery transport: %s: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("discovery transport: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is or wraps a *TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
