package common

import (
	"errors"
	"fmt"
)

// ErrNotFound is a legitimate negative answer from a naming service or a
// verification backend. It is not a failure.
var ErrNotFound = errors.New("not found")

// ResolutionError is returned when a name could not be turned into an
// address, either because it does not exist or because the naming service
// could not be reached.
type ResolutionError struct {
	Name     string
	Endpoint string
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %q via %s: %s", e.Name, e.Endpoint, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// NameNotFound reports whether the naming service answered that the name
// doesn't exist, as opposed to being unreachable.
func (e *ResolutionError) NameNotFound() bool {
	return errors.Is(e.Err, ErrNotFound)
}

// TransportError wraps a failed remote call (node RPC or HTTP API).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}
