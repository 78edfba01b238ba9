package container

import (
	"errors"
	"strconv"
)

var (
	// ErrPending is matched by a PendingError.
	ErrPending = errors.New("container: service still pending")

	// ErrTypeMismatch is matched by a TypeMismatchError.
	ErrTypeMismatch = errors.New("container: service type mismatch")
)

// PendingError is returned by Resolve when the factory chain for Name has
// not delivered a result before Resolve returned, typically because a
// factory completes from another goroutine. Use Service in that case.
type PendingError struct{ Name string }

func (e *PendingError) Error() string {
	return "container: service " + strconv.Quote(e.Name) + " did not complete synchronously"
}

func (e *PendingError) Unwrap() error { return ErrPending }

// TypeMismatchError is returned by ResolveAs when the resolved value is not
// of the requested type.
type TypeMismatchError struct {
	Name string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return "container: " + strconv.Quote(e.Name) + " resolved to " + e.Got + ", want " + e.Want
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
