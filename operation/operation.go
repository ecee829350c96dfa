// Package operation runs metadata executors asynchronously on behalf of client sessions.
//
// A Manager plays the dispatcher role of a HiveServer2 session: Submit starts
// an executor in its own goroutine and returns a Handle, the client later
// fetches the result with Fetch and releases it with Close. Results live only
// until their operation is closed.
package operation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Standard errors returned by Manager.
var (
	// ErrOperationNotFound indicates the handle is unknown or already closed.
	ErrOperationNotFound = errors.New("operation not found")

	// ErrOperationCanceled is the result of an operation canceled before it completed.
	ErrOperationCanceled = errors.New("operation canceled")

	// ErrOperationClosed is returned to fetches racing with Close.
	ErrOperationClosed = errors.New("operation closed")

	// ErrTooManyOperations indicates the concurrent operation limit is reached.
	ErrTooManyOperations = errors.New("too many running operations")
)

// Handle identifies a submitted operation.
type Handle struct {
	id uuid.UUID
}

// NewHandle returns a handle with a fresh random identifier.
func NewHandle() Handle {
	return Handle{id: uuid.New()}
}

// ParseHandle parses the string form produced by Handle.String.
func ParseHandle(s string) (Handle, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Handle{}, fmt.Errorf("invalid operation handle %q: %w", s, err)
	}
	return Handle{id: id}, nil
}

func (h Handle) String() string {
	return h.id.String()
}

// IsZero reports whether the handle was never assigned.
func (h Handle) IsZero() bool {
	return h.id == uuid.Nil
}

// State is the lifecycle stage of an operation.
type State uint8

const (
	StateRunning State = iota
	StateFinished
	StateFailed
	StateCanceled
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "RUNNING"
	case StateFinished:
		return "FINISHED"
	case StateFailed:
		return "FAILED"
	case StateCanceled:
		return "CANCELED"
	case StateClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Terminal reports whether the operation has stopped running.
func (s State) Terminal() bool {
	return s != StateRunning
}
