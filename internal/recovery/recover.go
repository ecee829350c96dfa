// Package recovery contains panics raised by catalog service implementations.
// A panicking service call fails its own operation instead of the server.
package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ErrPanic is wrapped by every error produced from a recovered panic.
var ErrPanic = errors.New("panic recovered")

// PanicError describes a recovered panic.
type PanicError struct {
	Operation string
	Value     any
	Stack     []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Operation, e.Value)
}

func (e *PanicError) Unwrap() error { return ErrPanic }

// Guard runs fn and turns a panic into a *PanicError.
//
// Example:
//
//	err := recovery.Guard(logger, "CloseSession", func() error {
//	    return sessions.CloseSession(ctx, handle)
//	})
func Guard(logger *slog.Logger, operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(logger, operation, r)
		}
	}()

	return fn()
}

// GuardValue is Guard for functions returning a value.
// On panic the zero value is returned with the error.
func GuardValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = recovered(logger, operation, r)
		}
	}()

	return fn()
}

// Run executes fn for its side effects, logging and discarding any panic.
// Use for cleanup where no error can be returned.
func Run(logger *slog.Logger, operation string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			_ = recovered(logger, operation, r)
		}
	}()

	fn()
}

func recovered(logger *slog.Logger, operation string, r any) *PanicError {
	perr := &PanicError{Operation: operation, Value: r, Stack: debug.Stack()}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("Panic recovered",
		"operation", operation,
		"panic", r,
		"stack", string(perr.Stack),
	)
	return perr
}
