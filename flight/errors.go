package flight

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/hivemeta-go/auth"
	"github.com/hugr-lab/hivemeta-go/catalog"
	"github.com/hugr-lab/hivemeta-go/executor"
	"github.com/hugr-lab/hivemeta-go/operation"
)

var (
	// ErrInvalidCommand is returned when a descriptor or action body cannot be decoded.
	ErrInvalidCommand = errors.New("invalid metadata command")
	// ErrInvalidTicket is returned when a DoGet ticket cannot be decoded.
	ErrInvalidTicket = errors.New("invalid ticket")
)

// statusCode maps an error to the gRPC code reported to clients.
func statusCode(err error) codes.Code {
	switch {
	case errors.Is(err, catalog.ErrCatalogNotFound),
		errors.Is(err, catalog.ErrDatabaseNotFound),
		errors.Is(err, catalog.ErrSessionNotFound),
		errors.Is(err, operation.ErrOperationNotFound),
		errors.Is(err, operation.ErrOperationClosed):
		return codes.NotFound
	case errors.Is(err, ErrInvalidCommand),
		errors.Is(err, ErrInvalidTicket),
		errors.Is(err, executor.ErrUnknownOperation):
		return codes.InvalidArgument
	case errors.Is(err, operation.ErrOperationCanceled),
		errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, operation.ErrTooManyOperations):
		return codes.ResourceExhausted
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidAuthHeader),
		errors.Is(err, auth.ErrTokenIsEmpty):
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}

// toStatus converts err to a gRPC status error. Status errors pass through.
func toStatus(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Errorf(statusCode(err), "%s: %v", msg, err)
}
