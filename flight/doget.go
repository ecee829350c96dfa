package flight

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/hivemeta-go/operation"
)

// DoGet streams the result of an operation submitted with GetFlightInfo.
//
// The handler:
//  1. Decodes the ticket to get the operation handle
//  2. Checks the operation belongs to the caller's session, when one is given
//  3. Waits for the operation to complete
//  4. Streams its result set as a single record batch
//  5. Closes the operation, whether or not it succeeded
func (s *Server) DoGet(ticket *flight.Ticket, stream flight.FlightService_DoGetServer) error {
	ctx := EnrichContextMetadata(stream.Context())

	handle, data, err := DecodeTicket(ticket.GetTicket())
	if err != nil {
		s.logger.Error("Failed to decode ticket", "error", err)
		return status.Error(codes.InvalidArgument, err.Error())
	}

	if _, err := s.callerOperation(ctx, handle); err != nil {
		return err
	}

	s.logger.Debug("DoGet called", "type", data.Type, "operation", handle.String())

	defer func() {
		if err := s.ops.Close(handle); err != nil {
			s.logger.Debug("Operation already closed", "operation", handle.String())
		}
	}()

	rs, err := s.ops.Fetch(ctx, handle)
	if err != nil {
		return toStatus(err, string(data.Type)+" failed")
	}

	record, err := rs.Record(s.allocator)
	if err != nil {
		s.logger.Error("Result does not match its layout", "type", data.Type, "error", err)
		return status.Errorf(codes.Internal, "failed to build result: %v", err)
	}
	defer record.Release()

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(rs.Schema), ipc.WithAllocator(s.allocator))
	defer writer.Close()

	if err := writer.Write(record); err != nil {
		s.logger.Error("Failed to write record batch", "error", err)
		return status.Errorf(codes.Internal, "failed to write record: %v", err)
	}

	s.logger.Debug("DoGet completed",
		"type", data.Type,
		"operation", handle.String(),
		"rows", record.NumRows(),
	)
	return nil
}

// callerOperation returns the operation behind handle if the caller may use it.
// A caller naming a session sees only that session's operations; the
// operations of other sessions are reported as not found.
func (s *Server) callerOperation(ctx context.Context, handle operation.Handle) (operation.Info, error) {
	info, err := s.ops.Info(handle)
	if err != nil {
		return operation.Info{}, toStatus(err, "operation "+handle.String())
	}
	session, explicit, err := sessionFromContext(ctx)
	if err != nil {
		return operation.Info{}, status.Errorf(codes.InvalidArgument, "invalid session: %v", err)
	}
	if explicit && session != info.Session {
		return operation.Info{}, status.Errorf(codes.NotFound, "operation %s: %v", handle, operation.ErrOperationNotFound)
	}
	return info, nil
}
