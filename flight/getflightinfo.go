package flight

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GetFlightInfo submits a metadata operation and returns its ticket.
//
// The descriptor must be of CMD type holding a MessagePack Command.
// Returns FlightInfo with:
//   - Schema: the result layout of the operation
//   - Ticket: names the submitted operation; redeem it with DoGet
//
// The operation runs in the background; DoGet waits for its result.
func (s *Server) GetFlightInfo(ctx context.Context, desc *flight.FlightDescriptor) (*flight.FlightInfo, error) {
	ctx = EnrichContextMetadata(ctx)

	cmd, err := DecodeCommand(desc)
	if err != nil {
		s.logger.Debug("Invalid GetFlightInfo descriptor", "error", err)
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	session, _, err := sessionFromContext(ctx)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid session: %v", err)
	}

	s.logger.Debug("GetFlightInfo called",
		"type", cmd.Operation,
		"session", session.String(),
		"catalog", cmd.CatalogName,
		"schema_pattern", cmd.SchemaPattern,
		"table_pattern", cmd.TablePattern,
		"trace_id", TraceIDFromContext(ctx),
	)

	schema, err := cmd.Schema()
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	exec, err := cmd.Executor(s.service, session)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid %s arguments: %v", cmd.Operation, err)
	}

	handle, err := s.ops.Submit(ctx, session, string(cmd.Operation), exec)
	if err != nil {
		s.logger.Error("Failed to submit operation", "type", cmd.Operation, "error", err)
		return nil, toStatus(err, "failed to submit operation")
	}

	ticket, err := EncodeTicket(handle, cmd.Operation)
	if err != nil {
		_ = s.ops.Close(handle)
		return nil, status.Errorf(codes.Internal, "failed to encode ticket: %v", err)
	}

	return &flight.FlightInfo{
		Schema:           flight.SerializeSchema(schema, s.allocator),
		FlightDescriptor: desc,
		Endpoint: []*flight.FlightEndpoint{
			{Ticket: &flight.Ticket{Ticket: ticket}},
		},
		TotalRecords: -1, // Unknown until the operation completes
		TotalBytes:   -1,
	}, nil
}

// GetSchema returns the result layout of a metadata command without running it.
func (s *Server) GetSchema(ctx context.Context, desc *flight.FlightDescriptor) (*flight.SchemaResult, error) {
	cmd, err := DecodeCommand(desc)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	schema, err := cmd.Schema()
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Debug("GetSchema called", "type", cmd.Operation, "num_fields", schema.NumFields())
	return &flight.SchemaResult{Schema: flight.SerializeSchema(schema, s.allocator)}, nil
}
