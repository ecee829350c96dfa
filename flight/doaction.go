package flight

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/hivemeta-go/auth"
	"github.com/hugr-lab/hivemeta-go/catalog"
	"github.com/hugr-lab/hivemeta-go/executor"
	"github.com/hugr-lab/hivemeta-go/internal/msgpack"
	"github.com/hugr-lab/hivemeta-go/internal/recovery"
	"github.com/hugr-lab/hivemeta-go/internal/serialize"
	"github.com/hugr-lab/hivemeta-go/operation"
)

// Session and operation management actions.
const (
	ActionOpenSession     = "open_session"
	ActionCloseSession    = "close_session"
	ActionOperationStatus = "get_operation_status"
	ActionCancelOperation = "cancel_operation"
	ActionCloseOperation  = "close_operation"
)

// SessionResponse is the body returned by open_session and close_session.
type SessionResponse struct {
	SessionID        string `msgpack:"session_id"`
	ClosedOperations int    `msgpack:"closed_operations,omitempty"`
}

// OperationRequest is the body of the operation management actions.
type OperationRequest struct {
	OperationID string `msgpack:"operation_id"`
}

// OperationResponse reports the state of an operation.
type OperationResponse struct {
	OperationID string `msgpack:"operation_id"`
	Type        string `msgpack:"type,omitempty"`
	State       string `msgpack:"state"`
	Error       string `msgpack:"error,omitempty"`
}

// DoAction executes server actions.
// This RPC supports:
//   - Session lifecycle: open_session, close_session
//   - Operation lifecycle: get_operation_status, cancel_operation, close_operation
//   - One-shot metadata calls: get_catalogs, get_schemas, get_tables, get_type_info,
//     answered with a compressed Arrow IPC payload [uncompressed_length, zstd(data)]
func (s *Server) DoAction(action *flight.Action, stream flight.FlightService_DoActionServer) error {
	ctx := EnrichContextMetadata(stream.Context())

	s.logger.Debug("DoAction called",
		"type", action.GetType(),
		"body_size", len(action.GetBody()),
	)

	switch actionType := action.GetType(); actionType {
	case ActionOpenSession:
		return s.handleOpenSession(ctx, stream)
	case ActionCloseSession:
		return s.handleCloseSession(ctx, action, stream)
	case ActionOperationStatus, ActionCancelOperation, ActionCloseOperation:
		return s.handleOperationAction(ctx, actionType, action, stream)
	default:
		op := executor.Operation(actionType)
		for _, known := range executor.Operations {
			if op == known {
				return s.handleMetadataAction(ctx, op, action, stream)
			}
		}
		return status.Errorf(codes.Unimplemented, "unknown action type: %s", actionType)
	}
}

// handleOpenSession creates a session. Services implementing
// catalog.SessionManager own the session; otherwise the handle only groups
// operations.
func (s *Server) handleOpenSession(ctx context.Context, stream flight.FlightService_DoActionServer) error {
	session := catalog.NewSessionHandle()
	if s.sessions != nil {
		var err error
		session, err = recovery.GuardValue(s.logger, "OpenSession", func() (catalog.SessionHandle, error) {
			return s.sessions.OpenSession(ctx)
		})
		if err != nil {
			s.logger.Error("Failed to open session", "error", err)
			return toStatus(err, "failed to open session")
		}
	}

	s.logger.Info("Session opened",
		"session", session.String(),
		"identity", auth.IdentityFromContext(ctx),
	)
	return s.sendMsgpack(stream, SessionResponse{SessionID: session.String()})
}

// handleCloseSession closes every operation of a session and releases it.
// The session comes from the body's session_id or, when absent, from the session header.
func (s *Server) handleCloseSession(ctx context.Context, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	var params struct {
		SessionID string `msgpack:"session_id"`
	}
	if err := msgpack.DecodeOptional(action.GetBody(), &params); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid parameters: %v", err)
	}
	if params.SessionID == "" {
		params.SessionID = SessionIDFromContext(ctx)
	}
	if params.SessionID == "" {
		return status.Error(codes.InvalidArgument, "session_id is required")
	}

	session, err := catalog.ParseSessionHandle(params.SessionID)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid session: %v", err)
	}

	closed := s.ops.CloseSession(session)
	if s.sessions != nil {
		err := recovery.Guard(s.logger, "CloseSession", func() error {
			return s.sessions.CloseSession(ctx, session)
		})
		if err != nil {
			return toStatus(err, "failed to close session")
		}
	}

	s.logger.Info("Session closed", "session", session.String(), "closed_operations", closed)
	return s.sendMsgpack(stream, SessionResponse{SessionID: session.String(), ClosedOperations: closed})
}

// handleOperationAction reports, cancels or closes an operation owned by the caller.
func (s *Server) handleOperationAction(ctx context.Context, actionType string, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	var params OperationRequest
	if err := msgpack.Decode(action.GetBody(), &params); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid parameters: %v", err)
	}
	handle, err := operation.ParseHandle(params.OperationID)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if _, err := s.callerOperation(ctx, handle); err != nil {
		return err
	}

	switch actionType {
	case ActionCancelOperation:
		err = s.ops.Cancel(handle)
	case ActionCloseOperation:
		if err := s.ops.Close(handle); err != nil {
			return toStatus(err, "failed to close operation")
		}
		return s.sendMsgpack(stream, OperationResponse{
			OperationID: handle.String(),
			State:       operation.StateClosed.String(),
		})
	}
	if err != nil {
		return toStatus(err, actionType+" failed")
	}

	info, err := s.ops.Info(handle)
	if err != nil {
		return toStatus(err, actionType+" failed")
	}
	resp := OperationResponse{
		OperationID: handle.String(),
		Type:        info.Name,
		State:       info.State.String(),
	}
	if info.Err != nil {
		resp.Error = info.Err.Error()
	}
	return s.sendMsgpack(stream, resp)
}

// handleMetadataAction runs a metadata operation to completion and returns
// its result as a compressed Arrow IPC stream. The action body holds the
// operation arguments; its type field, if any, is ignored.
func (s *Server) handleMetadataAction(ctx context.Context, op executor.Operation, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	var req executor.Request
	if err := msgpack.DecodeOptional(action.GetBody(), &req); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid parameters: %v", err)
	}
	req.Operation = op

	session, _, err := sessionFromContext(ctx)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid session: %v", err)
	}
	exec, err := req.Executor(s.service, session)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid %s arguments: %v", op, err)
	}

	handle, err := s.ops.Submit(ctx, session, string(op), exec)
	if err != nil {
		return toStatus(err, "failed to submit operation")
	}
	defer func() { _ = s.ops.Close(handle) }()

	rs, err := s.ops.Fetch(ctx, handle)
	if err != nil {
		return toStatus(err, string(op)+" failed")
	}

	body, uncompressed, err := serialize.Pack(rs, s.allocator, s.compressor)
	if err != nil {
		s.logger.Error("Failed to serialize result", "type", op, "error", err)
		return status.Errorf(codes.Internal, "failed to serialize result: %v", err)
	}

	if err := stream.Send(&flight.Result{Body: body}); err != nil {
		s.logger.Error("Failed to send result", "type", op, "error", err)
		return status.Errorf(codes.Internal, "failed to send result: %v", err)
	}

	s.logger.Debug("Metadata action completed",
		"type", op,
		"rows", len(rs.Data),
		"uncompressed_bytes", uncompressed,
		"response_bytes", len(body),
	)
	return nil
}

func (s *Server) sendMsgpack(stream flight.FlightService_DoActionServer, v any) error {
	body, err := msgpack.Encode(v)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	if err := stream.Send(&flight.Result{Body: body}); err != nil {
		s.logger.Error("Failed to send action result", "error", err)
		return status.Errorf(codes.Internal, "failed to send result: %v", err)
	}
	return nil
}
