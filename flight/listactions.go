package flight

import (
	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/hivemeta-go/executor"
)

var actionDescriptions = []*flight.ActionType{
	{Type: ActionOpenSession, Description: "Open a session; returns {session_id}"},
	{Type: ActionCloseSession, Description: "Close a session and its operations; body {session_id} or the session header"},
	{Type: ActionOperationStatus, Description: "Report the state of an operation; body {operation_id}"},
	{Type: ActionCancelOperation, Description: "Cancel a running operation; body {operation_id}"},
	{Type: ActionCloseOperation, Description: "Release an operation and its result; body {operation_id}"},
	{Type: string(executor.OpGetCatalogs), Description: "List catalogs; returns [length, zstd(Arrow IPC)]"},
	{Type: string(executor.OpGetSchemas), Description: "List schemas; body {catalog_name, schema_pattern}"},
	{Type: string(executor.OpGetTables), Description: "List tables; body {catalog_name, schema_pattern, table_pattern, table_types}"},
	{Type: string(executor.OpGetTypeInfo), Description: "Describe supported data types"},
}

// ListActions describes the actions accepted by DoAction.
func (s *Server) ListActions(_ *flight.Empty, stream flight.FlightService_ListActionsServer) error {
	for _, action := range actionDescriptions {
		if err := stream.Send(action); err != nil {
			return status.Errorf(codes.Internal, "failed to send action: %v", err)
		}
	}
	return nil
}
