// Package flight provides the Flight RPC handlers of the metadata server.
//
// Metadata operations are submitted with GetFlightInfo and fetched with DoGet,
// mirroring the execute / fetch / close lifecycle of HiveServer2 operations.
// DoAction offers session management and one-shot metadata calls.
package flight

import (
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/hivemeta-go/catalog"
	"github.com/hugr-lab/hivemeta-go/internal/serialize"
	"github.com/hugr-lab/hivemeta-go/operation"
)

// Server implements the Flight service handlers.
// Embeds BaseFlightServer for forward compatibility with protocol changes.
type Server struct {
	flight.BaseFlightServer

	service    catalog.Service
	sessions   catalog.SessionManager // nil when the service does not manage sessions
	ops        *operation.Manager
	allocator  memory.Allocator
	logger     *slog.Logger
	compressor *serialize.Compressor
}

// NewServer creates a Flight server answering metadata requests from svc.
// Operations are dispatched through ops. Call Close when the server is no
// longer used.
func NewServer(svc catalog.Service, ops *operation.Manager, allocator memory.Allocator, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("catalog service is required")
	}
	if ops == nil {
		ops = operation.NewManager(operation.Options{Logger: logger})
	}
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	if logger == nil {
		logger = slog.Default()
	}

	compressor, err := serialize.NewCompressor()
	if err != nil {
		return nil, err
	}

	s := &Server{
		service:    svc,
		ops:        ops,
		allocator:  allocator,
		logger:     logger,
		compressor: compressor,
	}
	if sm, ok := svc.(catalog.SessionManager); ok {
		s.sessions = sm
	}
	return s, nil
}

// Operations returns the operation manager used by the server.
func (s *Server) Operations() *operation.Manager {
	return s.ops
}

// Close cancels outstanding operations and releases server resources.
func (s *Server) Close() error {
	s.ops.CloseAll()
	return s.compressor.Close()
}

// RegisterFlightServer registers the Flight service on the provided gRPC server.
func RegisterFlightServer(grpcServer *grpc.Server, flightServer *Server) {
	flight.RegisterFlightServiceServer(grpcServer, flightServer)
}
