package hivemeta

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/hivemeta-go/flight"
	"github.com/hugr-lab/hivemeta-go/operation"
)

// NewServer registers the metadata Flight service handlers on the provided gRPC server.
// This is the main entry point for the hivemeta package.
//
// The function:
//  1. Validates the ServerConfig
//  2. Creates the operation manager and Flight service implementation
//  3. Registers it on grpcServer
//
// Returns error if config is invalid (e.g., nil Service).
// Does NOT start the gRPC server - user controls lifecycle via grpcServer.Serve().
// Call Close on the returned server after the gRPC server stopped.
//
// For authentication, use ServerOptions() to create a gRPC server with auth interceptors:
//
//	config := hivemeta.ServerConfig{
//	    Service: svc,
//	    Auth:    hivemeta.BearerAuth(validateToken),
//	}
//	grpcServer := grpc.NewServer(hivemeta.ServerOptions(config)...)
//	srv, err := hivemeta.NewServer(grpcServer, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	lis, _ := net.Listen("tcp", ":50051")
//	grpcServer.Serve(lis)
func NewServer(grpcServer *grpc.Server, config ServerConfig) (*flight.Server, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	allocator := config.Allocator
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	logger := newLogger(config)

	ops := operation.NewManager(operation.Options{
		MaxOperations: config.MaxOperations,
		Logger:        logger,
	})

	flightServer, err := flight.NewServer(config.Service, ops, allocator, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	flight.RegisterFlightServer(grpcServer, flightServer)

	logger.Info("Hive metadata Flight server registered",
		"address", config.Address,
		"has_auth", config.Auth != nil,
		"max_message_size", config.MaxMessageSize,
		"max_operations", config.MaxOperations,
	)

	return flightServer, nil
}

// validateConfig checks that required ServerConfig fields are valid.
func validateConfig(config ServerConfig) error {
	if config.Service == nil {
		return fmt.Errorf("service is required")
	}
	if config.MaxMessageSize < 0 {
		return fmt.Errorf("max message size must not be negative")
	}
	if config.MaxOperations < 0 {
		return fmt.Errorf("max operations must not be negative")
	}
	return nil
}

// newLogger returns the configured logger, or a stderr text logger at LogLevel.
func newLogger(config ServerConfig) *slog.Logger {
	if config.Logger != nil {
		return config.Logger
	}
	if config.LogLevel == nil {
		return slog.Default()
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: *config.LogLevel,
	})
	return slog.New(handler)
}

// ServerOptions returns gRPC server options with authentication interceptors.
// Use this when creating a gRPC server if you want authentication enabled.
//
// Example:
//
//	config := hivemeta.ServerConfig{
//	    Service: svc,
//	    Auth:    hivemeta.BearerAuth(validateToken),
//	}
//	opts := hivemeta.ServerOptions(config)
//	grpcServer := grpc.NewServer(opts...)
//	hivemeta.NewServer(grpcServer, config)
func ServerOptions(config ServerConfig) []grpc.ServerOption {
	var opts []grpc.ServerOption

	if config.Auth != nil {
		opts = append(opts,
			grpc.UnaryInterceptor(flight.UnaryServerInterceptor(config.Auth)),
			grpc.StreamInterceptor(flight.StreamServerInterceptor(config.Auth)),
		)
	}

	if config.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(config.MaxMessageSize),
			grpc.MaxSendMsgSize(config.MaxMessageSize),
		)
	}

	return opts
}
