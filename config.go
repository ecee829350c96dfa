package hivemeta

import (
	"errors"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/hivemeta-go/auth"
	"github.com/hugr-lab/hivemeta-go/catalog"
)

// ServerConfig contains configuration for the metadata Flight server.
type ServerConfig struct {
	// Service enumerates catalogs, schemas and tables.
	// REQUIRED: MUST NOT be nil.
	// If it also implements catalog.SessionManager, it owns the session lifecycle.
	Service catalog.Service

	// Auth provides authentication logic.
	// OPTIONAL: If nil, no authentication (all requests allowed).
	Auth auth.Authenticator

	// Allocator for Arrow memory management.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level

	// MaxMessageSize sets maximum gRPC message size in bytes.
	// OPTIONAL: If 0, uses gRPC default (4MB).
	MaxMessageSize int

	// MaxOperations bounds the metadata operations running at once.
	// OPTIONAL: If 0, operations are unbounded.
	MaxOperations int

	// Address is the server's public address (e.g., "localhost:50051"), used in logs.
	// OPTIONAL.
	Address string
}

// Standard errors returned by hivemeta package.
var (
	// ErrUnauthorized indicates authentication failed.
	// Return this from Authenticator.Authenticate() for invalid tokens.
	ErrUnauthorized = auth.ErrUnauthenticated

	// ErrInvalidConfig indicates ServerConfig validation failed.
	ErrInvalidConfig = errors.New("invalid server config")
)
