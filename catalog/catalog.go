// Package catalog defines the catalog/session service consumed by the metadata executors.
//
// The service is an external collaborator: it owns catalogs, their databases (schemas)
// and the tables inside them. The executors only enumerate it:
//   - Static services: built with hivemeta.NewCatalogBuilder() (immutable, in-memory)
//   - Live services: custom implementations reflecting a real engine (see catalog/duckdb)
//
// All interfaces are goroutine-safe and accept a context for the blocking enumeration calls.
package catalog

import (
	"context"
	"errors"
)

// Standard errors returned by Service implementations.
var (
	// ErrCatalogNotFound indicates the requested catalog does not exist.
	ErrCatalogNotFound = errors.New("catalog not found")

	// ErrDatabaseNotFound indicates the requested database (schema) does not exist.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrSessionNotFound indicates the session handle is unknown to the service.
	ErrSessionNotFound = errors.New("session not found")
)

// Service exposes synchronous enumeration of catalog metadata for a session.
// Results have set semantics: order is not guaranteed and callers collapse duplicates.
// Implementations MUST be goroutine-safe.
type Service interface {
	// ListCatalogs returns the names of all catalogs visible to the session.
	ListCatalogs(ctx context.Context, session SessionHandle) ([]string, error)

	// CurrentCatalog returns the name of the session's current catalog.
	CurrentCatalog(ctx context.Context, session SessionHandle) (string, error)

	// ListDatabases returns the database (schema) names of a catalog.
	// Returns ErrCatalogNotFound if the catalog does not exist.
	ListDatabases(ctx context.Context, session SessionHandle, catalogName string) ([]string, error)

	// ListTables returns the tables of catalogName.databaseName whose kind is in kinds.
	// An empty kinds set yields no tables.
	// Returns ErrCatalogNotFound or ErrDatabaseNotFound for unknown namespaces.
	ListTables(ctx context.Context, session SessionHandle, catalogName, databaseName string, kinds TableKinds) ([]TableInfo, error)
}

// SessionManager is an optional interface a Service can implement to own the
// session lifecycle. When the service does not implement it, session handles are
// minted by the server and only used to group operations.
type SessionManager interface {
	// OpenSession creates a session and returns its handle.
	OpenSession(ctx context.Context) (SessionHandle, error)

	// CloseSession releases the session.
	// Returns ErrSessionNotFound if the handle is unknown.
	CloseSession(ctx context.Context, session SessionHandle) error
}
