// Package duckdb implements catalog.Service on top of a live DuckDB database.
//
// Attached DuckDB databases are catalogs, their schemas are databases, and
// base tables and views are the tables. Internal objects (the system and temp
// databases, information_schema, pg_catalog) are never reported.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/hugr-lab/hivemeta-go/catalog"
)

const (
	listCatalogsQuery = `SELECT database_name FROM duckdb_databases() WHERE NOT internal`

	catalogExistsQuery = `SELECT count(*) FROM duckdb_databases() WHERE database_name = ? AND NOT internal`

	listSchemasQuery = `SELECT schema_name FROM duckdb_schemas() WHERE database_name = ? AND NOT internal`

	schemaExistsQuery = `SELECT count(*) FROM duckdb_schemas() WHERE database_name = ? AND schema_name = ? AND NOT internal`

	listTablesQuery = `
SELECT table_name, 'TABLE' FROM duckdb_tables()
 WHERE database_name = ? AND schema_name = ? AND NOT internal AND NOT temporary
UNION ALL
SELECT view_name, 'VIEW' FROM duckdb_views()
 WHERE database_name = ? AND schema_name = ? AND NOT internal AND NOT temporary`
)

// Service answers catalog enumeration from a DuckDB database handle.
//
// The current catalog is held by the service rather than read from whichever
// pooled connection runs the query: `USE` only affects the connection that
// executed it. Every listing query names its database explicitly.
type Service struct {
	db *sql.DB

	mu      sync.RWMutex
	current string
}

var _ catalog.Service = (*Service)(nil)

// New wraps an open DuckDB handle. The caller keeps ownership of db.
// The current catalog is the database selected on the first connection the
// service asks; use Open or Use to fix it explicitly.
func New(db *sql.DB) *Service {
	return &Service{db: db}
}

// Open opens a DuckDB database at dsn and runs the init statements on a
// single connection, in order. An empty dsn opens an in-memory database.
//
// ATTACH and schema changes apply to the whole database. The database selected
// after init becomes the current catalog, and every connection the pool opens
// later selects it as well. Close the returned service to release the database.
func Open(ctx context.Context, dsn string, init ...string) (*Service, error) {
	s := &Service{}
	connector, err := duckdb.NewConnector(dsn, s.initConn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb %q: %w", dsn, err)
	}
	s.db = sql.OpenDB(connector)

	conn, err := s.db.Conn(ctx)
	if err != nil {
		s.db.Close()
		return nil, fmt.Errorf("failed to connect to duckdb %q: %w", dsn, err)
	}
	defer conn.Close()

	for _, stmt := range init {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			s.db.Close()
			return nil, fmt.Errorf("duckdb init %q: %w", stmt, err)
		}
	}

	var current string
	if err := conn.QueryRowContext(ctx, `SELECT current_database()`).Scan(&current); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("failed to read current database: %w", err)
	}
	s.setCurrent(current)
	return s, nil
}

// initConn selects the current catalog on a new pooled connection.
func (s *Service) initConn(execer driver.ExecerContext) error {
	current := s.currentName()
	if current == "" {
		return nil
	}
	_, err := execer.ExecContext(context.Background(), "USE "+quoteIdent(current), nil)
	return err
}

// Use makes catalogName the current catalog. Connections opened from now on
// select it; the listing queries never depend on a connection's selection.
func (s *Service) Use(ctx context.Context, catalogName string) error {
	if err := s.requireCatalog(ctx, catalogName); err != nil {
		return err
	}
	s.setCurrent(catalogName)
	return nil
}

func (s *Service) currentName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Service) setCurrent(name string) {
	s.mu.Lock()
	s.current = name
	s.mu.Unlock()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// DB returns the underlying database handle.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database handle.
func (s *Service) Close() error {
	return s.db.Close()
}

// ListCatalogs implements catalog.Service.
func (s *Service) ListCatalogs(ctx context.Context, _ catalog.SessionHandle) ([]string, error) {
	return s.queryNames(ctx, listCatalogsQuery)
}

// CurrentCatalog implements catalog.Service. The answer does not depend on
// which pooled connection is free.
func (s *Service) CurrentCatalog(ctx context.Context, _ catalog.SessionHandle) (string, error) {
	if name := s.currentName(); name != "" {
		return name, nil
	}
	var name string
	if err := s.db.QueryRowContext(ctx, `SELECT current_database()`).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to read current database: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		s.current = name
	}
	return s.current, nil
}

// ListDatabases implements catalog.Service.
func (s *Service) ListDatabases(ctx context.Context, _ catalog.SessionHandle, catalogName string) ([]string, error) {
	if err := s.requireCatalog(ctx, catalogName); err != nil {
		return nil, err
	}
	return s.queryNames(ctx, listSchemasQuery, catalogName)
}

// ListTables implements catalog.Service.
func (s *Service) ListTables(ctx context.Context, _ catalog.SessionHandle, catalogName, databaseName string, kinds catalog.TableKinds) ([]catalog.TableInfo, error) {
	if err := s.requireCatalog(ctx, catalogName); err != nil {
		return nil, err
	}
	exists, err := s.exists(ctx, schemaExistsQuery, catalogName, databaseName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s.%s", catalog.ErrDatabaseNotFound, catalogName, databaseName)
	}
	if len(kinds) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, listTablesQuery, catalogName, databaseName, catalogName, databaseName)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables of %s.%s: %w", catalogName, databaseName, err)
	}
	defer rows.Close()

	var tables []catalog.TableInfo
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		if !kinds.Contains(catalog.TableKind(kind)) {
			continue
		}
		tables = append(tables, catalog.TableInfo{
			Identifier: catalog.Identifier{Catalog: catalogName, Database: databaseName, Object: name},
			Kind:       catalog.TableKind(kind),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables of %s.%s: %w", catalogName, databaseName, err)
	}
	return tables, nil
}

func (s *Service) requireCatalog(ctx context.Context, catalogName string) error {
	exists, err := s.exists(ctx, catalogExistsQuery, catalogName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", catalog.ErrCatalogNotFound, catalogName)
	}
	return nil
}

func (s *Service) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query duckdb catalog: %w", err)
	}
	return n > 0, nil
}

func (s *Service) queryNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query duckdb catalog: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
