package catalog

import (
	"context"
	"fmt"
	"sync"
)

// StaticService is an immutable in-memory catalog service built by CatalogBuilder.
// Only the per-session current catalog is mutable.
type StaticService struct {
	catalogs       map[string]*staticCatalog
	defaultCatalog string

	mu       sync.RWMutex
	sessions map[SessionHandle]string // session -> current catalog
}

// staticCatalog holds the databases of one catalog.
type staticCatalog struct {
	databases map[string]*staticDatabase
}

// staticDatabase holds the tables of one database keyed by name.
type staticDatabase struct {
	tables map[string]TableKind
}

// NewStaticService creates an empty static service whose sessions start in defaultCatalog.
// This is exported for use by the hivemeta package builder.
func NewStaticService(defaultCatalog string) *StaticService {
	return &StaticService{
		catalogs:       make(map[string]*staticCatalog),
		defaultCatalog: defaultCatalog,
		sessions:       make(map[SessionHandle]string),
	}
}

// AddCatalog registers an empty catalog. Adding an existing catalog is a no-op.
// This is used during catalog building.
func (s *StaticService) AddCatalog(name string) {
	if _, ok := s.catalogs[name]; ok {
		return
	}
	s.catalogs[name] = &staticCatalog{databases: make(map[string]*staticDatabase)}
}

// AddDatabase registers a database with its tables in an existing catalog.
// This is used during catalog building.
func (s *StaticService) AddDatabase(catalogName, name string, tables map[string]TableKind) {
	s.AddCatalog(catalogName)
	s.catalogs[catalogName].databases[name] = &staticDatabase{tables: tables}
}

// ListCatalogs implements Service interface.
func (s *StaticService) ListCatalogs(ctx context.Context, session SessionHandle) ([]string, error) {
	result := make([]string, 0, len(s.catalogs))
	for name := range s.catalogs {
		result = append(result, name)
	}
	return result, nil
}

// CurrentCatalog implements Service interface.
// Sessions without an explicit current catalog resolve to the default catalog.
func (s *StaticService) CurrentCatalog(ctx context.Context, session SessionHandle) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name, ok := s.sessions[session]; ok && name != "" {
		return name, nil
	}
	return s.defaultCatalog, nil
}

// ListDatabases implements Service interface.
func (s *StaticService) ListDatabases(ctx context.Context, session SessionHandle, catalogName string) ([]string, error) {
	cat, ok := s.catalogs[catalogName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, catalogName)
	}
	result := make([]string, 0, len(cat.databases))
	for name := range cat.databases {
		result = append(result, name)
	}
	return result, nil
}

// ListTables implements Service interface.
func (s *StaticService) ListTables(ctx context.Context, session SessionHandle, catalogName, databaseName string, kinds TableKinds) ([]TableInfo, error) {
	cat, ok := s.catalogs[catalogName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, catalogName)
	}
	db, ok := cat.databases[databaseName]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrDatabaseNotFound, catalogName, databaseName)
	}

	result := make([]TableInfo, 0, len(db.tables))
	for name, kind := range db.tables {
		if !kinds.Contains(kind) {
			continue
		}
		result = append(result, TableInfo{
			Identifier: Identifier{Catalog: catalogName, Database: databaseName, Object: name},
			Kind:       kind,
		})
	}
	return result, nil
}

// OpenSession implements SessionManager interface.
func (s *StaticService) OpenSession(ctx context.Context) (SessionHandle, error) {
	handle := NewSessionHandle()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[handle] = ""
	return handle, nil
}

// CloseSession implements SessionManager interface.
func (s *StaticService) CloseSession(ctx context.Context, session SessionHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, session)
	}
	delete(s.sessions, session)
	return nil
}

// SetCurrentCatalog switches the current catalog of an open session.
func (s *StaticService) SetCurrentCatalog(session SessionHandle, catalogName string) error {
	if _, ok := s.catalogs[catalogName]; !ok {
		return fmt.Errorf("%w: %s", ErrCatalogNotFound, catalogName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, session)
	}
	s.sessions[session] = catalogName
	return nil
}
