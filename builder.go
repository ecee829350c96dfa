package hivemeta

import (
	"fmt"

	"github.com/hugr-lab/hivemeta-go/catalog"
)

// CatalogBuilder builds static catalog services using fluent API.
// Not thread-safe - use only during initialization.
type CatalogBuilder struct {
	catalogs       []*catalogBuilder
	defaultCatalog string
	built          bool
}

// NewCatalogBuilder creates a new fluent catalog builder.
// Returns builder in "empty" state (no catalogs).
//
// Example:
//
//	svc, err := hivemeta.NewCatalogBuilder().
//	    Catalog("hive").
//	        Database("sales").
//	            Table("orders").
//	            View("big_orders").
//	        Database("staging").
//	    Build()
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{
		catalogs: make([]*catalogBuilder, 0),
	}
}

// Default sets the catalog new sessions start in.
// When not set, the first declared catalog is the default.
func (cb *CatalogBuilder) Default(name string) *CatalogBuilder {
	cb.defaultCatalog = name
	return cb
}

// Catalog starts defining a new catalog.
// Catalog name MUST be non-empty and unique.
func (cb *CatalogBuilder) Catalog(name string) *CatalogDef {
	c := &catalogBuilder{
		name:    name,
		builder: cb,
	}
	cb.catalogs = append(cb.catalogs, c)
	return &CatalogDef{catalog: c}
}

// Build finalizes the service and returns an immutable StaticService.
// Can only be called once.
// Returns error if the definition is invalid (e.g., duplicate names).
func (cb *CatalogBuilder) Build() (*catalog.StaticService, error) {
	if cb.built {
		return nil, fmt.Errorf("catalog already built")
	}
	if len(cb.catalogs) == 0 {
		return nil, fmt.Errorf("at least one catalog is required")
	}

	seenCatalogs := make(map[string]bool)
	for _, c := range cb.catalogs {
		if c.name == "" {
			return nil, fmt.Errorf("catalog name cannot be empty")
		}
		if seenCatalogs[c.name] {
			return nil, fmt.Errorf("duplicate catalog name: %s", c.name)
		}
		seenCatalogs[c.name] = true

		seenDatabases := make(map[string]bool)
		for _, db := range c.databases {
			if db.name == "" {
				return nil, fmt.Errorf("database name cannot be empty in catalog %s", c.name)
			}
			if seenDatabases[db.name] {
				return nil, fmt.Errorf("duplicate database name %s in catalog %s", db.name, c.name)
			}
			seenDatabases[db.name] = true

			seenTables := make(map[string]bool)
			for _, table := range db.tables {
				if table.name == "" {
					return nil, fmt.Errorf("table name cannot be empty in %s.%s", c.name, db.name)
				}
				if seenTables[table.name] {
					return nil, fmt.Errorf("duplicate table name %s in %s.%s", table.name, c.name, db.name)
				}
				seenTables[table.name] = true
			}
		}
	}

	defaultCatalog := cb.defaultCatalog
	if defaultCatalog == "" {
		defaultCatalog = cb.catalogs[0].name
	}
	if !seenCatalogs[defaultCatalog] {
		return nil, fmt.Errorf("default catalog %s is not defined", defaultCatalog)
	}

	cb.built = true

	svc := catalog.NewStaticService(defaultCatalog)
	for _, c := range cb.catalogs {
		svc.AddCatalog(c.name)
		for _, db := range c.databases {
			tables := make(map[string]catalog.TableKind, len(db.tables))
			for _, table := range db.tables {
				tables[table.name] = table.kind
			}
			svc.AddDatabase(c.name, db.name, tables)
		}
	}
	return svc, nil
}

// catalogBuilder is the internal catalog definition.
type catalogBuilder struct {
	name      string
	databases []*databaseBuilder
	builder   *CatalogBuilder
}

// databaseBuilder is the internal database definition.
type databaseBuilder struct {
	name    string
	tables  []tableDef
	catalog *catalogBuilder
}

type tableDef struct {
	name string
	kind catalog.TableKind
}

// CatalogDef builds a catalog within a CatalogBuilder.
type CatalogDef struct {
	catalog *catalogBuilder
}

// Database starts a new database (schema) in this catalog.
// Database name MUST be unique within the catalog.
func (cd *CatalogDef) Database(name string) *DatabaseDef {
	db := &databaseBuilder{name: name, catalog: cd.catalog}
	cd.catalog.databases = append(cd.catalog.databases, db)
	return &DatabaseDef{database: db}
}

// Catalog starts a new catalog definition (returns to CatalogBuilder).
func (cd *CatalogDef) Catalog(name string) *CatalogDef {
	return cd.catalog.builder.Catalog(name)
}

// Build finalizes the service (returns to CatalogBuilder).
func (cd *CatalogDef) Build() (*catalog.StaticService, error) {
	return cd.catalog.builder.Build()
}

// DatabaseDef builds a database within a catalog.
type DatabaseDef struct {
	database *databaseBuilder
}

// Table adds a base table.
// Returns self for method chaining.
func (dd *DatabaseDef) Table(name string) *DatabaseDef {
	dd.database.tables = append(dd.database.tables, tableDef{name: name, kind: catalog.TableKindTable})
	return dd
}

// View adds a view.
// Returns self for method chaining.
func (dd *DatabaseDef) View(name string) *DatabaseDef {
	dd.database.tables = append(dd.database.tables, tableDef{name: name, kind: catalog.TableKindView})
	return dd
}

// Database starts a new database in the same catalog.
func (dd *DatabaseDef) Database(name string) *DatabaseDef {
	return (&CatalogDef{catalog: dd.database.catalog}).Database(name)
}

// Catalog starts a new catalog definition.
func (dd *DatabaseDef) Catalog(name string) *CatalogDef {
	return dd.database.catalog.builder.Catalog(name)
}

// Build finalizes the service.
func (dd *DatabaseDef) Build() (*catalog.StaticService, error) {
	return dd.database.catalog.builder.Build()
}
