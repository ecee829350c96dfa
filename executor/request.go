package executor

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/hivemeta-go/catalog"
	"github.com/hugr-lab/hivemeta-go/result"
)

// ErrUnknownOperation is returned for a request naming no metadata operation.
var ErrUnknownOperation = errors.New("unknown metadata operation")

// Operation names a metadata operation.
type Operation string

const (
	OpGetCatalogs Operation = "get_catalogs"
	OpGetSchemas  Operation = "get_schemas"
	OpGetTables   Operation = "get_tables"
	OpGetTypeInfo Operation = "get_type_info"
)

// Operations lists every metadata operation in a stable order.
var Operations = []Operation{OpGetCatalogs, OpGetSchemas, OpGetTables, OpGetTypeInfo}

// Request carries the arguments of one metadata operation as received from a client.
// Empty strings stand for absent arguments.
type Request struct {
	Operation     Operation `msgpack:"type"`
	CatalogName   string    `msgpack:"catalog_name,omitempty"`
	SchemaPattern string    `msgpack:"schema_pattern,omitempty"`
	TablePattern  string    `msgpack:"table_pattern,omitempty"`
	TableTypes    []string  `msgpack:"table_types,omitempty"`
}

// Schema returns the result layout of the requested operation.
func (r Request) Schema() (*arrow.Schema, error) {
	switch r.Operation {
	case OpGetCatalogs:
		return result.GetCatalogsSchema, nil
	case OpGetSchemas:
		return result.GetSchemasSchema, nil
	case OpGetTables:
		return result.GetTablesSchema, nil
	case OpGetTypeInfo:
		return result.GetTypeInfoSchema, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, r.Operation)
	}
}

// Executor builds the deferred executor for the request on behalf of session.
// Table type names are parsed here; an empty list selects every kind.
func (r Request) Executor(svc catalog.Service, session catalog.SessionHandle) (Executor, error) {
	switch r.Operation {
	case OpGetCatalogs:
		return GetCatalogs(svc, session), nil
	case OpGetSchemas:
		return GetSchemas(svc, session, r.CatalogName, r.SchemaPattern), nil
	case OpGetTables:
		kinds, err := catalog.ParseTableKinds(r.TableTypes)
		if err != nil {
			return nil, err
		}
		return GetTables(svc, session, r.CatalogName, r.SchemaPattern, r.TablePattern, kinds), nil
	case OpGetTypeInfo:
		return GetTypeInfo(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, r.Operation)
	}
}
