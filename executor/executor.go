// Package executor builds the metadata operations answered for HiveServer2 clients.
//
// Each constructor captures its arguments and returns an Executor: a deferred
// unit of work that a dispatcher runs later. Executors are stateless and
// read-only; running one twice performs the same service calls again. Every
// executor returns a single terminal (EOS) result set or the first error the
// catalog service reported, unchanged. No partial results are ever returned.
package executor

import (
	"context"

	"github.com/hugr-lab/hivemeta-go/catalog"
	"github.com/hugr-lab/hivemeta-go/hivetype"
	"github.com/hugr-lab/hivemeta-go/pattern"
	"github.com/hugr-lab/hivemeta-go/result"
)

// Executor computes one metadata result set.
type Executor func(ctx context.Context) (*result.ResultSet, error)

// GetCatalogs lists every catalog of the session. Catalog names are not filtered.
func GetCatalogs(svc catalog.Service, session catalog.SessionHandle) Executor {
	return func(ctx context.Context) (*result.ResultSet, error) {
		names, err := svc.ListCatalogs(ctx, session)
		if err != nil {
			return nil, err
		}
		names = distinct(names)

		rows := make([]result.Row, 0, len(names))
		for _, name := range names {
			rows = append(rows, result.Project(result.Text(name)))
		}
		return result.NewEOS(result.GetCatalogsSchema, rows), nil
	}
}

// GetSchemas lists the schemas of catalogName matching schemaPattern.
// An empty catalogName means the session's current catalog; an empty
// pattern matches every schema.
func GetSchemas(svc catalog.Service, session catalog.SessionHandle, catalogName, schemaPattern string) Executor {
	return func(ctx context.Context) (*result.ResultSet, error) {
		catalogName, schemas, err := matchingSchemas(ctx, svc, session, catalogName, schemaPattern)
		if err != nil {
			return nil, err
		}

		rows := make([]result.Row, 0, len(schemas))
		for _, schema := range schemas {
			rows = append(rows, result.Project(result.Text(schema), result.Text(catalogName)))
		}
		return result.NewEOS(result.GetSchemasSchema, rows), nil
	}
}

// GetTables lists the tables of the given kinds whose name matches
// tablePattern, in every schema of catalogName matching schemaPattern.
// Catalog and pattern defaults are those of GetSchemas. A failure listing
// any schema's tables fails the whole operation.
func GetTables(svc catalog.Service, session catalog.SessionHandle, catalogName, schemaPattern, tablePattern string, kinds catalog.TableKinds) Executor {
	return func(ctx context.Context) (*result.ResultSet, error) {
		catalogName, schemas, err := matchingSchemas(ctx, svc, session, catalogName, schemaPattern)
		if err != nil {
			return nil, err
		}

		seen := make(map[catalog.Identifier]struct{})
		var tables []catalog.TableInfo
		for _, schema := range schemas {
			infos, err := svc.ListTables(ctx, session, catalogName, schema, kinds)
			if err != nil {
				return nil, err
			}
			for _, info := range pattern.Filter(infos, objectName, tablePattern) {
				if _, ok := seen[info.Identifier]; ok {
					continue
				}
				seen[info.Identifier] = struct{}{}
				tables = append(tables, info)
			}
		}

		rows := make([]result.Row, 0, len(tables))
		for _, info := range tables {
			rows = append(rows, result.Project(
				result.Text(info.Identifier.Catalog),  // TABLE_CAT
				result.Text(info.Identifier.Database), // TABLE_SCHEM
				result.Text(info.Identifier.Object),   // TABLE_NAME
				result.Text(string(info.Kind)),        // TABLE_TYPE
				// Table comments need a remote fetch per table; left blank.
				result.Text(""), // REMARKS
				result.Null(),   // TYPE_CAT
				result.Null(),   // TYPE_SCHEM
				result.Null(),   // TYPE_NAME
				result.Null(),   // SELF_REFERENCING_COL_NAME
				result.Null(),   // REF_GENERATION
			))
		}
		return result.NewEOS(result.GetTablesSchema, rows), nil
	}
}

// GetTypeInfo describes every supported data type. It makes no service calls.
func GetTypeInfo() Executor {
	return func(ctx context.Context) (*result.ResultSet, error) {
		types := hivetype.Supported()
		rows := make([]result.Row, 0, len(types))
		for _, t := range types {
			rows = append(rows, result.Project(
				result.Text(t.Name),                  // TYPE_NAME
				result.Int32(t.SQLType),              // DATA_TYPE
				result.OptionalInt32(t.MaxPrecision), // PRECISION
				result.OptionalText(t.LiteralPrefix), // LITERAL_PREFIX
				result.OptionalText(t.LiteralSuffix), // LITERAL_SUFFIX
				result.OptionalText(t.CreateParams),  // CREATE_PARAMS
				result.Int16(t.Nullable),             // NULLABLE
				result.Bool(t.CaseSensitive),         // CASE_SENSITIVE
				result.Int16(t.Searchable),           // SEARCHABLE
				result.Bool(t.Unsigned),              // UNSIGNED_ATTRIBUTE
				result.Bool(t.FixedPrecScale),        // FIXED_PREC_SCALE
				result.Bool(t.AutoIncrement),         // AUTO_INCREMENT
				result.OptionalText(t.LocalizedName), // LOCAL_TYPE_NAME
				result.Int16(t.MinimumScale),         // MINIMUM_SCALE
				result.Int16(t.MaximumScale),         // MAXIMUM_SCALE
				result.Null(),                        // SQL_DATA_TYPE, unused
				result.Null(),                        // SQL_DATETIME_SUB, unused
				result.OptionalInt32(t.NumPrecRadix), // NUM_PREC_RADIX
			))
		}
		return result.NewEOS(result.GetTypeInfoSchema, rows), nil
	}
}

// matchingSchemas resolves an empty catalog name to the session's current
// catalog and returns the schemas of that catalog matching schemaPattern.
func matchingSchemas(ctx context.Context, svc catalog.Service, session catalog.SessionHandle, catalogName, schemaPattern string) (string, []string, error) {
	if catalogName == "" {
		current, err := svc.CurrentCatalog(ctx, session)
		if err != nil {
			return "", nil, err
		}
		catalogName = current
	}

	names, err := svc.ListDatabases(ctx, session, catalogName)
	if err != nil {
		return "", nil, err
	}
	return catalogName, pattern.FilterNames(names, schemaPattern), nil
}

func objectName(info catalog.TableInfo) string {
	return info.Identifier.Object
}

func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
