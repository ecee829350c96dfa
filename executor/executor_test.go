package executor

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/hugr-lab/hivemeta-go/catalog"
	"github.com/hugr-lab/hivemeta-go/result"
)

// fakeService is a catalog.Service with canned answers and injectable failures.
type fakeService struct {
	catalogs  []string
	current   string
	databases map[string][]string            // catalog -> databases
	tables    map[string][]catalog.TableInfo // database -> tables
	failOn    map[string]error               // database -> ListTables error
	err       error                          // returned by every call when set

	listTablesCalls atomic.Int32
}

func (s *fakeService) ListCatalogs(ctx context.Context, session catalog.SessionHandle) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.catalogs, nil
}

func (s *fakeService) CurrentCatalog(ctx context.Context, session catalog.SessionHandle) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.current, nil
}

func (s *fakeService) ListDatabases(ctx context.Context, session catalog.SessionHandle, catalogName string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	dbs, ok := s.databases[catalogName]
	if !ok {
		return nil, catalog.ErrCatalogNotFound
	}
	return dbs, nil
}

func (s *fakeService) ListTables(ctx context.Context, session catalog.SessionHandle, catalogName, databaseName string, kinds catalog.TableKinds) ([]catalog.TableInfo, error) {
	s.listTablesCalls.Add(1)
	if err := s.failOn[databaseName]; err != nil {
		return nil, err
	}
	var out []catalog.TableInfo
	for _, info := range s.tables[databaseName] {
		if kinds.Contains(info.Kind) {
			out = append(out, info)
		}
	}
	return out, nil
}

func table(cat, db, name string, kind catalog.TableKind) catalog.TableInfo {
	return catalog.TableInfo{
		Identifier: catalog.Identifier{Catalog: cat, Database: db, Object: name},
		Kind:       kind,
	}
}

func newFakeService() *fakeService {
	return &fakeService{
		catalogs: []string{"cat1", "cat2"},
		current:  "cat1",
		databases: map[string][]string{
			"cat1": {"db1", "db2", "test_db"},
			"cat2": {"analytics"},
		},
		tables: map[string][]catalog.TableInfo{
			"db1": {
				table("cat1", "db1", "t1", catalog.TableKindTable),
				table("cat1", "db1", "t2", catalog.TableKindView),
			},
			"db2": {
				table("cat1", "db2", "t3", catalog.TableKindTable),
			},
			"test_db": {
				table("cat1", "test_db", "fixture", catalog.TableKindTable),
			},
			"analytics": {
				table("cat2", "analytics", "events", catalog.TableKindTable),
			},
		},
	}
}

func run(t *testing.T, exec Executor) *result.ResultSet {
	t.Helper()
	rs, err := exec(context.Background())
	if err != nil {
		t.Fatalf("executor failed: %v", err)
	}
	if rs.Type != result.ResultEOS {
		t.Errorf("expected EOS result, got %s", rs.Type)
	}
	if rs.NextToken != nil {
		t.Error("expected nil next token")
	}
	if err := rs.Validate(); err != nil {
		t.Errorf("rows do not match layout: %v", err)
	}
	return rs
}

// column returns the text values of column i, sorted.
func column(t *testing.T, rs *result.ResultSet, i int) []string {
	t.Helper()
	out := make([]string, 0, len(rs.Data))
	for _, row := range rs.Data {
		s, ok := row[i].AsText()
		if !ok {
			t.Fatalf("column %d is not text: %s", i, row[i])
		}
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

func TestGetCatalogs(t *testing.T) {
	svc := newFakeService()
	rs := run(t, GetCatalogs(svc, catalog.NewSessionHandle()))

	if rs.Schema != result.GetCatalogsSchema {
		t.Error("expected catalogs layout")
	}
	if got := column(t, rs, 0); !slices.Equal(got, []string{"cat1", "cat2"}) {
		t.Errorf("expected [cat1 cat2], got %v", got)
	}
}

func TestGetCatalogsCollapsesDuplicates(t *testing.T) {
	svc := newFakeService()
	svc.catalogs = []string{"cat1", "cat1", "cat2"}

	rs := run(t, GetCatalogs(svc, catalog.NewSessionHandle()))
	if len(rs.Data) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rs.Data))
	}
}

func TestGetCatalogsEmpty(t *testing.T) {
	svc := newFakeService()
	svc.catalogs = nil

	rs := run(t, GetCatalogs(svc, catalog.NewSessionHandle()))
	if rs.Data == nil || len(rs.Data) != 0 {
		t.Errorf("expected empty row list, got %#v", rs.Data)
	}
}

func TestGetSchemas(t *testing.T) {
	svc := newFakeService()
	session := catalog.NewSessionHandle()

	tests := []struct {
		name        string
		catalogName string
		pattern     string
		want        []string
		wantCatalog string
	}{
		{"current catalog with pattern", "", "db_", []string{"db1", "db2"}, "cat1"},
		{"explicit catalog", "cat1", "db_", []string{"db1", "db2"}, "cat1"},
		{"no pattern", "", "", []string{"db1", "db2", "test_db"}, "cat1"},
		{"match all", "cat1", "%", []string{"db1", "db2", "test_db"}, "cat1"},
		{"prefix", "cat1", "test%", []string{"test_db"}, "cat1"},
		{"other catalog", "cat2", "", []string{"analytics"}, "cat2"},
		{"no match", "cat1", "prod%", []string{}, "cat1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := run(t, GetSchemas(svc, session, tt.catalogName, tt.pattern))
			if rs.Schema != result.GetSchemasSchema {
				t.Error("expected schemas layout")
			}
			if got := column(t, rs, 0); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			for _, cat := range column(t, rs, 1) {
				if cat != tt.wantCatalog {
					t.Errorf("expected TABLE_CATALOG %s, got %s", tt.wantCatalog, cat)
				}
			}
		})
	}
}

func TestGetSchemasCurrentCatalogEqualsExplicit(t *testing.T) {
	svc := newFakeService()
	session := catalog.NewSessionHandle()

	implicit := run(t, GetSchemas(svc, session, "", "%db%"))
	explicit := run(t, GetSchemas(svc, session, svc.current, "%db%"))

	if !slices.Equal(column(t, implicit, 0), column(t, explicit, 0)) ||
		!slices.Equal(column(t, implicit, 1), column(t, explicit, 1)) {
		t.Error("listing with empty catalog differs from listing the current catalog")
	}
}

func TestGetSchemasPropagatesErrors(t *testing.T) {
	svc := newFakeService()
	session := catalog.NewSessionHandle()

	_, err := GetSchemas(svc, session, "missing", "")(context.Background())
	if !errors.Is(err, catalog.ErrCatalogNotFound) {
		t.Errorf("expected ErrCatalogNotFound, got %v", err)
	}

	boom := errors.New("backend unavailable")
	svc.err = boom
	rs, err := GetSchemas(svc, session, "", "")(context.Background())
	if err != boom {
		t.Errorf("expected the backend error unchanged, got %v", err)
	}
	if rs != nil {
		t.Error("expected no result on failure")
	}
}

func TestGetTables(t *testing.T) {
	svc := newFakeService()
	session := catalog.NewSessionHandle()

	rs := run(t, GetTables(svc, session, "", "db_", "%", catalog.TableKinds{catalog.TableKindTable}))

	if rs.Schema != result.GetTablesSchema {
		t.Error("expected tables layout")
	}
	if got := column(t, rs, 2); !slices.Equal(got, []string{"t1", "t3"}) {
		t.Fatalf("expected [t1 t3], got %v", got)
	}

	for _, row := range rs.Data {
		if len(row) != 10 {
			t.Fatalf("expected 10 columns, got %d", len(row))
		}
		if cat, _ := row[0].AsText(); cat != "cat1" {
			t.Errorf("expected TABLE_CAT cat1, got %s", cat)
		}
		if kind, _ := row[3].AsText(); kind != "TABLE" {
			t.Errorf("expected TABLE_TYPE TABLE, got %s", kind)
		}
		if remarks, ok := row[4].AsText(); !ok || remarks != "" {
			t.Errorf("expected empty REMARKS, got %s", row[4])
		}
		for i := 5; i < 10; i++ {
			if !row[i].IsNull() {
				t.Errorf("expected null at position %d, got %s", i, row[i])
			}
		}
	}
}

func TestGetTablesPatternsAndKinds(t *testing.T) {
	svc := newFakeService()
	session := catalog.NewSessionHandle()

	tests := []struct {
		name          string
		catalogName   string
		schemaPattern string
		tablePattern  string
		kinds         catalog.TableKinds
		want          []string
	}{
		{"all kinds all schemas", "", "", "", catalog.AllTableKinds, []string{"fixture", "t1", "t2", "t3"}},
		{"views only", "cat1", "", "", catalog.TableKinds{catalog.TableKindView}, []string{"t2"}},
		{"table pattern", "cat1", "%", "t_", catalog.AllTableKinds, []string{"t1", "t2", "t3"}},
		{"single schema", "cat1", "db2", "%", catalog.AllTableKinds, []string{"t3"}},
		{"other catalog", "cat2", "", "ev%", catalog.AllTableKinds, []string{"events"}},
		{"no kinds", "cat1", "", "", catalog.TableKinds{}, []string{}},
		{"no schema match", "cat1", "nothing", "", catalog.AllTableKinds, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := run(t, GetTables(svc, session, tt.catalogName, tt.schemaPattern, tt.tablePattern, tt.kinds))
			if got := column(t, rs, 2); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestGetTablesDeduplicates(t *testing.T) {
	svc := newFakeService()
	svc.tables["db1"] = append(svc.tables["db1"], table("cat1", "db1", "t1", catalog.TableKindTable))
	// Same object name in another schema is a distinct table.
	svc.tables["db2"] = append(svc.tables["db2"], table("cat1", "db2", "t1", catalog.TableKindTable))

	rs := run(t, GetTables(svc, catalog.NewSessionHandle(), "cat1", "db_", "t1", catalog.AllTableKinds))

	if got := column(t, rs, 1); !slices.Equal(got, []string{"db1", "db2"}) {
		t.Errorf("expected t1 once per schema, got schemas %v", got)
	}
}

func TestGetTablesDeduplicatesByIdentifier(t *testing.T) {
	svc := newFakeService()
	svc.tables["db1"] = []catalog.TableInfo{
		table("cat1", "db1", "t1", catalog.TableKindTable),
		table("cat1", "db1", "t1", catalog.TableKindView),
	}

	rs := run(t, GetTables(svc, catalog.NewSessionHandle(), "cat1", "db1", "t1", catalog.AllTableKinds))

	if len(rs.Data) != 1 {
		t.Fatalf("expected one row for t1, got %d", len(rs.Data))
	}
	if got := column(t, rs, 3); !slices.Equal(got, []string{"TABLE"}) {
		t.Errorf("expected the first reported kind, got %v", got)
	}
}

func TestGetTablesFailFast(t *testing.T) {
	svc := newFakeService()
	boom := errors.New("db2 unavailable")
	svc.failOn = map[string]error{"db2": boom}

	rs, err := GetTables(svc, catalog.NewSessionHandle(), "cat1", "", "", catalog.AllTableKinds)(context.Background())
	if err != boom {
		t.Fatalf("expected backend error unchanged, got %v", err)
	}
	if rs != nil {
		t.Error("expected no partial result")
	}
}

func TestGetTablesCurrentCatalogFailure(t *testing.T) {
	svc := newFakeService()
	svc.err = errors.New("session expired")

	_, err := GetTables(svc, catalog.NewSessionHandle(), "", "", "", catalog.AllTableKinds)(context.Background())
	if err == nil || err.Error() != "session expired" {
		t.Errorf("expected session error, got %v", err)
	}
	if svc.listTablesCalls.Load() != 0 {
		t.Error("tables must not be listed when the catalog cannot be resolved")
	}
}

func TestGetTypeInfo(t *testing.T) {
	rs := run(t, GetTypeInfo())

	if rs.Schema != result.GetTypeInfoSchema {
		t.Error("expected type info layout")
	}
	if len(rs.Data) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(rs.Data))
	}

	for _, row := range rs.Data {
		if len(row) != 18 {
			t.Fatalf("expected 18 columns, got %d", len(row))
		}
		if _, ok := row[0].AsText(); !ok {
			t.Errorf("TYPE_NAME must be text, got %s", row[0])
		}
		if _, ok := row[1].AsInt32(); !ok {
			t.Errorf("DATA_TYPE must be int32, got %s", row[1])
		}
		if !row[15].IsNull() || !row[16].IsNull() {
			t.Errorf("SQL_DATA_TYPE and SQL_DATETIME_SUB must be null")
		}
	}

	first, _ := rs.Data[0][0].AsText()
	last, _ := rs.Data[19][0].AsText()
	if first != "VOID" || last != "INTERVAL_DAY_TIME" {
		t.Errorf("unexpected order: first %s, last %s", first, last)
	}

	decimal := rs.Data[10]
	if name, _ := decimal[0].AsText(); name != "DECIMAL" {
		t.Fatalf("expected DECIMAL at position 10, got %s", name)
	}
	if p, _ := decimal[2].AsInt32(); p != 38 {
		t.Errorf("expected DECIMAL precision 38, got %d", p)
	}
	if r, _ := decimal[17].AsInt32(); r != 10 {
		t.Errorf("expected radix 10, got %d", r)
	}
}

func TestGetTypeInfoBuildsRecord(t *testing.T) {
	rs := run(t, GetTypeInfo())
	record, err := rs.Record(nil)
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	defer record.Release()

	if record.NumRows() != 20 {
		t.Errorf("expected 20 rows, got %d", record.NumRows())
	}
}

func TestExecutorsRunConcurrently(t *testing.T) {
	svc := newFakeService()
	session := catalog.NewSessionHandle()

	executors := []Executor{
		GetCatalogs(svc, session),
		GetSchemas(svc, session, "", "db%"),
		GetTables(svc, session, "", "", "%", catalog.AllTableKinds),
		GetTypeInfo(),
	}

	g, ctx := errgroup.WithContext(context.Background())
	results := make([]*result.ResultSet, len(executors)*8)
	for i := range results {
		exec := executors[i%len(executors)]
		g.Go(func() error {
			rs, err := exec(ctx)
			results[i] = rs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent run failed: %v", err)
	}

	for i, rs := range results {
		want := len(results[i%len(executors)].Data)
		if len(rs.Data) != want {
			t.Errorf("run %d: expected %d rows, got %d", i, want, len(rs.Data))
		}
	}
}
