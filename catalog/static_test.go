package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
)

func testService() *StaticService {
	svc := NewStaticService("cat1")
	svc.AddDatabase("cat1", "db1", map[string]TableKind{"t1": TableKindTable, "v1": TableKindView})
	svc.AddDatabase("cat1", "db2", map[string]TableKind{"t3": TableKindTable})
	svc.AddCatalog("cat2")
	return svc
}

// TestStaticServiceCatalogs tests listing catalogs from the static service.
func TestStaticServiceCatalogs(t *testing.T) {
	svc := testService()

	catalogs, err := svc.ListCatalogs(context.Background(), NewSessionHandle())
	if err != nil {
		t.Fatalf("ListCatalogs() failed: %v", err)
	}
	sort.Strings(catalogs)

	if len(catalogs) != 2 || catalogs[0] != "cat1" || catalogs[1] != "cat2" {
		t.Errorf("Expected [cat1 cat2], got %v", catalogs)
	}
}

// TestStaticServiceDatabases tests database enumeration and unknown catalogs.
func TestStaticServiceDatabases(t *testing.T) {
	svc := testService()
	ctx := context.Background()
	session := NewSessionHandle()

	dbs, err := svc.ListDatabases(ctx, session, "cat1")
	if err != nil {
		t.Fatalf("ListDatabases() failed: %v", err)
	}
	if len(dbs) != 2 {
		t.Errorf("Expected 2 databases, got %v", dbs)
	}

	dbs, err = svc.ListDatabases(ctx, session, "cat2")
	if err != nil {
		t.Fatalf("ListDatabases() failed for empty catalog: %v", err)
	}
	if len(dbs) != 0 {
		t.Errorf("Expected no databases in cat2, got %v", dbs)
	}

	_, err = svc.ListDatabases(ctx, session, "missing")
	if !errors.Is(err, ErrCatalogNotFound) {
		t.Errorf("Expected ErrCatalogNotFound, got %v", err)
	}
}

// TestStaticServiceTables tests kind restriction and identifiers of listed tables.
func TestStaticServiceTables(t *testing.T) {
	svc := testService()
	ctx := context.Background()
	session := NewSessionHandle()

	tests := []struct {
		name  string
		kinds TableKinds
		want  []string
	}{
		{"tables only", TableKinds{TableKindTable}, []string{"t1"}},
		{"views only", TableKinds{TableKindView}, []string{"v1"}},
		{"all kinds", AllTableKinds, []string{"t1", "v1"}},
		{"no kinds", TableKinds{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			infos, err := svc.ListTables(ctx, session, "cat1", "db1", tt.kinds)
			if err != nil {
				t.Fatalf("ListTables() failed: %v", err)
			}
			got := make([]string, 0, len(infos))
			for _, info := range infos {
				if info.Identifier.Catalog != "cat1" || info.Identifier.Database != "db1" {
					t.Errorf("Unexpected identifier %s", info.Identifier)
				}
				got = append(got, info.Identifier.Object)
			}
			sort.Strings(got)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
				}
			}
		})
	}

	_, err := svc.ListTables(ctx, session, "cat1", "missing", AllTableKinds)
	if !errors.Is(err, ErrDatabaseNotFound) {
		t.Errorf("Expected ErrDatabaseNotFound, got %v", err)
	}
}

// TestStaticServiceSessions tests the session lifecycle and current catalog switching.
func TestStaticServiceSessions(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	session, err := svc.OpenSession(ctx)
	if err != nil {
		t.Fatalf("OpenSession() failed: %v", err)
	}

	current, err := svc.CurrentCatalog(ctx, session)
	if err != nil {
		t.Fatalf("CurrentCatalog() failed: %v", err)
	}
	if current != "cat1" {
		t.Errorf("Expected default catalog 'cat1', got '%s'", current)
	}

	if err := svc.SetCurrentCatalog(session, "cat2"); err != nil {
		t.Fatalf("SetCurrentCatalog() failed: %v", err)
	}
	current, _ = svc.CurrentCatalog(ctx, session)
	if current != "cat2" {
		t.Errorf("Expected current catalog 'cat2', got '%s'", current)
	}

	if err := svc.SetCurrentCatalog(session, "missing"); !errors.Is(err, ErrCatalogNotFound) {
		t.Errorf("Expected ErrCatalogNotFound, got %v", err)
	}

	if err := svc.CloseSession(ctx, session); err != nil {
		t.Fatalf("CloseSession() failed: %v", err)
	}
	if err := svc.CloseSession(ctx, session); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second close, got %v", err)
	}
	if err := svc.SetCurrentCatalog(session, "cat1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for closed session, got %v", err)
	}
}

// TestStaticServiceConcurrentAccess tests that concurrent enumeration is safe.
func TestStaticServiceConcurrentAccess(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := svc.OpenSession(ctx)
			if err != nil {
				errs <- err
				return
			}
			if _, err := svc.CurrentCatalog(ctx, session); err != nil {
				errs <- err
				return
			}
			if _, err := svc.ListTables(ctx, session, "cat1", "db1", AllTableKinds); err != nil {
				errs <- err
				return
			}
			if err := svc.CloseSession(ctx, session); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent access error: %v", err)
	}
}
