package catalog

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MultiService serves the catalogs of several services as one.
// A catalog is routed to the first member that lists it; the primary member
// resolves the current catalog and owns sessions when it implements SessionManager.
// Members can be added and removed at runtime.
type MultiService struct {
	mu      sync.RWMutex
	members []Service // members[0] is the primary
}

var (
	_ Service        = (*MultiService)(nil)
	_ SessionManager = (*MultiService)(nil)
)

// NewMultiService combines primary with further member services.
func NewMultiService(primary Service, others ...Service) (*MultiService, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary service is required")
	}
	m := &MultiService{members: []Service{primary}}
	for _, svc := range others {
		if err := m.AddService(svc); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddService appends a member. Its catalogs are shadowed by members added earlier.
func (m *MultiService) AddService(svc Service) error {
	if svc == nil {
		return fmt.Errorf("service is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = append(m.members, svc)
	return nil
}

// RemoveService removes a non-primary member. It reports whether svc was a member.
// Members are matched by identity; a member whose dynamic type is not
// comparable (a struct value holding a map, for example) can never be removed.
func (m *MultiService) RemoveService(svc Service) bool {
	if svc == nil || !reflect.TypeOf(svc).Comparable() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 1; i < len(m.members); i++ {
		if sameService(m.members[i], svc) {
			m.members = append(m.members[:i], m.members[i+1:]...)
			return true
		}
	}
	return false
}

// sameService compares two members without panicking on incomparable dynamic types.
func sameService(a, b Service) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.TypeOf(a).Comparable() && a == b
}

func (m *MultiService) snapshot() []Service {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Service(nil), m.members...)
}

// ListCatalogs queries every member concurrently and returns the union.
// The first member error aborts the listing.
func (m *MultiService) ListCatalogs(ctx context.Context, session SessionHandle) ([]string, error) {
	members := m.snapshot()
	lists := make([][]string, len(members))

	g, gctx := errgroup.WithContext(ctx)
	for i, svc := range members {
		g.Go(func() error {
			names, err := svc.ListCatalogs(gctx, session)
			if err != nil {
				return err
			}
			lists[i] = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var result []string
	for _, names := range lists {
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				result = append(result, name)
			}
		}
	}
	return result, nil
}

// CurrentCatalog implements Service using the primary member.
func (m *MultiService) CurrentCatalog(ctx context.Context, session SessionHandle) (string, error) {
	return m.snapshot()[0].CurrentCatalog(ctx, session)
}

// ListDatabases implements Service.
func (m *MultiService) ListDatabases(ctx context.Context, session SessionHandle, catalogName string) ([]string, error) {
	svc, err := m.route(ctx, session, catalogName)
	if err != nil {
		return nil, err
	}
	return svc.ListDatabases(ctx, session, catalogName)
}

// ListTables implements Service.
func (m *MultiService) ListTables(ctx context.Context, session SessionHandle, catalogName, databaseName string, kinds TableKinds) ([]TableInfo, error) {
	svc, err := m.route(ctx, session, catalogName)
	if err != nil {
		return nil, err
	}
	return svc.ListTables(ctx, session, catalogName, databaseName, kinds)
}

// route returns the first member listing catalogName.
func (m *MultiService) route(ctx context.Context, session SessionHandle, catalogName string) (Service, error) {
	for _, svc := range m.snapshot() {
		names, err := svc.ListCatalogs(ctx, session)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if name == catalogName {
				return svc, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, catalogName)
}

// OpenSession implements SessionManager. Without a session-managing primary
// the handle is minted locally.
func (m *MultiService) OpenSession(ctx context.Context) (SessionHandle, error) {
	if sm, ok := m.snapshot()[0].(SessionManager); ok {
		return sm.OpenSession(ctx)
	}
	return NewSessionHandle(), nil
}

// CloseSession implements SessionManager.
func (m *MultiService) CloseSession(ctx context.Context, session SessionHandle) error {
	if sm, ok := m.snapshot()[0].(SessionManager); ok {
		return sm.CloseSession(ctx, session)
	}
	return nil
}
