package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SessionHandle identifies a client session on the catalog service.
type SessionHandle struct {
	id uuid.UUID
}

// NewSessionHandle returns a handle with a fresh random identifier.
func NewSessionHandle() SessionHandle {
	return SessionHandle{id: uuid.New()}
}

// ParseSessionHandle parses the string form produced by SessionHandle.String.
func ParseSessionHandle(s string) (SessionHandle, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return SessionHandle{}, fmt.Errorf("invalid session handle %q: %w", s, err)
	}
	return SessionHandle{id: id}, nil
}

// String returns the canonical UUID form of the handle.
func (h SessionHandle) String() string {
	return h.id.String()
}

// IsZero reports whether the handle was never assigned.
func (h SessionHandle) IsZero() bool {
	return h.id == uuid.Nil
}

// TableKind classifies a catalog table.
type TableKind string

const (
	// TableKindTable is a base table.
	TableKindTable TableKind = "TABLE"

	// TableKindView is a view.
	TableKindView TableKind = "VIEW"
)

// AllTableKinds lists every supported kind.
var AllTableKinds = TableKinds{TableKindTable, TableKindView}

// ParseTableKind maps a client supplied kind name (case-insensitive) to a TableKind.
func ParseTableKind(s string) (TableKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TABLE":
		return TableKindTable, nil
	case "VIEW":
		return TableKindView, nil
	default:
		return "", fmt.Errorf("unsupported table kind %q", s)
	}
}

// TableKinds is a set of table kinds.
type TableKinds []TableKind

// Contains reports whether kind is a member of the set.
func (k TableKinds) Contains(kind TableKind) bool {
	for _, c := range k {
		if c == kind {
			return true
		}
	}
	return false
}

// ParseTableKinds parses a list of kind names. An empty list means all kinds.
func ParseTableKinds(names []string) (TableKinds, error) {
	if len(names) == 0 {
		return AllTableKinds, nil
	}
	kinds := make(TableKinds, 0, len(names))
	for _, name := range names {
		kind, err := ParseTableKind(name)
		if err != nil {
			return nil, err
		}
		if !kinds.Contains(kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

// Identifier is the fully qualified name of a catalog object.
type Identifier struct {
	Catalog  string
	Database string
	Object   string
}

// String renders the identifier as catalog.database.object.
func (id Identifier) String() string {
	return id.Catalog + "." + id.Database + "." + id.Object
}

// TableInfo describes a table returned by Service.ListTables.
// The struct is comparable; two infos with equal fields denote the same table.
type TableInfo struct {
	Identifier Identifier
	Kind       TableKind
}
