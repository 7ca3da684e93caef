// Package store implements the typed, namespaced table store backing one
// sandbox world. Each table has a fixed column schema and is born with a
// single all-null headguard row that reads never return and deletes can
// never remove, so tables are never physically empty while staying
// logically empty to callers.
package store

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"

	"github.com/worldbox/worldbox/internal/schema"
)

// Row maps column names to cell values. A nil value is an explicit null.
type Row map[string]any

// Predicate selects rows for deletion. It is never evaluated against the
// headguard row.
type Predicate func(Row) bool

type table struct {
	columns []arrow.Field
	rows    []Row // rows[0] is the headguard
}

// Store holds one table per namespace.
type Store struct {
	tables map[schema.Namespace]*table
}

// New creates a store with every namespace initialized to its headguard.
func New() *Store {
	s := &Store{tables: make(map[schema.Namespace]*table)}
	for _, ns := range schema.All() {
		cols := schema.Columns(ns)
		headguard := make(Row, len(cols))
		for _, col := range cols {
			if col.Name == schema.CounterColumn {
				headguard[col.Name] = int64(0)
			} else {
				headguard[col.Name] = nil
			}
		}
		s.tables[ns] = &table{columns: cols, rows: []Row{headguard}}
	}
	return s
}

func (s *Store) table(ns schema.Namespace) *table {
	t, ok := s.tables[ns]
	if !ok {
		panic(fmt.Sprintf("store: unknown namespace %q", ns))
	}
	return t
}

// isHeadguard reports whether every column except the counter column is
// null. Insert rejects such rows, so only the row created by New can ever
// match.
func isHeadguard(columns []arrow.Field, row Row) bool {
	for _, col := range columns {
		if col.Name == schema.CounterColumn {
			continue
		}
		if row[col.Name] != nil {
			return false
		}
	}
	return true
}

// Get returns all non-headguard rows of a namespace, in insertion order.
// The returned rows are live; treat them as read-only and mutate through
// Insert and Delete.
func (s *Store) Get(ns schema.Namespace) []Row {
	t := s.table(ns)
	out := make([]Row, 0, len(t.rows)-1)
	for _, row := range t.rows {
		if isHeadguard(t.columns, row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// GetWithHeadguard returns every physical row, headguard included. Only
// meant for snapshots and debugging.
func (s *Store) GetWithHeadguard(ns schema.Namespace) []Row {
	t := s.table(ns)
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Columns returns the namespace's ordered column schema.
func (s *Store) Columns(ns schema.Namespace) []arrow.Field {
	return s.table(ns).columns
}

// Insert validates and appends rows, preserving caller order. Validation is
// all-or-nothing: a bad row anywhere in the batch leaves the table
// untouched. Rows may omit columns (omitted means null), but unknown column
// names and rows that are null across every non-counter column are
// rejected.
func (s *Store) Insert(ns schema.Namespace, rows []Row) error {
	t := s.table(ns)
	normalized := make([]Row, 0, len(rows))
	for _, row := range rows {
		for name := range row {
			if !hasColumn(t.columns, name) {
				return &ValidationError{
					Namespace: ns,
					Reason:    fmt.Sprintf("unknown column %q", name),
				}
			}
		}
		full := make(Row, len(t.columns))
		for _, col := range t.columns {
			v, err := normalizeValue(col, row[col.Name])
			if err != nil {
				return &ValidationError{Namespace: ns, Reason: err.Error()}
			}
			full[col.Name] = v
		}
		if isHeadguard(t.columns, full) {
			return &ValidationError{
				Namespace: ns,
				Reason:    "row with all null values is reserved for the headguard",
			}
		}
		normalized = append(normalized, full)
	}
	t.rows = append(t.rows, normalized...)
	return nil
}

// Delete removes every non-headguard row matching the predicate. Deleting
// from the Sandbox namespace is always refused, and a predicate that
// matches no non-headguard row is a NotFoundError: callers wanting
// delete-if-exists semantics must pre-check or inspect the error kind.
func (s *Store) Delete(ns schema.Namespace, predicate Predicate) error {
	if ns == schema.Sandbox {
		return &ValidationError{
			Namespace: ns,
			Reason:    "removal from the sandbox namespace is not allowed",
		}
	}
	t := s.table(ns)
	kept := make([]Row, 0, len(t.rows))
	matched := 0
	for _, row := range t.rows {
		if isHeadguard(t.columns, row) || !predicate(row) {
			kept = append(kept, row)
			continue
		}
		matched++
	}
	if matched == 0 {
		return &NotFoundError{Namespace: ns, Detail: "no rows match the delete predicate"}
	}
	t.rows = kept
	return nil
}

// Replace swaps in the full physical contents of a namespace, headguard
// included. Used by snapshot restore; rows are normalized but the
// headguard-collision rule is deliberately not applied.
func (s *Store) Replace(ns schema.Namespace, rows []Row) error {
	t := s.table(ns)
	normalized := make([]Row, 0, len(rows))
	for _, row := range rows {
		full := make(Row, len(t.columns))
		for _, col := range t.columns {
			v, err := normalizeValue(col, row[col.Name])
			if err != nil {
				return &ValidationError{Namespace: ns, Reason: err.Error()}
			}
			full[col.Name] = v
		}
		normalized = append(normalized, full)
	}
	t.rows = normalized
	return nil
}

// MaxMessageIndex returns the highest counter value recorded in the Sandbox
// namespace, or -1 when no messages exist yet.
func (s *Store) MaxMessageIndex() int64 {
	max := int64(-1)
	for _, row := range s.Get(schema.Sandbox) {
		if v, ok := row[schema.CounterColumn].(int64); ok && v > max {
			max = v
		}
	}
	return max
}

func hasColumn(columns []arrow.Field, name string) bool {
	for _, col := range columns {
		if col.Name == name {
			return true
		}
	}
	return false
}
