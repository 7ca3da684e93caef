package world

import (
	"fmt"
	"time"

	"github.com/apache/arrow/go/v17/arrow"

	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05"
)

// Snapshot is a plain-data image of every table, headguard rows included,
// with temporal values rendered as ISO 8601 strings so the image survives
// JSON round-trips.
type Snapshot map[schema.Namespace][]store.Row

// Snapshot captures the full state of the context's store.
func (c *Context) Snapshot() Snapshot {
	snap := make(Snapshot, len(schema.All()))
	for _, ns := range schema.All() {
		columns := c.store.Columns(ns)
		physical := c.store.GetWithHeadguard(ns)
		rows := make([]store.Row, 0, len(physical))
		for _, row := range physical {
			encoded := make(store.Row, len(row))
			for _, f := range columns {
				encoded[f.Name] = encodeValue(f.Type, row[f.Name])
			}
			rows = append(rows, encoded)
		}
		snap[ns] = rows
	}
	return snap
}

// FromSnapshot restores a context to the state captured in snap. Tables
// absent from the snapshot are left untouched.
func (c *Context) FromSnapshot(snap Snapshot) error {
	for _, ns := range schema.All() {
		rows, ok := snap[ns]
		if !ok {
			continue
		}
		decoded := make([]store.Row, 0, len(rows))
		for _, row := range rows {
			d, err := decodeRow(c.store.Columns(ns), row)
			if err != nil {
				return fmt.Errorf("failed to restore %s: %w", ns, err)
			}
			decoded = append(decoded, d)
		}
		if err := c.store.Replace(ns, decoded); err != nil {
			return fmt.Errorf("failed to restore %s: %w", ns, err)
		}
	}
	return nil
}

// ReadEncoded returns the visible rows of a namespace with temporal
// values rendered as ISO 8601 strings, ready for JSON transport.
func (c *Context) ReadEncoded(ns schema.Namespace) []store.Row {
	columns := c.store.Columns(ns)
	visible := c.store.Get(ns)
	rows := make([]store.Row, 0, len(visible))
	for _, row := range visible {
		encoded := make(store.Row, len(row))
		for _, f := range columns {
			encoded[f.Name] = encodeValue(f.Type, row[f.Name])
		}
		rows = append(rows, encoded)
	}
	return rows
}

// AddEncoded inserts rows whose temporal values are ISO 8601 strings,
// decoding them against the namespace schema first.
func (c *Context) AddEncoded(ns schema.Namespace, rows []store.Row) error {
	decoded := make([]store.Row, 0, len(rows))
	for _, row := range rows {
		d, err := decodeRow(c.store.Columns(ns), row)
		if err != nil {
			return fmt.Errorf("failed to decode row for %s: %w", ns, err)
		}
		decoded = append(decoded, d)
	}
	return c.store.Insert(ns, decoded)
}

func decodeRow(columns []arrow.Field, row store.Row) (store.Row, error) {
	for name := range row {
		known := false
		for _, f := range columns {
			if f.Name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown column %q", name)
		}
	}
	decoded := make(store.Row, len(row))
	for _, f := range columns {
		v, err := decodeValue(f.Type, row[f.Name])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", f.Name, err)
		}
		decoded[f.Name] = v
	}
	return decoded, nil
}

func encodeValue(dt arrow.DataType, v any) any {
	if v == nil {
		return nil
	}
	switch dt.ID() {
	case arrow.DATE32:
		if t, ok := v.(time.Time); ok {
			return t.Format(dateLayout)
		}
	case arrow.TIMESTAMP:
		if t, ok := v.(time.Time); ok {
			return t.Format(timestampLayout)
		}
	case arrow.LIST:
		elem := dt.(*arrow.ListType).Elem()
		if items, ok := v.([]any); ok {
			out := make([]any, len(items))
			for i, item := range items {
				out[i] = encodeValue(elem, item)
			}
			return out
		}
	case arrow.STRUCT:
		st := dt.(*arrow.StructType)
		if m, ok := v.(map[string]any); ok {
			out := make(map[string]any, len(m))
			for _, f := range st.Fields() {
				out[f.Name] = encodeValue(f.Type, m[f.Name])
			}
			return out
		}
	}
	return v
}

func decodeValue(dt arrow.DataType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch dt.ID() {
	case arrow.DATE32:
		if s, ok := v.(string); ok {
			t, err := time.ParseInLocation(dateLayout, s, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("invalid date %q: %w", s, err)
			}
			return t, nil
		}
	case arrow.TIMESTAMP:
		if s, ok := v.(string); ok {
			t, err := time.ParseInLocation(timestampLayout, s, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("invalid timestamp %q: %w", s, err)
			}
			return t, nil
		}
	case arrow.LIST:
		elem := dt.(*arrow.ListType).Elem()
		if items, ok := v.([]any); ok {
			out := make([]any, len(items))
			for i, item := range items {
				d, err := decodeValue(elem, item)
				if err != nil {
					return nil, err
				}
				out[i] = d
			}
			return out, nil
		}
	case arrow.STRUCT:
		st := dt.(*arrow.StructType)
		if m, ok := v.(map[string]any); ok {
			out := make(map[string]any, len(m))
			for _, f := range st.Fields() {
				d, err := decodeValue(f.Type, m[f.Name])
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", f.Name, err)
				}
				out[f.Name] = d
			}
			return out, nil
		}
	}
	return v, nil
}
