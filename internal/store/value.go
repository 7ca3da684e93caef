package store

import (
	"fmt"
	"reflect"
	"time"

	"github.com/apache/arrow/go/v17/arrow"

	"github.com/worldbox/worldbox/internal/schema"
)

// normalizeValue checks v against the column type and converts it to the
// canonical in-memory representation: string, int64, float64, bool,
// time.Time, []any, or map[string]any. Nil passes through (all columns are
// nullable).
func normalizeValue(f arrow.Field, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch f.Type.ID() {
	case arrow.STRING:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("column %q expects a string, got %T", f.Name, v)
		}
		if variants := schema.EnumVariants(f); variants != nil {
			for _, variant := range variants {
				if s == variant {
					return s, nil
				}
			}
			return nil, fmt.Errorf("column %q expects one of %v, got %q", f.Name, variants, s)
		}
		return s, nil
	case arrow.INT32, arrow.INT64, arrow.UINT8:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			// JSON decoding yields float64 for integers.
			if n == float64(int64(n)) {
				return int64(n), nil
			}
		}
		return nil, fmt.Errorf("column %q expects an integer, got %T", f.Name, v)
	case arrow.FLOAT64:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
		return nil, fmt.Errorf("column %q expects a float, got %T", f.Name, v)
	case arrow.BOOL:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("column %q expects a bool, got %T", f.Name, v)
		}
		return b, nil
	case arrow.DATE32:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("column %q expects a date, got %T", f.Name, v)
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	case arrow.TIMESTAMP:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("column %q expects a datetime, got %T", f.Name, v)
		}
		return t.Truncate(time.Microsecond), nil
	case arrow.LIST:
		elem := arrow.Field{Name: f.Name, Type: f.Type.(*arrow.ListType).Elem(), Nullable: true}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice {
			return nil, fmt.Errorf("column %q expects a list, got %T", f.Name, v)
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := normalizeValue(elem, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	case arrow.STRUCT:
		st := f.Type.(*arrow.StructType)
		m, ok := toStringMap(v)
		if !ok {
			return nil, fmt.Errorf("column %q expects a struct, got %T", f.Name, v)
		}
		for name := range m {
			if _, found := st.FieldByName(name); !found {
				return nil, fmt.Errorf("column %q has no struct field %q", f.Name, name)
			}
		}
		out := make(map[string]any, st.NumFields())
		for _, sf := range st.Fields() {
			item, err := normalizeValue(sf, m[sf.Name])
			if err != nil {
				return nil, err
			}
			out[sf.Name] = item
		}
		return out, nil
	}
	return nil, fmt.Errorf("column %q has unsupported type %s", f.Name, f.Type)
}

func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Row:
		return m, true
	}
	return nil, false
}

// Equal compares two normalized cell values. Datetimes compare with
// time.Time.Equal so the instant, not the representation, decides.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k := range av {
			if !Equal(av[k], bv[k]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// RowsEqual compares two normalized rows column for column.
func RowsEqual(a, b Row) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}
