// Package query provides composable row-level filters over table views.
// Filters are pure functions chained by Apply; a dedicated NotGiven
// sentinel distinguishes "do not filter on this column" from "filter for
// null" and from "filter for this value".
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/worldbox/worldbox/internal/store"
)

// notGiven is the sentinel type behind NotGiven.
type notGiven struct{}

func (notGiven) String() string { return "NOT_GIVEN" }

// NotGiven marks a criterion the caller did not supply at all. It is
// distinct from nil, which filters for null cells.
var NotGiven any = notGiven{}

// IsGiven reports whether v is a real criterion value (possibly nil).
func IsGiven(v any) bool {
	_, omitted := v.(notGiven)
	return !omitted
}

// Filter narrows a table view on one column. Implementations never mutate
// the input slice.
type Filter func(rows []store.Row, column string, value any) []store.Row

// Criterion is one (column, value, filter) constraint.
type Criterion struct {
	Column string
	Value  any
	Filter Filter
}

// Apply runs each criterion in order, skipping those whose value is
// NotGiven. A query that constrains on nothing is a caller bug and errors.
func Apply(rows []store.Row, criteria []Criterion) ([]store.Row, error) {
	given := false
	for _, c := range criteria {
		if IsGiven(c.Value) {
			given = true
			break
		}
	}
	if !given {
		names := make([]string, len(criteria))
		for i, c := range criteria {
			names[i] = c.Column
		}
		return nil, fmt.Errorf(
			"no search criteria are given: at least one of %s must be provided",
			strings.Join(names, ", "))
	}
	for _, c := range criteria {
		if !IsGiven(c.Value) {
			continue
		}
		rows = c.Filter(rows, c.Column, c.Value)
	}
	return rows, nil
}

// ExactMatch keeps rows whose cell equals value. A nil value matches null
// cells; equality against null never matches otherwise.
func ExactMatch(rows []store.Row, column string, value any) []store.Row {
	out := make([]store.Row, 0, len(rows))
	for _, row := range rows {
		cell := row[column]
		if value == nil {
			if cell == nil {
				out = append(out, row)
			}
			continue
		}
		if cell != nil && store.Equal(cell, normalizeCriterion(value)) {
			out = append(out, row)
		}
	}
	return out
}

// Contains keeps rows whose string cell contains value as a substring.
func Contains(rows []store.Row, column string, value any) []store.Row {
	needle := fmt.Sprint(value)
	out := make([]store.Row, 0, len(rows))
	for _, row := range rows {
		if s, ok := row[column].(string); ok && strings.Contains(s, needle) {
			out = append(out, row)
		}
	}
	return out
}

// LtEq keeps rows whose cell is less than or equal to value. Null cells
// never match.
func LtEq(rows []store.Row, column string, value any) []store.Row {
	return compareFilter(rows, column, value, func(cmp int) bool { return cmp <= 0 })
}

// GtEq keeps rows whose cell is greater than or equal to value.
func GtEq(rows []store.Row, column string, value any) []store.Row {
	return compareFilter(rows, column, value, func(cmp int) bool { return cmp >= 0 })
}

// IsMember keeps rows whose cell is one of the given values.
func IsMember(rows []store.Row, column string, value any) []store.Row {
	members, ok := value.([]any)
	if !ok {
		if ss, sok := value.([]string); sok {
			members = make([]any, len(ss))
			for i, s := range ss {
				members[i] = s
			}
		}
	}
	out := make([]store.Row, 0, len(rows))
	for _, row := range rows {
		cell := row[column]
		if cell == nil {
			continue
		}
		for _, m := range members {
			if store.Equal(cell, normalizeCriterion(m)) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func compareFilter(rows []store.Row, column string, value any, keep func(int) bool) []store.Row {
	out := make([]store.Row, 0, len(rows))
	want := normalizeCriterion(value)
	for _, row := range rows {
		cell := row[column]
		if cell == nil {
			continue
		}
		cmp, ok := compareValues(cell, want)
		if ok && keep(cmp) {
			out = append(out, row)
		}
	}
	return out
}

func compareValues(a, b any) (int, bool) {
	switch av := a.(type) {
	case int64:
		if bv, ok := toInt64(b); ok {
			switch {
			case av < bv:
				return -1, true
			case av > bv:
				return 1, true
			}
			return 0, true
		}
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1, true
			case av > bv:
				return 1, true
			}
			return 0, true
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), true
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1, true
			case av.After(bv):
				return 1, true
			}
			return 0, true
		}
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// normalizeCriterion widens criterion values to the store's canonical cell
// types so untyped literals compare cleanly against stored cells.
func normalizeCriterion(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case []string:
		out := make([]any, len(n))
		for i, s := range n {
			out[i] = s
		}
		return out
	}
	return v
}
