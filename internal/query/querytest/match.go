// Package querytest evaluates predicates in memory for store fakes.
package querytest

import (
	"fmt"
	"strings"
	"time"

	"krishilink/internal/query"
)

// Match reports whether row satisfies p. Rows are keyed by the same column
// names the schemas use; values are strings, bools, float64, int64,
// time.Time or []string.
func Match(p query.Predicate, row map[string]any) bool {
	for _, t := range p.Terms {
		ok := false
		for _, col := range t.Columns {
			if matchTerm(t.Op, row[col], t.Value) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func matchTerm(op query.Op, have, want any) bool {
	switch op {
	case query.OpEq:
		return fmt.Sprint(have) == fmt.Sprint(want)
	case query.OpContains:
		s, _ := have.(string)
		return strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(want)))
	case query.OpHas:
		list, _ := have.([]string)
		for _, v := range list {
			if v == fmt.Sprint(want) {
				return true
			}
		}
		return false
	case query.OpGte, query.OpLte:
		c, ok := compare(have, want)
		if !ok {
			return false
		}
		if op == query.OpGte {
			return c >= 0
		}
		return c <= 0
	}
	return false
}

func compare(a, b any) (int, bool) {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	af, ok := toFloat(a)
	if !ok {
		return 0, false
	}
	bf, ok := toFloat(b)
	if !ok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	}
	return 0, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
