// Package query turns query-string parameters into SQL filter predicates and
// pagination windows shared by every collection endpoint.
package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"krishilink/internal/domain"
	"krishilink/internal/utils"
)

// AllSentinel disables an exact-match filter.
const AllSentinel = "all"

type Kind int

const (
	// Exact matches a column by equality.
	Exact Kind = iota
	// Contains is a case-insensitive substring match; several columns are OR-combined.
	Contains
	MinNumber
	MaxNumber
	MinDate
	MaxDate
	// Member matches when a JSON list column contains the value.
	Member
)

// Field maps one query-string parameter onto one or more columns.
type Field struct {
	Param   string
	Kind    Kind
	Columns []string
}

// Schema is the field-mapping table of one collection.
type Schema []Field

func ExactField(param, column string) Field {
	return Field{Param: param, Kind: Exact, Columns: []string{column}}
}

func TextField(param string, columns ...string) Field {
	return Field{Param: param, Kind: Contains, Columns: columns}
}

// ListField matches param against the elements of a JSON list column.
func ListField(param, column string) Field {
	return Field{Param: param, Kind: Member, Columns: []string{column}}
}

// NumberRange maps a min/max pair of parameters onto inclusive bounds of column.
func NumberRange(minParam, maxParam, column string) []Field {
	return []Field{
		{Param: minParam, Kind: MinNumber, Columns: []string{column}},
		{Param: maxParam, Kind: MaxNumber, Columns: []string{column}},
	}
}

// DateRange maps a start/end pair of parameters onto inclusive bounds of column.
func DateRange(startParam, endParam, column string) []Field {
	return []Field{
		{Param: startParam, Kind: MinDate, Columns: []string{column}},
		{Param: endParam, Kind: MaxDate, Columns: []string{column}},
	}
}

type Op string

const (
	OpEq       Op = "eq"
	OpContains Op = "contains"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpHas      Op = "has"
)

// Term is one condition. A term over several columns is satisfied when any
// column matches.
type Term struct {
	Op      Op
	Columns []string
	Value   any
}

// Predicate is the conjunction of its terms.
type Predicate struct {
	Terms []Term
}

// With returns a copy of p with an extra single-column term.
func (p Predicate) With(op Op, column string, value any) Predicate {
	terms := make([]Term, 0, len(p.Terms)+1)
	terms = append(terms, p.Terms...)
	terms = append(terms, Term{Op: op, Columns: []string{column}, Value: value})
	return Predicate{Terms: terms}
}

// Lenient builds a predicate and silently drops bounds that fail to parse.
func (s Schema) Lenient(params map[string]string) Predicate {
	p, _ := s.build(params, false)
	return p
}

// Strict builds a predicate and rejects unparseable bounds with a ValidationError.
func (s Schema) Strict(params map[string]string) (Predicate, error) {
	return s.build(params, true)
}

func (s Schema) build(params map[string]string, strict bool) (Predicate, error) {
	var p Predicate
	for _, f := range s {
		raw := strings.TrimSpace(params[f.Param])
		if raw == "" || len(f.Columns) == 0 {
			continue
		}

		switch f.Kind {
		case Exact:
			if strings.EqualFold(raw, AllSentinel) {
				continue
			}
			p.Terms = append(p.Terms, Term{Op: OpEq, Columns: f.Columns, Value: raw})
		case Contains:
			p.Terms = append(p.Terms, Term{Op: OpContains, Columns: f.Columns, Value: raw})
		case Member:
			p.Terms = append(p.Terms, Term{Op: OpHas, Columns: f.Columns, Value: raw})
		case MinNumber, MaxNumber:
			v, err := strconv.ParseFloat(raw, 64)
			if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
				err = errNotFinite
			}
			if err != nil {
				if strict {
					return Predicate{}, domain.ValidationError{Field: f.Param, Msg: "must be a number", Err: err}
				}
				continue
			}
			p.Terms = append(p.Terms, Term{Op: boundOp(f.Kind), Columns: f.Columns, Value: v})
		case MinDate, MaxDate:
			t, dateOnly, err := parseDate(raw)
			if err != nil {
				if strict {
					return Predicate{}, domain.ValidationError{Field: f.Param, Msg: "must be a date (YYYY-MM-DD or RFC3339)", Err: err}
				}
				continue
			}
			if f.Kind == MaxDate && dateOnly {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			p.Terms = append(p.Terms, Term{Op: boundOp(f.Kind), Columns: f.Columns, Value: t})
		}
	}
	return p, nil
}

var errNotFinite = errors.New("not a finite number")

func boundOp(k Kind) Op {
	if k == MinNumber || k == MinDate {
		return OpGte
	}
	return OpLte
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := utils.ParseDate(raw); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}

// Where renders the predicate as a MySQL condition (without the WHERE
// keyword) and its positional arguments. Column names come from schemas,
// never from the request.
func (p Predicate) Where() (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	for _, t := range p.Terms {
		parts := make([]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			switch t.Op {
			case OpEq:
				parts = append(parts, col+" = ?")
				args = append(args, t.Value)
			case OpContains:
				parts = append(parts, "LOWER("+col+") LIKE ? ESCAPE '!'")
				args = append(args, "%"+escapeLike(strings.ToLower(fmt.Sprint(t.Value)))+"%")
			case OpGte:
				parts = append(parts, col+" >= ?")
				args = append(args, t.Value)
			case OpLte:
				parts = append(parts, col+" <= ?")
				args = append(args, t.Value)
			case OpHas:
				parts = append(parts, "JSON_CONTAINS("+col+", JSON_QUOTE(?))")
				args = append(args, t.Value)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if len(parts) == 1 {
			where = append(where, parts[0])
			continue
		}
		where = append(where, "("+strings.Join(parts, " OR ")+")")
	}
	return strings.Join(where, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// FromValues flattens url.Values to the first value of each key.
func FromValues(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			out[k] = vals[0]
		}
	}
	return out
}
