package query

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"krishilink/internal/domain"
)

var listingFields = append(Schema{
	ExactField("category", "category"),
	TextField("state", "state"),
	TextField("search", "crop_type", "description"),
}, NumberRange("minPrice", "maxPrice", "expected_price")...)

func TestBuild_ExactSkipsAllSentinel(t *testing.T) {
	p := listingFields.Lenient(map[string]string{"category": "all"})
	if len(p.Terms) != 0 {
		t.Fatalf("expected no terms for sentinel, got %+v", p.Terms)
	}

	p = listingFields.Lenient(map[string]string{"category": "crop"})
	if len(p.Terms) != 1 || p.Terms[0].Op != OpEq || p.Terms[0].Value != "crop" {
		t.Fatalf("unexpected terms: %+v", p.Terms)
	}
}

func TestBuild_UnknownAndEmptyParamsIgnored(t *testing.T) {
	p := listingFields.Lenient(map[string]string{"colour": "red", "state": "  "})
	if len(p.Terms) != 0 {
		t.Fatalf("expected no terms, got %+v", p.Terms)
	}
}

func TestBuild_RangeBounds(t *testing.T) {
	p := listingFields.Lenient(map[string]string{"minPrice": "100", "maxPrice": "250.5"})
	if len(p.Terms) != 2 {
		t.Fatalf("expected two terms, got %+v", p.Terms)
	}
	if p.Terms[0].Op != OpGte || p.Terms[0].Value != 100.0 {
		t.Fatalf("bad lower bound: %+v", p.Terms[0])
	}
	if p.Terms[1].Op != OpLte || p.Terms[1].Value != 250.5 {
		t.Fatalf("bad upper bound: %+v", p.Terms[1])
	}
}

func TestLenient_DropsUnparseableBound(t *testing.T) {
	p := listingFields.Lenient(map[string]string{"minPrice": "cheap", "maxPrice": "300"})
	if len(p.Terms) != 1 {
		t.Fatalf("expected only max bound, got %+v", p.Terms)
	}
	if p.Terms[0].Op != OpLte {
		t.Fatalf("kept wrong bound: %+v", p.Terms[0])
	}
}

func TestStrict_RejectsUnparseableBound(t *testing.T) {
	_, err := listingFields.Strict(map[string]string{"minPrice": "cheap"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStrict_RejectsNonFiniteBound(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-Inf", "+infinity"} {
		if _, err := listingFields.Strict(map[string]string{"minPrice": raw}); !domain.IsValidation(err) {
			t.Fatalf("minPrice=%s: expected validation error, got %v", raw, err)
		}
	}
	p := listingFields.Lenient(map[string]string{"maxPrice": "NaN"})
	if len(p.Terms) != 0 {
		t.Fatalf("lenient build should drop a NaN bound, got %+v", p.Terms)
	}
}

func TestBuild_DateRangeEndIsInclusiveOfDay(t *testing.T) {
	schema := Schema(DateRange("startDate", "endDate", "price_date"))
	p, err := schema.Strict(map[string]string{"startDate": "2024-03-01", "endDate": "2024-03-05"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	start := p.Terms[0].Value.(time.Time)
	end := p.Terms[1].Value.(time.Time)
	if !start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("bad start: %v", start)
	}
	if end.Before(time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("end bound should cover the whole day, got %v", end)
	}

	if _, err := schema.Strict(map[string]string{"endDate": "yesterday"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
}

func TestWhere_RendersAndOrCombination(t *testing.T) {
	p := listingFields.Lenient(map[string]string{"state": "Pun", "search": "50%_off", "minPrice": "10"})
	p = p.With(OpEq, "status", "active")

	where, args := p.Where()
	want := "1=1 AND LOWER(state) LIKE ? ESCAPE '!' AND (LOWER(crop_type) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!') AND expected_price >= ? AND status = ?"
	if where != want {
		t.Fatalf("where mismatch\n got: %s\nwant: %s", where, want)
	}
	wantArgs := []any{"%pun%", "%50!%!_off%", "%50!%!_off%", 10.0, "active"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("args mismatch: got %#v want %#v", args, wantArgs)
	}
}

func TestWhere_EmptyPredicate(t *testing.T) {
	where, args := Predicate{}.Where()
	if where != "1=1" || len(args) != 0 {
		t.Fatalf("unexpected empty predicate rendering: %q %v", where, args)
	}
}

func TestWith_DoesNotMutateReceiver(t *testing.T) {
	base := listingFields.Lenient(map[string]string{"category": "crop"})
	_ = base.With(OpEq, "status", "active")
	if len(base.Terms) != 1 {
		t.Fatalf("receiver mutated: %+v", base.Terms)
	}
}

func TestFromValues_TakesFirstValue(t *testing.T) {
	got := FromValues(url.Values{"state": {"Punjab", "Kerala"}, "empty": {}})
	if got["state"] != "Punjab" {
		t.Fatalf("expected first value, got %q", got["state"])
	}
	if _, ok := got["empty"]; ok {
		t.Fatalf("empty key should be skipped")
	}
}

func TestWhere_MemberUsesJSONContains(t *testing.T) {
	p := Schema{ListField("tag", "q.tags")}.Lenient(map[string]string{"tag": "wheat"})
	where, args := p.Where()
	if where != "1=1 AND JSON_CONTAINS(q.tags, JSON_QUOTE(?))" {
		t.Fatalf("unexpected where: %s", where)
	}
	if len(args) != 1 || args[0] != "wheat" {
		t.Fatalf("unexpected args: %v", args)
	}
}
