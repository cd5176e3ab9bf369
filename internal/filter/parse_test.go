package filter

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestFromQuery_InvertsQuery(t *testing.T) {
	s := testSchema()
	f := New(s, 20)
	f.Offset = 40
	f.Sort = Sort{Column: "submittedAt", Direction: Descending}
	_ = f.Set("status", Int(2))
	_ = f.Set("isActive", Bool(true))
	_ = f.Set("catalogueEntry", IDs(3, 5))
	_ = f.Set("submittedAt", After(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	_ = f.Set(SearchField, Text("roads"))

	got, err := FromQuery(s, f.Query(), 99)
	if err != nil {
		t.Fatalf("FromQuery: %v", err)
	}
	if enc, want := got.Query().Encode(), f.Query().Encode(); enc != want {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", enc, want)
	}
	if got.Sort != f.Sort {
		t.Fatalf("sort: got %+v", got.Sort)
	}
}

func TestFromQuery_DefaultsAndUnknownKeys(t *testing.T) {
	f, err := FromQuery(testSchema(), url.Values{"colour": {"red"}}, 25)
	if err != nil {
		t.Fatalf("FromQuery: %v", err)
	}
	if f.Limit != 25 || f.Offset != 0 || len(f.Keys()) != 0 {
		t.Fatalf("unexpected filter: limit=%d offset=%d keys=%v", f.Limit, f.Offset, f.Keys())
	}
}

func TestFromQuery_RejectsBadValues(t *testing.T) {
	cases := []url.Values{
		{"limit": {"ten"}},
		{"offset": {"-1"}},
		{"status": {"open"}},
		{"is_active": {"maybe"}},
		{"catalogue_entry__in": {"1,x"}},
		{"submitted_at_before": {"yesterday"}},
	}
	for _, q := range cases {
		if _, err := FromQuery(testSchema(), q, 10); !errors.Is(err, ErrBadValue) {
			t.Errorf("%v: expected ErrBadValue, got %v", q, err)
		}
	}
	if _, err := FromQuery(testSchema(), url.Values{"order_by": {"status"}}, 10); !errors.Is(err, ErrNotSortable) {
		t.Fatalf("expected ErrNotSortable, got %v", err)
	}
}

func TestParseValue_DateRangeForms(t *testing.T) {
	v, err := ParseValue(KindDateRange, "2024-01-01..2024-02-01")
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	a, b := v.Range()
	if a == nil || b == nil || !a.Before(*b) {
		t.Fatalf("range not closed: %v %v", a, b)
	}
	v, _ = ParseValue(KindDateRange, "..2024-02-01T10:00:00Z")
	if a, b := v.Range(); a != nil || b == nil {
		t.Fatalf("expected open lower bound, got %v %v", a, b)
	}
	if v, _ := ParseValue(KindIDs, " "); !v.IsUnset() {
		t.Fatalf("blank should be unset")
	}
}

func TestSchema_FieldsAndColumnsSorted(t *testing.T) {
	s := testSchema()
	cols := s.Columns()
	if len(cols) != 2 || cols[0] != "name" || cols[1] != "submittedAt" {
		t.Fatalf("columns: %v", cols)
	}
	fields := s.Fields()
	for i := 1; i < len(fields); i++ {
		if fields[i-1].Name >= fields[i].Name {
			t.Fatalf("fields not sorted: %v", fields)
		}
	}
}

func TestDirection_JSON(t *testing.T) {
	b, _ := json.Marshal(Sort{Column: "name", Direction: Descending})
	if string(b) != `{"column":"name","direction":"desc"}` {
		t.Fatalf("got %s", b)
	}
	var s Sort
	if err := json.Unmarshal([]byte(`{"column":"name","direction":"asc"}`), &s); err != nil || s.Direction != Ascending {
		t.Fatalf("unmarshal: %+v %v", s, err)
	}
}
