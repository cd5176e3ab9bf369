package resolver

import (
	"reflect"
	"testing"

	"github.com/tbourn/catalogue-admin/internal/domain"
)

func TestDedupe_FirstPositionLastValue(t *testing.T) {
	in := []domain.RecordStatus{
		{ID: 1, Label: "Draft"},
		{ID: 2, Label: "Locked"},
		{ID: 1, Label: "Draft*"},
	}
	got := Dedupe(in)
	want := []domain.RecordStatus{{ID: 1, Label: "Draft*"}, {ID: 2, Label: "Locked"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Dedupe = %+v; want %+v", got, want)
	}
	if len(Dedupe[domain.User](nil)) != 0 {
		t.Fatalf("nil input should yield empty output")
	}
}

func TestUniqueIDs_AcrossFields(t *testing.T) {
	type partial struct {
		custodian  *int
		assignedTo *int
		editors    []int
	}
	one, two, three := 1, 2, 3
	objs := []partial{
		{custodian: &one, assignedTo: &two, editors: []int{3, 1}},
		{custodian: &two, assignedTo: nil, editors: nil},
		{custodian: &three, assignedTo: &three, editors: []int{4}},
	}
	got := UniqueIDs(objs,
		func(p partial) []int { return Opt(p.custodian) },
		func(p partial) []int { return Opt(p.assignedTo) },
		func(p partial) []int { return p.editors },
	)
	if !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Fatalf("UniqueIDs = %v", got)
	}
	if UniqueIDs[partial](nil) != nil {
		t.Fatalf("no objects should yield nil")
	}
}

func TestIndex(t *testing.T) {
	m := Index([]domain.User{{ID: 3, Username: "c"}, {ID: 1, Username: "a"}})
	if len(m) != 2 || m[3].Username != "c" {
		t.Fatalf("Index = %+v", m)
	}
}
