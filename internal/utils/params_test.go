package utils

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	got := SplitList("a, b,,", "c")
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if SplitList() != nil || SplitList(" , ") != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestParseIDs(t *testing.T) {
	got, err := ParseIDs("3,1", "2")
	if err != nil || !reflect.DeepEqual(got, []int{3, 1, 2}) {
		t.Fatalf("got %v %v", got, err)
	}
	for _, bad := range []string{"x", "0", "-4", "1,2.5"} {
		if _, err := ParseIDs(bad); err == nil {
			t.Errorf("ParseIDs(%q): expected error", bad)
		}
	}
}
