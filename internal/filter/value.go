// Package filter implements typed list filters for the upstream catalogue
// API. Each record kind declares a Schema naming the fields it accepts and
// the kind of value each field carries. Values are a small tagged union, so
// an unset field is absent from the query string instead of serialising as
// a literal "undefined" or "null".
package filter

import (
	"errors"
	"time"
)

var (
	// ErrUnknownField is returned when a field is not declared by the schema.
	ErrUnknownField = errors.New("unknown filter field")
	// ErrWrongValueKind is returned when a value does not match the field's kind.
	ErrWrongValueKind = errors.New("filter value has the wrong kind")
	// ErrNotSortable is returned when sorting on a column the schema does not allow.
	ErrNotSortable = errors.New("column is not sortable")
)

// ValueKind discriminates Value.
type ValueKind int

const (
	// KindUnset marks the zero Value; setting it clears the field.
	KindUnset ValueKind = iota
	KindInt
	KindBool
	KindText
	KindIDs
	KindDateRange
)

func (k ValueKind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindIDs:
		return "ids"
	case KindDateRange:
		return "date_range"
	}
	return "invalid"
}

// Value is one filter value. Construct it with Int, Bool, Text, IDs,
// After, Before, Between or Unset.
type Value struct {
	kind   ValueKind
	i      int
	b      bool
	s      string
	ids    []int
	after  *time.Time
	before *time.Time
}

// Unset returns the value that clears a field.
func Unset() Value { return Value{} }

// Int returns an integer value (status codes, user ids).
func Int(v int) Value { return Value{kind: KindInt, i: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Text returns a free-text value. An empty string is equivalent to Unset.
func Text(v string) Value {
	if v == "" {
		return Unset()
	}
	return Value{kind: KindText, s: v}
}

// IDs returns an id-list value. An empty list is equivalent to Unset.
func IDs(ids ...int) Value {
	if len(ids) == 0 {
		return Unset()
	}
	cp := make([]int, len(ids))
	copy(cp, ids)
	return Value{kind: KindIDs, ids: cp}
}

// After returns an open date range bounded below.
func After(t time.Time) Value { return Value{kind: KindDateRange, after: &t} }

// Before returns an open date range bounded above.
func Before(t time.Time) Value { return Value{kind: KindDateRange, before: &t} }

// Between returns a closed date range. A nil bound leaves that side open;
// two nil bounds are equivalent to Unset.
func Between(after, before *time.Time) Value {
	if after == nil && before == nil {
		return Unset()
	}
	v := Value{kind: KindDateRange}
	if after != nil {
		a := *after
		v.after = &a
	}
	if before != nil {
		b := *before
		v.before = &b
	}
	return v
}

// Kind reports the discriminant.
func (v Value) Kind() ValueKind { return v.kind }

// IsUnset reports whether v clears its field.
func (v Value) IsUnset() bool { return v.kind == KindUnset }

// IntValue returns the integer payload.
func (v Value) IntValue() int { return v.i }

// BoolValue returns the boolean payload.
func (v Value) BoolValue() bool { return v.b }

// TextValue returns the text payload.
func (v Value) TextValue() string { return v.s }

// IDValues returns a copy of the id-list payload.
func (v Value) IDValues() []int {
	out := make([]int, len(v.ids))
	copy(out, v.ids)
	return out
}

// Range returns the date-range bounds; either may be nil.
func (v Value) Range() (after, before *time.Time) { return v.after, v.before }
