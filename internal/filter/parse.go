package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrBadValue reports a query value that cannot be parsed for its field.
var ErrBadValue = errors.New("filter: bad value")

// dateOnly is accepted alongside RFC 3339 for date-range bounds.
const dateOnly = "2006-01-02"

// FromQuery is the inverse of Filter.Query: it rebuilds a filter over schema
// from wire-form parameters. Unknown parameters are ignored. A missing or
// non-positive limit selects defaultLimit.
func FromQuery(schema *Schema, q url.Values, defaultLimit int) (*Filter, error) {
	f := New(schema, defaultLimit)
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: limit %q", ErrBadValue, v)
		}
		if n > 0 {
			f.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: offset %q", ErrBadValue, v)
		}
		f.Offset = n
	}
	if v := q.Get("order_by"); v != "" {
		s, err := ParseOrderBy(schema, v)
		if err != nil {
			return nil, err
		}
		f.Sort = s
	}

	for _, fld := range schema.Fields() {
		key := SnakeCase(fld.Name)
		var (
			v   Value
			err error
		)
		switch fld.Kind {
		case KindIDs:
			v, err = ParseValue(fld.Kind, q.Get(key+"__in"))
		case KindDateRange:
			v, err = parseRange(q.Get(key+"_after"), q.Get(key+"_before"))
		default:
			v, err = ParseValue(fld.Kind, q.Get(key))
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if err := f.Set(fld.Name, v); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ParseOrderBy maps a wire order_by value ("name", "-updated_at") back to a
// sort over one of schema's columns.
func ParseOrderBy(schema *Schema, s string) (Sort, error) {
	dir := Ascending
	if strings.HasPrefix(s, "-") {
		dir, s = Descending, s[1:]
	}
	for _, c := range schema.Columns() {
		if SnakeCase(c) == s || c == s {
			return Sort{Column: c, Direction: dir}, nil
		}
	}
	return Sort{}, fmt.Errorf("%w: %s.%s", ErrNotSortable, schema.name, s)
}

// ParseValue parses raw as a value of kind. Blank input yields Unset. Date
// ranges take "after..before" with either side optional.
func ParseValue(kind ValueKind, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unset(), nil
	}
	switch kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not an integer", ErrBadValue, raw)
		}
		return Int(n), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a boolean", ErrBadValue, raw)
		}
		return Bool(b), nil
	case KindText:
		return Text(raw), nil
	case KindIDs:
		parts := strings.Split(raw, ",")
		ids := make([]int, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			n, err := strconv.Atoi(p)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %q is not an id", ErrBadValue, p)
			}
			ids = append(ids, n)
		}
		return IDs(ids...), nil
	case KindDateRange:
		after, before, _ := strings.Cut(raw, "..")
		return parseRange(after, before)
	}
	return Value{}, fmt.Errorf("%w: kind %s", ErrBadValue, kind)
}

func parseRange(after, before string) (Value, error) {
	a, err := parseTime(after)
	if err != nil {
		return Value{}, err
	}
	b, err := parseTime(before)
	if err != nil {
		return Value{}, err
	}
	return Between(a, b), nil
}

func parseTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, dateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not a date", ErrBadValue, s)
}
