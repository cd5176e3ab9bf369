package filter

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SearchField is the free-text field name; it serialises as "search".
const SearchField = "search"

// Field declares one filterable field of a record kind. Name is the
// camelCase domain name; the wire name is derived from it.
type Field struct {
	Name string
	Kind ValueKind
}

// Schema is the closed set of filter fields and sort columns for one kind.
type Schema struct {
	name     string
	fields   map[string]Field
	sortable map[string]struct{}
}

// NewSchema declares a schema. Every schema accepts an "id" id-list field so
// that batch resolution can be expressed as an ordinary filter.
func NewSchema(name string, sortable []string, fields ...Field) *Schema {
	s := &Schema{
		name:     name,
		fields:   map[string]Field{"id": {Name: "id", Kind: KindIDs}},
		sortable: make(map[string]struct{}, len(sortable)),
	}
	for _, f := range fields {
		s.fields[f.Name] = f
	}
	for _, c := range sortable {
		s.sortable[c] = struct{}{}
	}
	return s
}

// Name returns the schema's record kind name.
func (s *Schema) Name() string { return s.name }

// Field looks up a declared field.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Sortable reports whether column may be used for ordering.
func (s *Schema) Sortable(column string) bool {
	_, ok := s.sortable[column]
	return ok
}

// Filter is the filter and pagination state of one list query.
// It is not safe for concurrent mutation; stores guard their own copy.
type Filter struct {
	schema *Schema
	values map[string]Value

	Offset int
	Limit  int
	Sort   Sort
}

// New returns an empty filter over schema with the given page size.
func New(schema *Schema, limit int) *Filter {
	return &Filter{schema: schema, values: make(map[string]Value), Limit: limit}
}

// Schema returns the schema the filter validates against.
func (f *Filter) Schema() *Schema { return f.schema }

// Set assigns a field. An unset value removes the key. The field must be
// declared by the schema and v must carry the declared kind.
func (f *Filter) Set(name string, v Value) error {
	fld, ok := f.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, f.schema.name, name)
	}
	if v.IsUnset() {
		delete(f.values, name)
		return nil
	}
	if v.Kind() != fld.Kind {
		return fmt.Errorf("%w: %s.%s wants %s, got %s", ErrWrongValueKind, f.schema.name, name, fld.Kind, v.Kind())
	}
	f.values[name] = v
	return nil
}

// Get returns the value of a set field.
func (f *Filter) Get(name string) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Keys returns the names of the set fields in sorted order.
func (f *Filter) Keys() []string {
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OnSort advances the sort cycle for column.
func (f *Filter) OnSort(column string) error {
	if !f.schema.Sortable(column) {
		return fmt.Errorf("%w: %s.%s", ErrNotSortable, f.schema.name, column)
	}
	f.Sort = f.Sort.Next(column)
	return nil
}

// Clone returns an independent copy.
func (f *Filter) Clone() *Filter {
	cp := &Filter{
		schema: f.schema,
		values: make(map[string]Value, len(f.values)),
		Offset: f.Offset,
		Limit:  f.Limit,
		Sort:   f.Sort,
	}
	for k, v := range f.values {
		cp.values[k] = v
	}
	return cp
}

// Query serialises the filter to the backend's query-string form:
// snake_case keys, "<field>__in" for id lists, "<field>_after" and
// "<field>_before" for date ranges, and order_by with a leading '-' for
// descending order. Unset fields never appear.
func (f *Filter) Query() url.Values {
	q := url.Values{}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if ob := f.Sort.OrderBy(); ob != "" {
		q.Set("order_by", ob)
	}
	for name, v := range f.values {
		key := SnakeCase(name)
		switch v.Kind() {
		case KindInt:
			q.Set(key, strconv.Itoa(v.i))
		case KindBool:
			q.Set(key, strconv.FormatBool(v.b))
		case KindText:
			q.Set(key, v.s)
		case KindIDs:
			q.Set(key+"__in", joinInts(v.ids))
		case KindDateRange:
			if v.after != nil {
				q.Set(key+"_after", v.after.UTC().Format(time.RFC3339))
			}
			if v.before != nil {
				q.Set(key+"_before", v.before.UTC().Format(time.RFC3339))
			}
		}
	}
	return q
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Fields returns the declared fields ordered by name.
func (s *Schema) Fields() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Columns returns the sortable columns in sorted order.
func (s *Schema) Columns() []string {
	out := make([]string, 0, len(s.sortable))
	for c := range s.sortable {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
