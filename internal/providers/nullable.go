package providers

import "encoding/json"

// Nullable is a patch field that tells an absent key from an explicit null.
// Set reports that the key was present; Valid reports a non-null value.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some returns a present, non-null field.
func Some[T any](v T) Nullable[T] { return Nullable[T]{Set: true, Valid: true, Value: v} }

// Null returns a field that clears the backend value.
func Null[T any]() Nullable[T] { return Nullable[T]{Set: true} }

// UnmarshalJSON is only reached for keys present in the document.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	var zero T
	n.Set, n.Valid, n.Value = true, false, zero
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// patchBody collects the present fields of a patch. Pointer fields are
// present when non-nil; use putNullable for fields that may be cleared.
type patchBody map[string]any

func (b patchBody) put(key string, present bool, v any) {
	if present {
		b[key] = v
	}
}

func putNullable[T any](b patchBody, key string, n Nullable[T]) {
	if n.Set {
		b[key] = n
	}
}
