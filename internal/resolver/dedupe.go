package resolver

import "github.com/tbourn/catalogue-admin/internal/domain"

// Dedupe collapses items sharing an id. Each id keeps the position of its
// first occurrence and the value of its last.
func Dedupe[T domain.Entity](items []T) []T {
	pos := make(map[int]int, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if i, ok := pos[it.PrimaryKey()]; ok {
			out[i] = it
			continue
		}
		pos[it.PrimaryKey()] = len(out)
		out = append(out, it)
	}
	return out
}

// Index maps items by id.
func Index[T domain.Entity](items []T) map[int]T {
	m := make(map[int]T, len(items))
	for _, it := range items {
		m[it.PrimaryKey()] = it
	}
	return m
}

// UniqueIDs gathers the distinct ids referenced by every named field across
// objs, in order of first appearance, so they can be resolved in one call.
// A field returns the ids it references; nil for an unset foreign key.
func UniqueIDs[T any](objs []T, fields ...func(T) []int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, o := range objs {
		for _, field := range fields {
			for _, id := range field(o) {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

// Opt adapts a nullable foreign key for UniqueIDs.
func Opt(id *int) []int {
	if id == nil {
		return nil
	}
	return []int{*id}
}
