// Package utils holds small parsing helpers shared by the HTTP layer.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitList splits a comma-separated parameter, trimming blanks. Repeated
// parameters (?a=1&a=2) are accepted as well.
func SplitList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// ParseIDs parses a comma-separated list of positive record ids.
func ParseIDs(values ...string) ([]int, error) {
	parts := SplitList(values...)
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, n)
	}
	return ids, nil
}
