package filter

import (
	"strings"
	"unicode"
)

// SnakeCase converts a camelCase domain field name to the backend's
// snake_case. Runs of capitals are treated as one word, so "userID" becomes
// "user_id" and "publishedAt" becomes "published_at". Names that are
// already snake_case pass through unchanged.
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prev != '_' && (unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower)) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
