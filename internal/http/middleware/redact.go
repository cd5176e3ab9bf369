package middleware

import (
	"net/http"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var (
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// matches key=value pairs in a raw query whose key looks like a credential
	secretParamRE = regexp.MustCompile(`(?i)\b((?:access_|api_|auth_)?(?:token|key|secret|password))=[^&]*`)
)

// Redactor scrubs credentials and email addresses from log fields.
// Notification endpoints carry subscriber emails in bodies and queries, and
// the upstream token travels in Authorization.
type Redactor struct {
	masked map[string]struct{}
}

// NewRedactor masks Authorization, Cookie, Set-Cookie and any extra headers.
func NewRedactor(extra ...string) *Redactor {
	r := &Redactor{masked: map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			r.masked[h] = struct{}{}
		}
	}
	return r
}

// String redacts secret query parameters and email addresses in s.
func (r *Redactor) String(s string) string {
	if s == "" {
		return s
	}
	s = secretParamRE.ReplaceAllString(s, "$1="+redacted)
	return emailRE.ReplaceAllString(s, "[REDACTED:email]")
}

// Headers flattens h with masked headers replaced and the rest scrubbed.
func (r *Redactor) Headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := r.masked[strings.ToLower(k)]; ok {
			out[k] = redacted
			continue
		}
		out[k] = r.String(strings.Join(vv, ", "))
	}
	return out
}
