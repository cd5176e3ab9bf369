package middleware

import (
	"net/http"
	"strings"
	"testing"
)

func TestRedactor_String(t *testing.T) {
	r := NewRedactor()
	got := r.String("email=ann@example.org&token=abc123&status=2&api_key=zz")
	if strings.Contains(got, "ann@example.org") || strings.Contains(got, "abc123") || strings.Contains(got, "zz") {
		t.Fatalf("not redacted: %q", got)
	}
	if !strings.Contains(got, "status=2") {
		t.Fatalf("over-redacted: %q", got)
	}
	if r.String("") != "" {
		t.Fatal("empty should stay empty")
	}
}

func TestRedactor_Headers(t *testing.T) {
	r := NewRedactor("X-Api-Key")
	h := http.Header{}
	h.Set("Authorization", "Token secret")
	h.Set("X-Api-Key", "k")
	h.Set("X-Contact", "bob@example.com")
	h.Set("Accept", "application/json")

	got := r.Headers(h)
	if got["Authorization"] != redacted || got["X-Api-Key"] != redacted {
		t.Fatalf("masked headers leaked: %v", got)
	}
	if strings.Contains(got["X-Contact"], "bob@") {
		t.Fatalf("email leaked: %v", got)
	}
	if got["Accept"] != "application/json" {
		t.Fatalf("accept altered: %v", got["Accept"])
	}
}
