package providers

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	folder  = cases.Fold()
	lower   = cases.Lower(language.Und)
)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(s string) string {
	return lower.String(strings.TrimSpace(s))
}

// sameUsername compares usernames case-insensitively.
func sameUsername(a, b string) bool {
	return folder.String(a) == folder.String(b)
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return nil
}

func requireID(field string, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return nil
}

func validateEmail(v string) error {
	if !emailRe.MatchString(v) {
		return fmt.Errorf("%w: email %q is not a valid address", ErrValidation, v)
	}
	return nil
}

func validateURL(v string) error {
	u, err := url.ParseRequestURI(v)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: url %q must be an absolute http(s) URL", ErrValidation, v)
	}
	return nil
}
