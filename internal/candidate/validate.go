package candidate

import (
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w{2,}$`)

// IsValidEmail reports whether s looks like a plain address (local@domain.tld).
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s carries exactly ten digits once every other
// character is dropped. Prefixed international numbers are rejected.
func IsValidPhone(s string) bool {
	return len(Digits(s)) == 10
}

// Digits returns only the decimal digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsNumeric reports whether s is a non-empty run of digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
