// Package util provides small string helpers shared by the loaders and filters.
package util

import (
	"strings"
	"unicode"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanField trims whitespace and stray quoting from a raw tabular value.
func CleanField(s string) string {
	return strings.TrimSpace(FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s))))
}

// FirstToken returns the first comma-separated token of s, trimmed.
// "France, Paris" yields "France".
func FirstToken(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// LastSegment returns the last sep-separated segment of s, trimmed.
func LastSegment(s, sep string) string {
	if i := strings.LastIndex(s, sep); i >= 0 {
		s = s[i+len(sep):]
	}
	return strings.TrimSpace(s)
}

// LeadingInt parses the integer prefix of s, allowing leading spaces and a
// sign, and ignoring anything after the last digit. "2021 (final)" yields
// 2021. It reports false when s does not start with a number.
func LeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
