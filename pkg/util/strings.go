package util

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies NFKC and trims surrounding space, so full-width digits
// and compatibility separators read as plain ASCII.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// TrimSuffixFold removes the first matching suffix, compared case-insensitively, and trims space.
func TrimSuffixFold(s string, suffixes ...string) string {
	for _, suf := range suffixes {
		if len(s) >= len(suf) && strings.EqualFold(s[len(s)-len(suf):], suf) {
			return strings.TrimSpace(s[:len(s)-len(suf)])
		}
	}
	return s
}

// ParseFloats parses a comma separated list of numbers.
func ParseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
