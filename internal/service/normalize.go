package service

import (
	"regexp"
	"strings"
)

var nonAlnumRuns = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeCompanyName maps a display name to its cache key. Casing,
// punctuation and whitespace variants of the same name collapse to one key,
// so "Acme Corp." and "ACME CORP" share a cache entry.
func NormalizeCompanyName(name string) string {
	lowered := strings.ToLower(name)
	joined := nonAlnumRuns.ReplaceAllString(lowered, "-")
	return strings.Trim(joined, "-")
}
