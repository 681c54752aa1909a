package geocode

import "strings"

// Normalize reduces a raw search string to its cache key: lowercase with
// surrounding whitespace trimmed. Nothing more, since anything aggressive
// enough to merge queries for distinct places would corrupt the cache.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
