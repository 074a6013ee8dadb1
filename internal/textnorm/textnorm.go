// Package textnorm folds search terms before they are sent to the discovery
// engine: diacritics are removed and the result is NFC-composed.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize strips combining marks from s ("Pérez" -> "Perez") and trims
// surrounding space.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(out)
}

// NormalizeList normalizes each comma-separated segment of s independently
// and joins them back with commas.
func NormalizeList(s string) string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = Normalize(p)
	}
	return strings.Join(parts, ",")
}
