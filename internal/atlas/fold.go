package atlas

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold normalises a country name for comparison: whitespace is trimmed and
// collapsed, diacritics are stripped and the result is case-folded, so
// "  São Tomé and Príncipe" and "sao tome AND principe" compare equal.
func Fold(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// Transformers carry state; build a fresh chain per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}
	return cases.Fold().String(s)
}

// SameName reports whether two names match after folding.
func SameName(a, b string) bool {
	fa := Fold(a)
	return fa != "" && fa == Fold(b)
}
