// Package geo provides the static Chilean geography and school grade
// catalogs used to label and filter school lists.
package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases a term and strips diacritics so "Valparaíso" matches
// "valparaiso". Transformers carry state, so a fresh chain is built per
// call to stay safe under concurrent requests.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// matches reports whether candidate contains the folded term
func matches(candidate, foldedTerm string) bool {
	return strings.Contains(Fold(candidate), foldedTerm)
}
