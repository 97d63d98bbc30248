// Package names normalizes player and team names for cross-source joins.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that carry no combining mark and so survive NFD unchanged
var extra = strings.NewReplacer(
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
)

// Fold strips diacritics: "José Berríos" -> "Jose Berrios".
func Fold(s string) string {
	// transform.Chain keeps state, so build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return extra.Replace(out)
}

// Key is the comparison form of a name: folded, lower-cased, with runs of
// whitespace collapsed.
func Key(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(Fold(s))), " ")
}

// Equal compares two names ignoring accents, case and spacing
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
