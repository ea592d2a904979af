// Package fold normalizes free-text identifiers (column headers, person
// names) for matching: case folded, accents stripped, punctuation and
// whitespace removed.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Key collapses s into a matching key: "Señor  Núñez-García" and
// "senor nunez garcia" fold to the same value.
func Key(s string) string {
	folded, _, err := transform.String(stripper, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Name folds a person name keeping single spaces between tokens, so tokens
// remain visible to candidate ranking.
func Name(s string) string {
	folded, _, err := transform.String(stripper, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
