package ingest

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds text into the form used for phrase matching:
// NFC composition, Unicode case folding, and whitespace runs collapsed
// to a single space. Leading and trailing whitespace is dropped.
//
// Examples:
//   - Normalize("HaPpY") -> "happy"
//   - Normalize("  on   cloud\tnine ") -> "on cloud nine"
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// cases.Caser keeps state between calls, so each call gets its own.
	folded := cases.Fold().String(norm.NFC.String(text))

	return strings.Join(strings.Fields(folded), " ")
}
