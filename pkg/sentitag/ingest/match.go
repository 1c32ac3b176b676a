package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsPhrase reports whether phrase occurs in text as a whole word or
// whole phrase. Both arguments must already be passed through Normalize.
//
// An occurrence counts only when the runes on either side of it are not
// word runes (letters, digits, marks, underscore) or are the
// string boundary.
// The check is skipped on an edge where the phrase itself ends in a
// non-word rune, so "<3" matches in "love you<3".
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" || len(phrase) > len(text) {
		return false
	}

	checkStart := startsWithWordRune(phrase)
	checkEnd := endsWithWordRune(phrase)

	offset := 0
	for offset <= len(text)-len(phrase) {
		i := strings.Index(text[offset:], phrase)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(phrase)

		if (!checkStart || boundaryBefore(text, start)) && (!checkEnd || boundaryAfter(text, end)) {
			return true
		}

		// Resume one rune past this occurrence so overlapping candidates
		// ("sad sadly sad") are still found.
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}

	return false
}

// IsWordRune reports whether r is part of a word for boundary purposes.
// All mark categories count, so Indic vowel signs (Mc) do not split a word.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.M, r) || r == '_'
}

func startsWithWordRune(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return IsWordRune(r)
}

func endsWithWordRune(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return IsWordRune(r)
}

func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !IsWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !IsWordRune(r)
}
