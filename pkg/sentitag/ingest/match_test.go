package ingest

import "testing"

func TestContainsPhrase(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		phrase string
		want   bool
	}{
		{"exact", "sad", "sad", true},
		{"surrounded by spaces", " sad ", "sad", true},
		{"punctuation boundary", "so sad!", "sad", true},
		{"prefix of longer word", "sadly", "sad", false},
		{"suffix of longer word", "crusade", "sad", false},
		{"inside word", "her crossword", "cross", false},
		{"later whole-word occurrence", "sadly i am sad", "sad", true},
		{"hyphen is a boundary", "sad-eyed", "sad", true},
		{"hyphenated phrase", "feeling grief-stricken today", "grief-stricken", true},
		{"multi-word phrase", "i'm on cloud nine today", "on cloud nine", true},
		{"multi-word phrase missing word", "cloud nine", "on cloud nine", false},
		{"multi-word phrase glued", "moon cloud nine", "on cloud nine", false},
		{"multi-word phrase trailing glue", "on cloud ninety", "on cloud nine", false},
		{"digits are word runes", "mood2", "mood", false},
		{"underscore is a word rune", "happy_face", "happy", false},
		{"non-latin boundary", "très heureux", "heureux", true},
		{"accented neighbour", "éhappy", "happy", false},
		{"non-word phrase edge", "love you<3", "<3", true},
		{"empty phrase", "anything", "", false},
		{"empty text", "", "sad", false},
		{"phrase longer than text", "sa", "sad", false},
		{"trailing emoji", "yippee🎉", "yippee", true},
		{"spacing vowel sign continues word", "मुझे बहुत खुशी है", "खुश", false},
		{"devanagari whole word", "मैं खुश हूँ", "खुश", true},
		{"enclosing mark continues word", "sad\u20dd", "sad", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsPhrase(tt.text, tt.phrase); got != tt.want {
				t.Errorf("ContainsPhrase(%q, %q) = %v, want %v", tt.text, tt.phrase, got, tt.want)
			}
		})
	}
}

func TestIsWordRune(t *testing.T) {
	for _, r := range []rune{'a', 'Z', '7', '_', 'é', 'ж', '\u0301', '\u0940', '\u20dd'} {
		if !IsWordRune(r) {
			t.Errorf("IsWordRune(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{' ', '-', '!', '\'', '<', '🎉'} {
		if IsWordRune(r) {
			t.Errorf("IsWordRune(%q) = true, want false", r)
		}
	}
}
