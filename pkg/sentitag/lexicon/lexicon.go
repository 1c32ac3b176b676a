package lexicon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/sentitag/pkg/sentitag/ingest"
	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
)

// Lexicon maps sentiment categories to their trigger phrases.
//
// Design principles:
// - Ordered: categories keep definition order, which is the order results report
// - Normalized: phrases are stored folded (see ingest.Normalize) and deduplicated
// - Validated: Add rejects malformed mappings without touching existing data
//
// A Lexicon is not safe for concurrent mutation; Classifier guards its own copy.
type Lexicon struct {
	order   []Category
	phrases map[Category][]string
}

// Entry is one category and its trigger phrases.
type Entry struct {
	Category Category
	Phrases  []string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		phrases: make(map[Category][]string),
	}
}

// FromEntries builds a lexicon from entries in order. A repeated category
// is an error rather than a silent replacement.
func FromEntries(entries []Entry) (*Lexicon, error) {
	lex := New()
	for _, e := range entries {
		if lex.Has(e.Category) {
			return nil, fmt.Errorf("%w: duplicate category %q", internalerr.ErrInvalidMapping, e.Category)
		}
		if err := lex.Add(string(e.Category), e.Phrases); err != nil {
			return nil, err
		}
	}
	return lex, nil
}

// LoadFromYAML loads a lexicon from a YAML file.
//
// Expected format:
//
//	categories:
//	  - name: happy
//	    phrases: [happy, joyful, on cloud nine]
//	  - name: sad
//	    phrases: [sad, gloomy]
//
// Notes:
// - Category order in the file is the order results report
// - Multi-word phrases are supported (e.g., "walking on air")
// - Case-insensitive: names are lower-cased, phrases are case folded
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// ParseYAML parses lexicon YAML (see LoadFromYAML for the format).
func ParseYAML(data []byte) (*Lexicon, error) {
	var doc struct {
		Categories []struct {
			Name    string   `yaml:"name"`
			Phrases []string `yaml:"phrases"`
		} `yaml:"categories"`
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	entries := make([]Entry, len(doc.Categories))
	for i, c := range doc.Categories {
		entries[i] = Entry{Category: Category(normalizeName(c.Name)), Phrases: c.Phrases}
	}
	return FromEntries(entries)
}

// Add inserts or replaces the phrase list for name. A replaced category
// keeps its position; a new one is appended.
//
// Returns ErrInvalidMapping (and leaves the lexicon unchanged) when the
// name is blank or reserved, the phrase list is empty, or any phrase is blank.
func (l *Lexicon) Add(name string, phrases []string) error {
	cat := Category(normalizeName(name))
	if cat == "" {
		return fmt.Errorf("%w: empty category name", internalerr.ErrInvalidMapping)
	}
	if string(cat) == NeutralLabel {
		return fmt.Errorf("%w: %q is reserved", internalerr.ErrInvalidMapping, NeutralLabel)
	}
	if len(phrases) == 0 {
		return fmt.Errorf("%w: category %q has no phrases", internalerr.ErrInvalidMapping, cat)
	}

	normalized := make([]string, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for i, p := range phrases {
		n := ingest.Normalize(p)
		if n == "" {
			return fmt.Errorf("%w: category %q phrase %d is empty", internalerr.ErrInvalidMapping, cat, i)
		}
		if !seen[n] {
			normalized = append(normalized, n)
			seen[n] = true
		}
	}

	if _, exists := l.phrases[cat]; !exists {
		l.order = append(l.order, cat)
	}
	l.phrases[cat] = normalized
	return nil
}

// Remove deletes a category. Returns false if it was not present.
func (l *Lexicon) Remove(name string) bool {
	cat := Category(normalizeName(name))
	if _, ok := l.phrases[cat]; !ok {
		return false
	}
	delete(l.phrases, cat)
	for i, c := range l.order {
		if c == cat {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether the category is defined.
func (l *Lexicon) Has(cat Category) bool {
	_, ok := l.phrases[Category(normalizeName(string(cat)))]
	return ok
}

// Phrases returns a copy of the normalized phrases for a category,
// or nil if the category is not defined.
func (l *Lexicon) Phrases(cat Category) []string {
	p, ok := l.phrases[Category(normalizeName(string(cat)))]
	if !ok {
		return nil
	}
	out := make([]string, len(p))
	copy(out, p)
	return out
}

// Categories returns the defined categories in definition order.
func (l *Lexicon) Categories() []Category {
	out := make([]Category, len(l.order))
	copy(out, l.order)
	return out
}

// Entries returns a copy of every entry in definition order.
func (l *Lexicon) Entries() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, c := range l.order {
		out = append(out, Entry{Category: c, Phrases: l.Phrases(c)})
	}
	return out
}

// Range calls fn for each category in definition order. fn must not
// modify or retain phrases.
func (l *Lexicon) Range(fn func(cat Category, phrases []string)) {
	for _, c := range l.order {
		fn(c, l.phrases[c])
	}
}

// Len returns the number of categories.
func (l *Lexicon) Len() int {
	return len(l.order)
}

// Clone returns an independent deep copy.
func (l *Lexicon) Clone() *Lexicon {
	c := New()
	c.order = make([]Category, len(l.order))
	copy(c.order, l.order)
	for cat := range l.phrases {
		c.phrases[cat] = l.Phrases(cat)
	}
	return c
}

// Merge adds or replaces every category of other, in other's order.
func (l *Lexicon) Merge(other *Lexicon) {
	for _, cat := range other.order {
		if _, exists := l.phrases[cat]; !exists {
			l.order = append(l.order, cat)
		}
		l.phrases[cat] = other.Phrases(cat)
	}
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	stats := LexiconStats{Categories: len(l.order)}
	for _, p := range l.phrases {
		stats.TotalPhrases += len(p)
		for _, phrase := range p {
			if strings.Contains(phrase, " ") {
				stats.MultiWordPhrases++
			}
		}
	}
	return stats
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	Categories       int // Number of categories
	TotalPhrases     int // Total phrases across all categories
	MultiWordPhrases int // Phrases containing more than one word
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
