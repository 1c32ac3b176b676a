package sentitag

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/cognicore/sentitag/pkg/sentitag/ingest"
	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
)

// Classifier tags text with sentiment categories by whole-word phrase
// matching against its lexicon. Safe for concurrent use.
type Classifier struct {
	mu  sync.RWMutex
	lex *lexicon.Lexicon
}

// New creates a classifier that owns a copy of lex.
// A nil lexicon selects lexicon.Default().
func New(lex *lexicon.Lexicon) *Classifier {
	if lex == nil {
		lex = lexicon.Default()
	} else {
		lex = lex.Clone()
	}
	return &Classifier{lex: lex}
}

// AddCategory inserts or replaces the phrases for a category.
// Returns an error wrapping ErrInvalidMapping on malformed input; the
// lexicon is left unchanged in that case.
func (c *Classifier) AddCategory(name string, phrases []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lex.Add(name, phrases)
}

// RemoveCategory deletes a category and reports whether it existed.
func (c *Classifier) RemoveCategory(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lex.Remove(name)
}

// Categories returns the current categories in lexicon order.
func (c *Classifier) Categories() []lexicon.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lex.Categories()
}

// Lexicon returns a snapshot of the current lexicon.
func (c *Classifier) Lexicon() *lexicon.Lexicon {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lex.Clone()
}

// Classify returns every category with at least one phrase occurring in
// text as a whole word or phrase, in lexicon order. Text with no match
// yields the neutral result.
func (c *Classifier) Classify(text string) Result {
	normalized := ingest.Normalize(text)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var cats []lexicon.Category
	if normalized != "" {
		c.lex.Range(func(cat lexicon.Category, phrases []string) {
			for _, p := range phrases {
				if ingest.ContainsPhrase(normalized, p) {
					cats = append(cats, cat)
					return
				}
			}
		})
	}

	return Result{analyzed: true, categories: cats}
}

// ClassifyValue classifies an untyped value from a decoding boundary.
// Accepts string, *string, []byte and fmt.Stringer; anything else,
// including nil and nil pointers, returns an error wrapping ErrInvalidInput.
func (c *Classifier) ClassifyValue(v any) (Result, error) {
	switch t := v.(type) {
	case string:
		return c.Classify(t), nil
	case *string:
		if t == nil {
			return Result{}, fmt.Errorf("%w: nil *string", internalerr.ErrInvalidInput)
		}
		return c.Classify(*t), nil
	case []byte:
		if t == nil {
			return Result{}, fmt.Errorf("%w: nil []byte", internalerr.ErrInvalidInput)
		}
		return c.Classify(string(t)), nil
	case fmt.Stringer:
		if rv := reflect.ValueOf(t); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Result{}, fmt.Errorf("%w: nil %T", internalerr.ErrInvalidInput, v)
		}
		return c.Classify(t.String()), nil
	case nil:
		return Result{}, fmt.Errorf("%w: nil", internalerr.ErrInvalidInput)
	default:
		return Result{}, fmt.Errorf("%w: unsupported type %T", internalerr.ErrInvalidInput, v)
	}
}

// Match lists the phrases that triggered one category.
type Match struct {
	Category lexicon.Category `json:"category"`
	Phrases  []string         `json:"phrases"`
}

// Explain is Classify with the triggering phrases attached. Unlike
// Classify it checks every phrase of a triggered category.
func (c *Classifier) Explain(text string) []Match {
	normalized := ingest.Normalize(text)
	if normalized == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []Match
	c.lex.Range(func(cat lexicon.Category, phrases []string) {
		var hit []string
		for _, p := range phrases {
			if ingest.ContainsPhrase(normalized, p) {
				hit = append(hit, p)
			}
		}
		if len(hit) > 0 {
			matches = append(matches, Match{Category: cat, Phrases: hit})
		}
	})
	return matches
}
