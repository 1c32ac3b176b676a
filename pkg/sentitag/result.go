package sentitag

import (
	"encoding/json"
	"strings"

	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
)

// Result is the outcome of one classification.
//
// The zero value means "not analyzed". A classified result is either a
// non-empty, lexicon-ordered category list or the neutral marker.
type Result struct {
	analyzed   bool
	categories []lexicon.Category
}

// Neutral returns the analyzed, nothing-matched result.
func Neutral() Result {
	return Result{analyzed: true}
}

// Analyzed reports whether the result came from a classification.
func (r Result) Analyzed() bool { return r.analyzed }

// IsNeutral reports whether the text was analyzed and nothing matched.
func (r Result) IsNeutral() bool { return r.analyzed && len(r.categories) == 0 }

// Has reports whether cat was triggered.
func (r Result) Has(cat lexicon.Category) bool {
	for _, c := range r.categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Categories returns the triggered categories in lexicon order.
// Nil for neutral and unanalyzed results.
func (r Result) Categories() []lexicon.Category {
	if len(r.categories) == 0 {
		return nil
	}
	out := make([]lexicon.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Len returns the number of triggered categories.
func (r Result) Len() int { return len(r.categories) }

// Equal reports whether two results carry the same state and categories.
func (r Result) Equal(other Result) bool {
	if r.analyzed != other.analyzed || len(r.categories) != len(other.categories) {
		return false
	}
	for i := range r.categories {
		if r.categories[i] != other.categories[i] {
			return false
		}
	}
	return true
}

// String renders "sad, happy", "neutral", or "" for an unanalyzed result.
func (r Result) String() string {
	if !r.analyzed {
		return ""
	}
	if len(r.categories) == 0 {
		return lexicon.NeutralLabel
	}
	parts := make([]string, len(r.categories))
	for i, c := range r.categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

type resultJSON struct {
	Neutral    bool               `json:"neutral"`
	Categories []lexicon.Category `json:"categories"`
}

// MarshalJSON encodes the result as {"neutral":bool,"categories":[...]}.
func (r Result) MarshalJSON() ([]byte, error) {
	cats := r.categories
	if cats == nil {
		cats = []lexicon.Category{}
	}
	return json.Marshal(resultJSON{Neutral: r.IsNeutral(), Categories: cats})
}

// UnmarshalJSON decodes the MarshalJSON form. Decoded results are analyzed.
func (r *Result) UnmarshalJSON(data []byte) error {
	var v resultJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.analyzed = true
	r.categories = nil
	if len(v.Categories) > 0 {
		r.categories = v.Categories
	}
	return nil
}
