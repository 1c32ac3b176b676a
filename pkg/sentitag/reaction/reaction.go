package reaction

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/sentitag/pkg/sentitag"
	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
)

// Defaults for the built-in happy reaction.
const (
	DefaultImageURL = "https://image.cdn2.seaart.me/2025-03-18/cvctnfle878c73cv7ieg/47cc3af54088944b0f2c5d47d0852790_high.webp"
	DefaultAlt      = "Happy AI Response"
	DefaultTTL      = 60 * time.Second
)

// Rule binds a category to a display action. Config files describe rules
// with config.ReactionConfig.
type Rule struct {
	Category lexicon.Category
	ImageURL string
	Alt      string
	TTL      time.Duration
}

// Reaction is a display action fired for one classified message.
type Reaction struct {
	ID           string           `json:"id"`
	Category     lexicon.Category `json:"category"`
	ImageURL     string           `json:"image_url"`
	Alt          string           `json:"alt"`
	MessageIndex int              `json:"message_index"`
	FiredAt      time.Time        `json:"fired_at"`
	ExpiresAt    time.Time        `json:"expires_at"`
}

// DefaultRules shows the happy image for a minute.
func DefaultRules() []Rule {
	return []Rule{{
		Category: lexicon.Happy,
		ImageURL: DefaultImageURL,
		Alt:      DefaultAlt,
		TTL:      DefaultTTL,
	}}
}

// Engine evaluates rules against classification results.
type Engine struct {
	rules []Rule

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates an engine. A nil rule slice selects DefaultRules; an empty
// non-nil slice disables reactions. Rules with zero TTL get DefaultTTL.
func New(rules []Rule) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	rs := make([]Rule, len(rules))
	for i, r := range rules {
		if r.TTL <= 0 {
			r.TTL = DefaultTTL
		}
		rs[i] = r
	}
	return &Engine{
		rules:   rs,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Rules returns a copy of the configured rules.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate returns one reaction per rule whose category is in res, in
// rule order. Neutral and unanalyzed results never react.
func (e *Engine) Evaluate(res sentitag.Result, messageIndex int, now time.Time) []Reaction {
	if res.Len() == 0 {
		return nil
	}

	var out []Reaction
	for _, r := range e.rules {
		if !res.Has(r.Category) {
			continue
		}
		out = append(out, Reaction{
			ID:           e.newID(now),
			Category:     r.Category,
			ImageURL:     r.ImageURL,
			Alt:          r.Alt,
			MessageIndex: messageIndex,
			FiredAt:      now,
			ExpiresAt:    now.Add(r.TTL),
		})
	}
	return out
}

func (e *Engine) newID(now time.Time) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), e.entropy).String()
}
