package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/sentitag/pkg/sentitag"
	"github.com/cognicore/sentitag/pkg/sentitag/chatlog"
	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
	"github.com/cognicore/sentitag/pkg/sentitag/reaction"
	"github.com/cognicore/sentitag/pkg/sentitag/store"
	"github.com/cognicore/sentitag/pkg/sentitag/store/memstore"
	"github.com/cognicore/sentitag/pkg/sentitag/store/sqlite"
)

// Components holds everything built from a Config
type Components struct {
	Classifier *sentitag.Classifier
	Reactions  *reaction.Engine
	Source     chatlog.Source // nil when no watch source is configured
	SourceName string
	Store      store.Store
}

// Close releases the store.
func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// BuildLexicon returns the configured lexicon
func (c *Config) BuildLexicon() (*lexicon.Lexicon, error) {
	if c.Lexicon.Path == "" {
		return lexicon.Default(), nil
	}

	fromFile, err := lexicon.LoadFromYAML(c.Lexicon.Path)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	if !c.Lexicon.Extend {
		return fromFile, nil
	}

	lex := lexicon.Default()
	lex.Merge(fromFile)
	return lex, nil
}

// BuildReactions returns the reaction engine. No configured rules selects
// the built-in happy reaction.
func (c *Config) BuildReactions() *reaction.Engine {
	if len(c.Reactions) == 0 {
		return reaction.New(nil)
	}
	rules := make([]reaction.Rule, len(c.Reactions))
	for i, r := range c.Reactions {
		rules[i] = reaction.Rule{
			Category: lexicon.Category(strings.ToLower(strings.TrimSpace(r.Category))),
			ImageURL: r.ImageURL,
			Alt:      r.Alt,
			TTL:      r.TTL,
		}
	}
	return reaction.New(rules)
}

// BuildSource returns the configured chat source, or nil if none is set
func (c *Config) BuildSource() (chatlog.Source, string) {
	switch {
	case c.Watch.HTML.Path != "":
		src := chatlog.NewHTMLSource(c.Watch.HTML.Path)
		if c.Watch.HTML.ItemAttr != "" {
			src.ItemAttr = c.Watch.HTML.ItemAttr
		}
		if c.Watch.HTML.MessageClass != "" {
			src.MessageClass = c.Watch.HTML.MessageClass
		}
		return src, c.Watch.HTML.Path
	case c.Watch.JSONL.Path != "":
		src := chatlog.NewJSONLSource(c.Watch.JSONL.Path)
		if c.Watch.JSONL.Role != "" {
			src.Role = c.Watch.JSONL.Role
		}
		return src, c.Watch.JSONL.Path
	default:
		return nil, ""
	}
}

// BuildStore opens the configured history store
func (c *Config) BuildStore(ctx context.Context) (store.Store, error) {
	if c.Store.Path == "" {
		return memstore.New(), nil
	}
	st, err := sqlite.Open(ctx, c.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// Build constructs all components. The caller owns Components.Close.
func (c *Config) Build(ctx context.Context) (*Components, error) {
	lex, err := c.BuildLexicon()
	if err != nil {
		return nil, err
	}

	st, err := c.BuildStore(ctx)
	if err != nil {
		return nil, err
	}

	src, name := c.BuildSource()
	return &Components{
		Classifier: sentitag.New(lex),
		Reactions:  c.BuildReactions(),
		Source:     src,
		SourceName: name,
		Store:      st,
	}, nil
}
