package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
)

// Config is the sentitag configuration file.
//
// Example:
//
//	lexicon:
//	  path: lexicon.yaml
//	  extend: true
//	reactions:
//	  - category: happy
//	    image_url: https://example.com/happy.webp
//	    ttl: 60s
//	watch:
//	  interval: 500ms
//	  html:
//	    path: chat.html
//	store:
//	  path: history.db
//	log:
//	  level: info
type Config struct {
	Lexicon   LexiconConfig    `yaml:"lexicon"`
	Reactions []ReactionConfig `yaml:"reactions"`
	Watch     WatchConfig      `yaml:"watch"`
	Store     StoreConfig      `yaml:"store"`
	Log       LogConfig        `yaml:"log"`
}

// LexiconConfig selects the lexicon. With no path the built-in lexicon is
// used. Extend merges the file into the built-in lexicon instead of
// replacing it.
type LexiconConfig struct {
	Path   string `yaml:"path"`
	Extend bool   `yaml:"extend"`
}

// ReactionConfig is one category → image rule.
type ReactionConfig struct {
	Category string        `yaml:"category"`
	ImageURL string        `yaml:"image_url"`
	Alt      string        `yaml:"alt"`
	TTL      time.Duration `yaml:"ttl"`
}

// WatchConfig configures the chat watcher. At most one of HTML and JSONL
// may be set.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
	HTML     HTMLConfig    `yaml:"html"`
	JSONL    JSONLConfig   `yaml:"jsonl"`
}

// HTMLConfig locates messages in a saved chat page.
type HTMLConfig struct {
	Path         string `yaml:"path"`
	ItemAttr     string `yaml:"item_attr"`
	MessageClass string `yaml:"message_class"`
}

// JSONLConfig locates messages in a JSONL transcript.
type JSONLConfig struct {
	Path string `yaml:"path"`
	Role string `yaml:"role"`
}

// StoreConfig selects history storage. An empty path keeps history in memory.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig loads configuration from a YAML file. Relative paths inside
// the file are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{
		&c.Lexicon.Path,
		&c.Watch.HTML.Path,
		&c.Watch.JSONL.Path,
		&c.Store.Path,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// ParseConfig parses and validates configuration YAML
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field combinations that YAML decoding cannot.
func (c *Config) Validate() error {
	if c.Watch.HTML.Path != "" && c.Watch.JSONL.Path != "" {
		return fmt.Errorf("%w: watch.html and watch.jsonl are mutually exclusive", internalerr.ErrInvalidConfig)
	}
	if c.Watch.Interval < 0 {
		return fmt.Errorf("%w: watch.interval must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.Lexicon.Extend && c.Lexicon.Path == "" {
		return fmt.Errorf("%w: lexicon.extend requires lexicon.path", internalerr.ErrInvalidConfig)
	}
	for i, r := range c.Reactions {
		if r.Category == "" {
			return fmt.Errorf("%w: reactions[%d] has no category", internalerr.ErrInvalidConfig, i)
		}
		if r.ImageURL == "" {
			return fmt.Errorf("%w: reactions[%d] has no image_url", internalerr.ErrInvalidConfig, i)
		}
		if r.TTL < 0 {
			return fmt.Errorf("%w: reactions[%d] ttl must not be negative", internalerr.ErrInvalidConfig, i)
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", internalerr.ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", internalerr.ErrInvalidConfig, c.Log.Format)
	}
	return nil
}
