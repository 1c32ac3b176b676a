package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
	"github.com/cognicore/sentitag/pkg/sentitag/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu      sync.RWMutex
	records map[string]store.Record
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{records: make(map[string]store.Record)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Save implements store.Store.
func (s *Store) Save(ctx context.Context, r store.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = copyRecord(r)
	return nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, id string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return store.Record{}, fmt.Errorf("record %q: %w", id, internalerr.ErrNotFound)
	}
	return copyRecord(r), nil
}

// Recent implements store.Store.
func (s *Store) Recent(ctx context.Context, limit int) ([]store.Record, error) {
	if limit <= 0 {
		limit = store.DefaultRecentLimit
	}

	s.mu.RLock()
	all := make([]store.Record, 0, len(s.records))
	for _, r := range s.records {
		all = append(all, copyRecord(r))
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].ClassifiedAt.Equal(all[j].ClassifiedAt) {
			return all[i].ClassifiedAt.After(all[j].ClassifiedAt)
		}
		return all[i].ID > all[j].ID
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Counts implements store.Store.
func (s *Store) Counts(ctx context.Context) (store.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := store.Counts{ByCategory: make(map[lexicon.Category]int64)}
	for _, r := range s.records {
		c.Total++
		if r.Neutral {
			c.Neutral++
		}
		for _, cat := range r.Categories {
			c.ByCategory[cat]++
		}
	}
	return c, nil
}

// copyRecord detaches the category slice and drops duplicate or empty
// categories, matching the sqlite schema's uniqueness constraint.
func copyRecord(r store.Record) store.Record {
	if r.Categories == nil {
		return r
	}
	seen := make(map[lexicon.Category]struct{}, len(r.Categories))
	var cats []lexicon.Category
	for _, c := range r.Categories {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	r.Categories = cats
	return r
}
