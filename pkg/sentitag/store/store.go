package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
)

// Store persists classification history.
type Store interface {
	Close() error

	// Save inserts or replaces a record keyed by ID.
	Save(ctx context.Context, r Record) error
	// Get returns a record by ID or an error wrapping internalerr.ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
	// Counts aggregates category hits across all records.
	Counts(ctx context.Context) (Counts, error)
}

// Record is one classified message.
type Record struct {
	ID           string
	Source       string // where the message came from (file path, "stdin", ...)
	MessageIndex int
	Text         string
	Categories   []lexicon.Category
	Neutral      bool
	ClassifiedAt time.Time
}

// Validate checks if the record has required fields
func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: record ID is required", internalerr.ErrInvalidInput)
	}
	if r.ClassifiedAt.IsZero() {
		return fmt.Errorf("%w: record classified time is required", internalerr.ErrInvalidInput)
	}
	return nil
}

// Counts summarizes stored records.
type Counts struct {
	Total      int64
	Neutral    int64
	ByCategory map[lexicon.Category]int64
}

// DefaultRecentLimit is used when Recent is called with limit <= 0.
const DefaultRecentLimit = 20

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a time-ordered ULID for a record created at t.
func NewID(t time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), idEntropy).String()
}
