package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
	"github.com/cognicore/sentitag/pkg/sentitag/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and creates the
// history schema if needed.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL DEFAULT '',
	message_index INTEGER NOT NULL DEFAULT 0,
	text TEXT NOT NULL DEFAULT '',
	neutral INTEGER NOT NULL DEFAULT 0,
	classified_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_classified_at ON records(classified_at);

CREATE TABLE IF NOT EXISTS record_categories (
	record_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	category TEXT NOT NULL,
	UNIQUE(record_id, category),
	FOREIGN KEY(record_id) REFERENCES records(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save inserts or replaces a record and its categories
func (s *sqliteStore) Save(ctx context.Context, r store.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO records (id, source, message_index, text, neutral, classified_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	source=excluded.source,
	message_index=excluded.message_index,
	text=excluded.text,
	neutral=excluded.neutral,
	classified_at=excluded.classified_at;
`
	_, err = tx.ExecContext(ctx, stmt,
		r.ID,
		r.Source,
		r.MessageIndex,
		r.Text,
		boolToInt(r.Neutral),
		r.ClassifiedAt.UTC().UnixNano(),
	)
	if err != nil {
		return err
	}

	if err := replaceRecordCategories(ctx, tx, r.ID, r.Categories); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceRecordCategories(ctx context.Context, tx *sql.Tx, id string, cats []lexicon.Category) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM record_categories WHERE record_id=?`, id); err != nil {
		return err
	}
	if len(cats) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO record_categories (record_id, position, category) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, cat := range cats {
		if cat == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, i, string(cat)); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a record by ID
func (s *sqliteStore) Get(ctx context.Context, id string) (store.Record, error) {
	var (
		r       store.Record
		neutral int
		at      int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, source, message_index, text, neutral, classified_at
FROM records
WHERE id = ?;
`, id).Scan(&r.ID, &r.Source, &r.MessageIndex, &r.Text, &neutral, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, fmt.Errorf("record %q: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Record{}, err
	}

	r.Neutral = neutral != 0
	r.ClassifiedAt = time.Unix(0, at).UTC()
	r.Categories, err = s.loadCategories(ctx, r.ID)
	if err != nil {
		return store.Record{}, err
	}
	return r, nil
}

// Recent returns the newest records first
func (s *sqliteStore) Recent(ctx context.Context, limit int) ([]store.Record, error) {
	if limit <= 0 {
		limit = store.DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id FROM records
ORDER BY classified_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	records := make([]store.Record, 0, len(ids))
	for _, id := range ids {
		r, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// Counts aggregates category hits across all records
func (s *sqliteStore) Counts(ctx context.Context) (store.Counts, error) {
	c := store.Counts{ByCategory: make(map[lexicon.Category]int64)}

	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(neutral), 0) FROM records;
`).Scan(&c.Total, &c.Neutral)
	if err != nil {
		return store.Counts{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT category, COUNT(*) FROM record_categories GROUP BY category;
`)
	if err != nil {
		return store.Counts{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cat string
			n   int64
		)
		if err := rows.Scan(&cat, &n); err != nil {
			return store.Counts{}, err
		}
		c.ByCategory[lexicon.Category(cat)] = n
	}
	return c, rows.Err()
}

func (s *sqliteStore) loadCategories(ctx context.Context, id string) ([]lexicon.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category FROM record_categories WHERE record_id=? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []lexicon.Category
	for rows.Next() {
		var val string
		if err := rows.Scan(&val); err != nil {
			return nil, err
		}
		cats = append(cats, lexicon.Category(val))
	}
	return cats, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
