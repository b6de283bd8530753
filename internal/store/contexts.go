package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/ldframe/internal/canonical"
)

// Entry is one cached context document.
type Entry struct {
	URL         string
	Document    any
	ContextURL  string // Link-header context reported by the server, if any
	ContentHash string
	FetchedAt   time.Time
}

// Get returns the entry cached for url. The bool is false when no entry exists.
func (s *Store) Get(ctx context.Context, url string) (Entry, bool, error) {
	var (
		raw       string
		entry     Entry
		fetchedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT url, document, content_hash, context_url, fetched_at
		FROM contexts
		WHERE url = ?
	`, url).Scan(&entry.URL, &raw, &entry.ContentHash, &entry.ContextURL, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get context %s: %w", url, err)
	}

	if err := json.Unmarshal([]byte(raw), &entry.Document); err != nil {
		return Entry{}, false, fmt.Errorf("get context %s: decode document: %w", url, err)
	}
	entry.FetchedAt = time.Unix(fetchedAt, 0).UTC()
	return entry, true, nil
}

// Put inserts or replaces the entry for e.URL.
// The document is stored as given, so Get returns exactly what was fetched.
// ContentHash is recomputed from the canonical form; any ContentHash set by
// the caller is ignored.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.URL == "" {
		return fmt.Errorf("put context: url is required")
	}
	hash, err := canonical.Digest(canonical.DomainContext, e.Document)
	if err != nil {
		return fmt.Errorf("put context %s: %w", e.URL, err)
	}
	data, err := json.Marshal(e.Document)
	if err != nil {
		return fmt.Errorf("put context %s: %w", e.URL, err)
	}

	fetchedAt := e.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO contexts (url, document, content_hash, context_url, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			document = excluded.document,
			content_hash = excluded.content_hash,
			context_url = excluded.context_url,
			fetched_at = excluded.fetched_at
	`, e.URL, string(data), hash, e.ContextURL, fetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("put context %s: %w", e.URL, err)
	}
	return nil
}

// List returns every cached entry ordered by URL.
// Documents are not decoded; only metadata is populated.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, content_hash, context_url, fetched_at
		FROM contexts
		ORDER BY url ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list contexts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			fetchedAt int64
		)
		if err := rows.Scan(&e.URL, &e.ContentHash, &e.ContextURL, &fetchedAt); err != nil {
			return nil, fmt.Errorf("list contexts: %w", err)
		}
		e.FetchedAt = time.Unix(fetchedAt, 0).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contexts: %w", err)
	}
	return entries, nil
}

// Delete removes the entry for url, reporting whether one existed.
func (s *Store) Delete(ctx context.Context, url string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contexts WHERE url = ?`, url)
	if err != nil {
		return false, fmt.Errorf("delete context %s: %w", url, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete context %s: %w", url, err)
	}
	return n > 0, nil
}

// Purge removes all entries and returns how many were deleted.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contexts`)
	if err != nil {
		return 0, fmt.Errorf("purge contexts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge contexts: %w", err)
	}
	return n, nil
}
