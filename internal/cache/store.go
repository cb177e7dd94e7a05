// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps Notion children listings in a SQLite database so
// repeated conversions of the same pages do not hit the API again.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/notion2md/pkg/convert"
	"github.com/pdiddy/notion2md/pkg/types"
)

// Store is a SQLite-backed store of children listings keyed by block id
// and cursor.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens or creates the cache database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.CacheConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("cache path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, ttl: cfg.TTL, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS children (
			block_id TEXT NOT NULL,
			cursor TEXT NOT NULL,
			payload TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (block_id, cursor)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_children_fetched_at ON children(fetched_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *Store) fresh(fetchedAt int64) bool {
	if s.ttl <= 0 {
		return true
	}
	return s.now().Sub(time.Unix(0, fetchedAt)) < s.ttl
}

// Get returns the cached listing for blockID at cursor. Expired entries
// are reported as missing.
func (s *Store) Get(ctx context.Context, blockID, cursor string) (types.ChildrenPage, bool, error) {
	var payload string
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM children WHERE block_id = ? AND cursor = ?`,
		blockID, cursor,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ChildrenPage{}, false, nil
	}
	if err != nil {
		return types.ChildrenPage{}, false, fmt.Errorf("reading cached children of %s: %w", blockID, err)
	}
	if !s.fresh(fetchedAt) {
		return types.ChildrenPage{}, false, nil
	}

	var page types.ChildrenPage
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		return types.ChildrenPage{}, false, fmt.Errorf("decoding cached children of %s: %w", blockID, err)
	}
	return page, true, nil
}

// Put stores a listing, replacing any earlier entry for the same key.
func (s *Store) Put(ctx context.Context, blockID, cursor string, page types.ChildrenPage) error {
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encoding children of %s: %w", blockID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO children (block_id, cursor, payload, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(block_id, cursor) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		blockID, cursor, string(payload), s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("caching children of %s: %w", blockID, err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed. With
// no TTL nothing expires.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM children WHERE fetched_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// Client serves listings from the Store and falls back to the wrapped
// client on a miss. It satisfies convert.Client.
type Client struct {
	store  *Store
	next   convert.Client
	hits   atomic.Int64
	misses atomic.Int64
}

// Wrap returns a caching Client in front of next.
func (s *Store) Wrap(next convert.Client) *Client {
	return &Client{store: s, next: next}
}

// ListChildren returns the cached listing or fetches and caches it. Errors
// from the wrapped client are returned unchanged and nothing is cached.
func (c *Client) ListChildren(ctx context.Context, blockID, cursor string) (types.ChildrenPage, error) {
	page, ok, err := c.store.Get(ctx, blockID, cursor)
	if err != nil {
		return types.ChildrenPage{}, err
	}
	if ok {
		c.hits.Add(1)
		return page, nil
	}
	c.misses.Add(1)

	page, err = c.next.ListChildren(ctx, blockID, cursor)
	if err != nil {
		return types.ChildrenPage{}, err
	}
	if err := c.store.Put(ctx, blockID, cursor, page); err != nil {
		return types.ChildrenPage{}, err
	}
	return page, nil
}

// Stats returns the number of cache hits and misses so far.
func (c *Client) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
