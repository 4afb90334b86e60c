// Package cache stores synthesized audio in a SQLite database, keyed by
// the canonical SSML text and the voice used to render it.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("cache: entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS audio (
	key        TEXT PRIMARY KEY,
	content    BLOB NOT NULL,
	created_at INTEGER NOT NULL
)`

type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path, creating it when needed. Use
// ":memory:" for a cache that lives as long as the process.
func Open(ctx context.Context, path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("cache.Open: %w", err)
	}
	// each connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache.Open: %w", err)
	}

	return &Cache{
		db:  db,
		now: time.Now,
	}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Key returns the cache key for ssml rendered with the given voice.
func Key(ssml string, languageCode, voiceName string, speakingRate, pitch float64, sampleRate int) string {
	h := sha256.New()
	for _, s := range []string{
		ssml,
		languageCode,
		voiceName,
		strconv.FormatFloat(speakingRate, 'g', -1, 64),
		strconv.FormatFloat(pitch, 'g', -1, 64),
		strconv.Itoa(sampleRate),
	} {
		// length prefix keeps field boundaries unambiguous
		fmt.Fprintf(h, "%d:%s", len(s), s)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the audio stored for key, or ErrNotFound.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := c.db.QueryRowContext(ctx, `SELECT content FROM audio WHERE key = ?`, key).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cache.Cache.Get: %w", err)
	}
	return content, nil
}

// Put stores content for key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, content []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO audio (key, content, created_at) VALUES (?, ?, ?)`,
		key, content, c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("cache.Cache.Put: %w", err)
	}
	return nil
}

// Prune deletes entries older than maxAge and returns how many were
// removed.
func (c *Cache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM audio WHERE created_at < ?`,
		c.now().Add(-maxAge).Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache.Cache.Prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache.Cache.Prune: %w", err)
	}
	return n, nil
}
