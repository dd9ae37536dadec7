package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rssdigest/adapter/cache"
)

// CacheStore is a ResultCache backed by a single Postgres table. Entries follow the
// same TTL rules as the file store; nothing else is persisted.
type CacheStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewCacheStore(db *sql.DB, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &CacheStore{db: db, ttl: ttl}
}

func (s *CacheStore) Ensure(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS feed_cache (
    url_hash TEXT PRIMARY KEY,
    cached_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    data JSONB NOT NULL
);
`)
	return err
}

func (s *CacheStore) Get(ctx context.Context, url string) ([]byte, bool) {
	var (
		cachedAt time.Time
		data     []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT cached_at, data FROM feed_cache WHERE url_hash = $1`, cache.Key(url),
	).Scan(&cachedAt, &data)
	if err != nil {
		return nil, false
	}
	if time.Since(cachedAt) >= s.ttl {
		return nil, false
	}
	return data, true
}

func (s *CacheStore) Set(ctx context.Context, url string, payload []byte) error {
	if len(payload) == 0 {
		return errors.New("empty cache payload")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO feed_cache (url_hash, cached_at, data) VALUES ($1, now(), $2::jsonb)
ON CONFLICT (url_hash) DO UPDATE SET cached_at = EXCLUDED.cached_at, data = EXCLUDED.data`,
		cache.Key(url), string(payload))
	return err
}

// Purge drops entries older than the TTL.
func (s *CacheStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM feed_cache WHERE cached_at < now() - make_interval(secs => $1)`, s.ttl.Seconds())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
