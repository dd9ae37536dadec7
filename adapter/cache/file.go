// Package cache keeps raw fetch results on disk for a short time.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const DefaultTTL = 900 * time.Second

// entry is the on-disk layout of one cached fetch.
type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Data     json.RawMessage `json:"data"`
}

// FileStore writes one JSON file per hashed source URL under dir.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Key returns the stable file key for a URL.
func Key(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (s *FileStore) path(url string) string {
	return filepath.Join(s.dir, Key(url)+".json")
}

// Get returns the cached payload, or false when it is absent, unreadable or expired.
// Expired files are left in place and overwritten by the next Set.
func (s *FileStore) Get(_ context.Context, url string) ([]byte, bool) {
	raw, err := os.ReadFile(s.path(url))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false
	}
	if s.now().Sub(e.CachedAt) >= s.ttl {
		return nil, false
	}
	return []byte(e.Data), true
}

// Set overwrites the entry for url. payload must be valid JSON.
func (s *FileStore) Set(_ context.Context, url string, payload []byte) error {
	raw, err := json.Marshal(entry{CachedAt: s.now(), Data: json.RawMessage(payload)})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, Key(url)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(url))
}
