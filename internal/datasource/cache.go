package datasource

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Cache is a file cache for provider responses. Entries expire after ttl.
type Cache struct {
	dir string
	ttl time.Duration
	mu  sync.RWMutex
}

type cacheEntry struct {
	Key      string          `json:"key"`
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// NewCache creates dir if needed.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		dir = "cache/prices"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Get decodes the cached value for key into v. Expired entries are removed.
func (c *Cache) Get(key string, v any) bool {
	c.mu.RLock()
	path := c.path(key)
	raw, err := os.ReadFile(path)
	c.mu.RUnlock()
	if err != nil {
		return false
	}

	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Key != key {
		return false
	}
	if time.Since(entry.StoredAt) > c.ttl {
		c.mu.Lock()
		os.Remove(path)
		c.mu.Unlock()
		return false
	}
	return json.Unmarshal(entry.Payload, v) == nil
}

// Set stores v under key.
func (c *Cache) Set(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(cacheEntry{Key: key, StoredAt: time.Now(), Payload: payload})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return os.WriteFile(c.path(key), raw, 0644)
}

// CleanupExpired removes entries older than the ttl and returns how many went.
func (c *Cache) CleanupExpired() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > c.ttl {
			if os.Remove(filepath.Join(c.dir, entry.Name())) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", md5.Sum([]byte(key))))
}

// MakeKey joins key parts with ':'.
func MakeKey(parts ...string) string {
	return strings.Join(parts, ":")
}
