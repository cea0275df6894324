// Package cache provides a TTL file cache for registry responses and the
// search name index. Entries are stored as a versioned JSON envelope so a
// stale or incompatible cache is discarded rather than crashing a read.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// SchemaVersion is bumped whenever the on-disk envelope changes shape.
// Entries written with a different version are treated as misses.
const SchemaVersion = 1

// DefaultTTL is the default time-to-live for cached entries.
const DefaultTTL = 24 * time.Hour

// Cache is an injectable file-backed cache. Construct with New or NewAt; a
// nil *Cache is valid and disables caching entirely.
type Cache struct {
	Dir string
	TTL time.Duration

	now func() time.Time // test hook
}

type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	Payload json.RawMessage `json:"payload"`
}

// New creates a cache rooted at the user cache dir under appName.
func New(appName string, ttl time.Duration) (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Cache{Dir: dir, TTL: ttl, now: time.Now}, nil
}

// NewAt creates a cache in an explicit directory, for tests.
func NewAt(dir string, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Cache{Dir: dir, TTL: ttl, now: time.Now}
}

func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.Dir, hex.EncodeToString(sum[:16])+".json")
}

// Get unmarshals the cached payload for key into v. It reports false on a
// miss, an expired entry, a schema mismatch, or any unreadable content.
func (c *Cache) Get(key string, v any) bool {
	if c == nil {
		return false
	}
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return false
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false
	}
	if env.Version != SchemaVersion {
		return false
	}
	if c.timeNow().Sub(env.SavedAt) > c.TTL {
		return false
	}
	return json.Unmarshal(env.Payload, v) == nil
}

// Set marshals v and stores it under key with the current timestamp.
func (c *Cache) Set(key string, v any) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope{
		Version: SchemaVersion,
		SavedAt: c.timeNow(),
		Payload: payload,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), data, 0o644)
}

// Clear removes all cached entries.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			os.Remove(filepath.Join(c.Dir, entry.Name()))
		}
	}
	return nil
}

func (c *Cache) timeNow() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}
