package cache

import (
	"sync"
	"time"
)

// pageEntry is a rendered page with the time it was stored
type pageEntry struct {
	body      []byte
	timestamp time.Time
}

// PageCache provides a thread-safe in-memory cache for rendered pages
type PageCache struct {
	cache      map[string]pageEntry
	expiration time.Duration
	mutex      sync.RWMutex
	now        func() time.Time
}

// NewPageCache creates a new page cache whose entries live for expiration
func NewPageCache(expiration time.Duration) *PageCache {
	if expiration <= 0 {
		expiration = time.Hour
	}

	return &PageCache{
		cache:      make(map[string]pageEntry),
		expiration: expiration,
		now:        time.Now,
	}
}

// Get retrieves a page body from the cache if available and not expired
func (c *PageCache) Get(key string) ([]byte, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[key]
	if !exists || c.now().Sub(entry.timestamp) > c.expiration {
		return nil, false
	}

	return entry.body, true
}

// Put stores a page body in the cache, replacing any expired entry for key
func (c *PageCache) Put(key string, body []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[key] = pageEntry{
		body:      body,
		timestamp: c.now(),
	}
}
