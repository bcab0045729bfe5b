package fdc

import (
	"container/list"
	"sync"
	"time"
)

// Cache stores raw API payloads keyed by request. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, payload []byte)
}

// MemoryCache is an in-memory TTL cache with a size bound. The oldest
// entry is evicted when the bound is reached.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]*list.Element
	order   *list.List

	now func() time.Time
}

type cacheEntry struct {
	key     string
	payload []byte
	expires time.Time
}

// NewMemoryCache builds a cache holding at most maxSize entries for ttl
// each. Non-positive arguments fall back to sane defaults.
func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxSize <= 0 {
		maxSize = 512
	}
	return &MemoryCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expires) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return nil, false
	}
	return entry.payload, true
}

func (c *MemoryCache) Set(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.payload = payload
		entry.expires = c.now().Add(c.ttl)
		c.order.MoveToBack(elem)
		return
	}

	for len(c.entries) >= c.maxSize {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}

	elem := c.order.PushBack(&cacheEntry{
		key:     key,
		payload: payload,
		expires: c.now().Add(c.ttl),
	})
	c.entries[key] = elem
}
