package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lborres/jokes/core"
)

const (
	DefaultTTL     = 5 * time.Minute
	DefaultMaxSize = 500
)

// UserCache is an in-memory core.UserCache. Entries are user identities,
// never password digests.
type UserCache struct {
	entries map[string]*entry
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	deletes   atomic.Int64
	evictions atomic.Int64
}

type entry struct {
	user     *core.User
	cachedAt time.Time
}

func NewUserCache(c core.CacheConfig) *UserCache {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}

	return &UserCache{
		entries: make(map[string]*entry),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
		now:     time.Now,
	}
}

func (c *UserCache) Get(userID string) (*core.User, error) {
	c.mu.RLock()
	e, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, core.ErrCacheNotFound
	}

	if c.now().Sub(e.cachedAt) > c.ttl {
		c.misses.Add(1)
		c.mu.Lock()
		// only drop the entry we saw; a concurrent Set may have replaced it
		if cur, ok := c.entries[userID]; ok && cur == e {
			delete(c.entries, userID)
			c.evictions.Add(1)
		}
		c.mu.Unlock()
		return nil, core.ErrCacheNotFound
	}

	c.hits.Add(1)
	return e.user, nil
}

func (c *UserCache) Set(userID string, user *core.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[userID]; !exists && len(c.entries) >= c.maxSize {
		// map order is random enough for a bounded cache of small records
		for k := range c.entries {
			delete(c.entries, k)
			c.evictions.Add(1)
			break
		}
	}

	c.entries[userID] = &entry{
		user:     user.Identity(),
		cachedAt: c.now(),
	}
	c.sets.Add(1)
	return nil
}

func (c *UserCache) Delete(userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[userID]; ok {
		delete(c.entries, userID)
		c.deletes.Add(1)
	}
	return nil
}

func (c *UserCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	return nil
}

func (c *UserCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *UserCache) Stats() core.CacheStats {
	return core.CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Sets:      c.sets.Load(),
		Deletes:   c.deletes.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}
