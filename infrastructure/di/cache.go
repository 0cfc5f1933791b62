package di

import (
	"context"
	"strings"
	"sync"
	"time"
)

// HitRecorder observes cache lookups
type HitRecorder interface {
	RecordCacheHit(hit bool)
}

// InMemoryCache provides a simple in-memory cache implementation
type InMemoryCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem

	recorder HitRecorder
	now      func() time.Time

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// NewInMemoryCache creates a new in-memory cache that sweeps expired
// entries every interval. Close stops the sweeper.
func NewInMemoryCache(interval time.Duration, recorder HitRecorder) *InMemoryCache {
	if interval <= 0 {
		interval = time.Minute
	}
	cache := &InMemoryCache{
		items:    make(map[string]cacheItem),
		recorder: recorder,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	cache.wg.Add(1)
	go cache.cleanupExpired(interval)

	return cache
}

// Get retrieves a value from cache
func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	hit := exists && c.now().Before(item.expiresAt)
	if c.recorder != nil {
		c.recorder.RecordCacheHit(hit)
	}
	if !hit {
		return nil, false
	}
	return item.value, true
}

// Set stores a value in cache. A non-positive ttl is a no-op.
func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Delete removes a value from cache
func (c *InMemoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// DeletePrefix removes every key starting with prefix
func (c *InMemoryCache) DeletePrefix(ctx context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

// Len reports the number of stored entries, expired ones included
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the sweeper and waits for it to exit. Safe to call twice.
func (c *InMemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
	c.wg.Wait()
}

// cleanupExpired periodically removes expired items
func (c *InMemoryCache) cleanupExpired(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *InMemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, key)
		}
	}
}
