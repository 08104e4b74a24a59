package cache

import (
	"context"
	"sync"
	"time"

	"github.com/staffstream/recommendation-service/internal/domain"
)

type memoryEntry struct {
	page      domain.RankedPage
	createdAt time.Time
	expiresAt time.Time
}

// Memory is a bounded in-process cache for deployments without Redis and for
// tests. When full it evicts the entry with the earliest creation time:
// entries share one short TTL, so creation order approximates use order
// closely enough, and FIFO needs no per-read bookkeeping.
type Memory struct {
	mu         sync.Mutex
	entries    map[Key]memoryEntry
	order      []Key
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &Memory{
		entries:    make(map[Key]memoryEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (c *Memory) Get(_ context.Context, key Key) (domain.RankedPage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.RankedPage{}, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.remove(key)
		return domain.RankedPage{}, false, nil
	}
	return e.page, true, nil
}

func (c *Memory) Set(_ context.Context, key Key, page domain.RankedPage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}
	c.entries[key] = memoryEntry{page: page, createdAt: now, expiresAt: now.Add(c.ttl)}
	c.order = append(c.order, key)

	for len(c.entries) > c.maxEntries {
		c.remove(c.order[0])
	}
	return nil
}

func (c *Memory) InvalidateUser(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.order[:0]
	for _, k := range c.order {
		if k.UserID == userID {
			delete(c.entries, k)
		} else {
			kept = append(kept, k)
		}
	}
	c.order = kept
	return nil
}

func (c *Memory) Ping(context.Context) error { return nil }

// Len reports the live entry count, expired entries included until touched.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with the lock held.
func (c *Memory) remove(key Key) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
