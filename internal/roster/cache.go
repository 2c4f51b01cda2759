package roster

import (
	"sync"
	"time"
)

// Cache holds the members from the most recent successful sync. Reads
// are concurrent (the HTTP layer serves from here); writes happen only
// as the atomic swap at the end of a sync, so sheet order is preserved
// by keeping ids in insertion order alongside the map.
type Cache struct {
	mu       sync.RWMutex
	members  map[string]Member
	order    []string
	syncedAt time.Time
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		members: make(map[string]Member),
	}
}

// ReplaceAll swaps the cache contents for the given members, recording
// when the snapshot was taken. Input order is kept.
func (c *Cache) ReplaceAll(members []Member, at time.Time) {
	next := make(map[string]Member, len(members))
	order := make([]string, 0, len(members))
	for _, m := range members {
		if _, exists := next[m.ID]; !exists {
			order = append(order, m.ID)
		}
		next[m.ID] = m
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.members = next
	c.order = order
	c.syncedAt = at
}

// Get returns a member by id.
// Returns false if not found.
func (c *Cache) Get(id string) (Member, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.members[id]
	return m, ok
}

// Contains reports whether a member id is present.
func (c *Cache) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.members[id]
	return ok
}

// All returns every cached member in sheet order.
func (c *Cache) All() []Member {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Member, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.members[id])
	}
	return result
}

// Len returns the number of cached members.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.members)
}

// SyncedAt returns when the cache was last replaced. Zero before the
// first successful sync.
func (c *Cache) SyncedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.syncedAt
}

// Clear empties the cache.
// Primarily useful for testing.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members = make(map[string]Member)
	c.order = nil
	c.syncedAt = time.Time{}
}
