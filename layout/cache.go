package layout

import (
	"sync"

	"github.com/boxflow/boxflow/box"
)

type cacheKey struct {
	node  box.NodeID
	space box.AvailableSpace
}

// Cache memoizes layout results by (box id, available space). It is
// invalidated wholesale on any style change; there is no fine-grained
// dependency tracking. Stored fragments are cloned on both sides so the
// cache never observes a caller's positioning adjustments.
type Cache struct {
	mu sync.RWMutex
	m  map[cacheKey]*Fragment
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{m: make(map[cacheKey]*Fragment)}
}

// Invalidate drops every memoized result. Call after any style mutation.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.m = make(map[cacheKey]*Fragment)
	c.mu.Unlock()
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *Cache) get(id box.NodeID, space box.AvailableSpace) (*Fragment, bool) {
	c.mu.RLock()
	f, ok := c.m[cacheKey{node: id, space: space}]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return f.clone(), true
}

func (c *Cache) put(id box.NodeID, space box.AvailableSpace, f *Fragment) {
	c.mu.Lock()
	c.m[cacheKey{node: id, space: space}] = f.clone()
	c.mu.Unlock()
}
