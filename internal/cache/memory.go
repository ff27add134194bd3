package cache

import (
	"context"
	"sync"
)

// Memory is an in-process tag cache. Entries are opaque values stored under
// a tag; invalidating a tag drops them all.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]map[string]any // tag -> key -> value
}

// NewMemory creates a new in-process tag cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]map[string]any),
	}
}

// Put stores a value under a tag and key.
func (c *Memory) Put(tag, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries[tag] == nil {
		c.entries[tag] = make(map[string]any)
	}
	c.entries[tag][key] = value
}

// Get retrieves a value stored under a tag and key.
func (c *Memory) Get(tag, key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[tag][key]
	return value, ok
}

// Invalidate drops every cached entry under the tag.
func (c *Memory) Invalidate(ctx context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, tag)
	return nil
}
