// Package cache provides ResultCache backends keyed by the literal SQL string.
package cache

import (
	"context"
	"sync"

	"duck-insights/internal/domain"
)

var _ domain.ResultCache = (*MemoryCache)(nil)

// MemoryCache is an unbounded, process-local result cache. Entries live until
// the process exits; nothing is ever evicted.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.ExecutionResult
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*domain.ExecutionResult)}
}

// Get returns the result last stored for exactly this key.
func (c *MemoryCache) Get(_ context.Context, sqlKey string) (*domain.ExecutionResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[sqlKey]
	return r, ok, nil
}

// Set stores result under key, replacing any previous entry.
func (c *MemoryCache) Set(_ context.Context, sqlKey string, result *domain.ExecutionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sqlKey] = result
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
