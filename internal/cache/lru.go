package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"duck-insights/internal/domain"
)

var _ domain.ResultCache = (*LRUCache)(nil)

// LRUCache is a bounded result cache that evicts the least recently used
// entry once maxEntries is exceeded.
type LRUCache struct {
	entries *lru.Cache[string, *domain.ExecutionResult]
}

// NewLRUCache creates an LRUCache holding at most maxEntries results.
func NewLRUCache(maxEntries int) (*LRUCache, error) {
	entries, err := lru.New[string, *domain.ExecutionResult](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRUCache{entries: entries}, nil
}

// Get returns the cached result and marks it as recently used.
func (c *LRUCache) Get(_ context.Context, sqlKey string) (*domain.ExecutionResult, bool, error) {
	r, ok := c.entries.Get(sqlKey)
	return r, ok, nil
}

// Set stores result under key, evicting the oldest entry if the cache is full.
func (c *LRUCache) Set(_ context.Context, sqlKey string, result *domain.ExecutionResult) error {
	c.entries.Add(sqlKey, result)
	return nil
}

// Len returns the number of cached entries.
func (c *LRUCache) Len() int {
	return c.entries.Len()
}
