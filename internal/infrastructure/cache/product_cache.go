// Package cache provides product caching in front of the e-commerce
// platform adapter, with Redis and in-memory implementations.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/edulistas/backend/internal/domain/storefront"
)

// DefaultProductTTL is how long cached products stay fresh
const DefaultProductTTL = 5 * time.Minute

// ProductCache stores recently fetched platform products and search
// results
type ProductCache interface {
	// Get returns the cached product and whether it was present
	Get(ctx context.Context, id storefront.ProductID) (*storefront.Product, bool)
	// Set stores a product until the TTL elapses
	Set(ctx context.Context, product *storefront.Product)
	// GetSearch returns cached search results for a key
	GetSearch(ctx context.Context, key string) ([]storefront.ProductSummary, bool)
	// SetSearch stores search results until the TTL elapses
	SetSearch(ctx context.Context, key string, results []storefront.ProductSummary)
	// Invalidate drops a single product from the cache
	Invalidate(ctx context.Context, id storefront.ProductID)
	// Close releases resources held by the cache
	Close() error
}

type inMemoryEntry struct {
	product   storefront.Product
	expiresAt time.Time
}

type inMemorySearchEntry struct {
	results   []storefront.ProductSummary
	expiresAt time.Time
}

// InMemoryProductCache is a TTL cache suitable for single-instance
// deployments and testing. State is not shared across processes.
type InMemoryProductCache struct {
	mu       sync.RWMutex
	entries  map[storefront.ProductID]inMemoryEntry
	searches map[string]inMemorySearchEntry
	ttl      time.Duration

	// now is injectable for tests
	now func() time.Time
}

// NewInMemoryProductCache creates an in-memory product cache
func NewInMemoryProductCache(ttl time.Duration) *InMemoryProductCache {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &InMemoryProductCache{
		entries:  make(map[storefront.ProductID]inMemoryEntry),
		searches: make(map[string]inMemorySearchEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the cached product and whether it was present
func (c *InMemoryProductCache) Get(_ context.Context, id storefront.ProductID) (*storefront.Product, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return nil, false
	}
	product := entry.product
	return &product, true
}

// Set stores a product until the TTL elapses
func (c *InMemoryProductCache) Set(_ context.Context, product *storefront.Product) {
	if product == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[product.ID] = inMemoryEntry{
		product:   *product,
		expiresAt: c.now().Add(c.ttl),
	}
	c.evictExpiredLocked()
}

// GetSearch returns cached search results for a key
func (c *InMemoryProductCache) GetSearch(_ context.Context, key string) ([]storefront.ProductSummary, bool) {
	c.mu.RLock()
	entry, ok := c.searches[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.searches, key)
		c.mu.Unlock()
		return nil, false
	}
	results := make([]storefront.ProductSummary, len(entry.results))
	copy(results, entry.results)
	return results, true
}

// SetSearch stores search results until the TTL elapses
func (c *InMemoryProductCache) SetSearch(_ context.Context, key string, results []storefront.ProductSummary) {
	stored := make([]storefront.ProductSummary, len(results))
	copy(stored, results)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searches[key] = inMemorySearchEntry{
		results:   stored,
		expiresAt: c.now().Add(c.ttl),
	}
	c.evictExpiredLocked()
}

// Invalidate drops a single product from the cache
func (c *InMemoryProductCache) Invalidate(_ context.Context, id storefront.ProductID) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// Close releases resources held by the cache
func (c *InMemoryProductCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[storefront.ProductID]inMemoryEntry)
	c.searches = make(map[string]inMemorySearchEntry)
	c.mu.Unlock()
	return nil
}

// evictExpiredLocked drops expired entries. Caller holds the lock.
func (c *InMemoryProductCache) evictExpiredLocked() {
	now := c.now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
	for key, entry := range c.searches {
		if now.After(entry.expiresAt) {
			delete(c.searches, key)
		}
	}
}
