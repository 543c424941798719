package cache

import (
	"context"
	"fmt"

	"github.com/edulistas/backend/internal/domain/geo"
	"github.com/edulistas/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// CachingCatalog decorates a storefront.Catalog with a product cache.
// Product lookups and searches are cached; permalinks and health
// checks pass straight through.
type CachingCatalog struct {
	next   storefront.Catalog
	cache  ProductCache
	logger *zap.Logger
}

// NewCachingCatalog wraps a catalog with the given product cache
func NewCachingCatalog(next storefront.Catalog, cache ProductCache, log *zap.Logger) *CachingCatalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachingCatalog{next: next, cache: cache, logger: log}
}

// GetProduct serves from the cache when possible
func (c *CachingCatalog) GetProduct(ctx context.Context, id storefront.ProductID) (*storefront.Product, error) {
	if product, ok := c.cache.Get(ctx, id); ok {
		c.logger.Debug("product cache hit", zap.String("product_id", id.String()))
		return product, nil
	}
	product, err := c.next.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, product)
	return product, nil
}

// SearchProducts serves repeated searches from the cache. The key folds
// the term so "Lápiz" and "lapiz" share an entry.
func (c *CachingCatalog) SearchProducts(ctx context.Context, query storefront.SearchQuery) ([]storefront.ProductSummary, error) {
	key := fmt.Sprintf("%s:%d", geo.Fold(query.Term), query.Limit)
	if results, ok := c.cache.GetSearch(ctx, key); ok {
		c.logger.Debug("search cache hit", zap.String("key", key))
		return results, nil
	}
	results, err := c.next.SearchProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	c.cache.SetSearch(ctx, key, results)
	return results, nil
}

// CartPermalink passes through to the underlying catalog
func (c *CachingCatalog) CartPermalink(lines []storefront.CartLine) (string, error) {
	return c.next.CartPermalink(lines)
}

// Ping passes through to the underlying catalog
func (c *CachingCatalog) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

// IsConfigured passes through to the underlying catalog
func (c *CachingCatalog) IsConfigured() bool {
	return c.next.IsConfigured()
}
