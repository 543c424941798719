package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleProduct(id storefront.ProductID) *storefront.Product {
	stock := 10
	return &storefront.Product{
		ID:     id,
		Title:  "Cuaderno universitario",
		Status: storefront.ProductStatusActive,
		Variants: []storefront.Variant{
			{ID: "222", Price: decimal.NewFromInt(1890), InventoryTracked: true, InventoryQuantity: &stock},
		},
	}
}

func TestInMemoryProductCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a product", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		c.Set(ctx, sampleProduct("111"))

		got, ok := c.Get(ctx, "111")
		require.True(t, ok)
		assert.Equal(t, "Cuaderno universitario", got.Title)
	})

	t.Run("misses unknown products", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		_, ok := c.Get(ctx, "999")
		assert.False(t, ok)
	})

	t.Run("expires entries after the TTL", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return current }

		c.Set(ctx, sampleProduct("111"))
		current = current.Add(2 * time.Minute)

		_, ok := c.Get(ctx, "111")
		assert.False(t, ok)
	})

	t.Run("returned product is a copy", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		c.Set(ctx, sampleProduct("111"))

		first, _ := c.Get(ctx, "111")
		first.Title = "mutated"

		second, _ := c.Get(ctx, "111")
		assert.Equal(t, "Cuaderno universitario", second.Title)
	})

	t.Run("round trips search results", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		c.SetSearch(ctx, "lapiz:5", []storefront.ProductSummary{{ID: "111", Title: "Lápiz grafito"}})

		got, ok := c.GetSearch(ctx, "lapiz:5")
		require.True(t, ok)
		require.Len(t, got, 1)
		assert.Equal(t, storefront.ProductID("111"), got[0].ID)

		_, ok = c.GetSearch(ctx, "cuaderno:5")
		assert.False(t, ok)
	})

	t.Run("search results expire after the TTL", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return current }

		c.SetSearch(ctx, "lapiz:5", []storefront.ProductSummary{{ID: "111"}})
		current = current.Add(2 * time.Minute)

		_, ok := c.GetSearch(ctx, "lapiz:5")
		assert.False(t, ok)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		c.Set(ctx, sampleProduct("111"))
		c.Invalidate(ctx, "111")

		_, ok := c.Get(ctx, "111")
		assert.False(t, ok)
	})
}

// MockCatalog mocks storefront.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetProduct(ctx context.Context, id storefront.ProductID) (*storefront.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Product), args.Error(1)
}

func (m *MockCatalog) SearchProducts(ctx context.Context, query storefront.SearchQuery) ([]storefront.ProductSummary, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storefront.ProductSummary), args.Error(1)
}

func (m *MockCatalog) CartPermalink(lines []storefront.CartLine) (string, error) {
	args := m.Called(lines)
	return args.String(0), args.Error(1)
}

func (m *MockCatalog) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCatalog) IsConfigured() bool {
	return m.Called().Bool(0)
}

func TestCachingCatalog_GetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches once then serves from cache", func(t *testing.T) {
		upstream := new(MockCatalog)
		upstream.On("GetProduct", mock.Anything, storefront.ProductID("111")).
			Return(sampleProduct("111"), nil).Once()

		catalog := NewCachingCatalog(upstream, NewInMemoryProductCache(time.Minute), nil)

		for i := 0; i < 3; i++ {
			product, err := catalog.GetProduct(ctx, "111")
			require.NoError(t, err)
			assert.Equal(t, storefront.ProductID("111"), product.ID)
		}
		upstream.AssertExpectations(t)
	})

	t.Run("does not cache failures", func(t *testing.T) {
		upstream := new(MockCatalog)
		upstream.On("GetProduct", mock.Anything, storefront.ProductID("999")).
			Return(nil, storefront.ErrProductNotFound).Twice()

		catalog := NewCachingCatalog(upstream, NewInMemoryProductCache(time.Minute), nil)

		for i := 0; i < 2; i++ {
			_, err := catalog.GetProduct(ctx, "999")
			assert.ErrorIs(t, err, storefront.ErrProductNotFound)
		}
		upstream.AssertExpectations(t)
	})

	t.Run("searches once then serves from cache", func(t *testing.T) {
		upstream := new(MockCatalog)
		upstream.On("SearchProducts", mock.Anything, storefront.SearchQuery{Term: "lápiz", Limit: 5}).
			Return([]storefront.ProductSummary{{ID: "111"}}, nil).Once()

		catalog := NewCachingCatalog(upstream, NewInMemoryProductCache(time.Minute), nil)

		for i := 0; i < 2; i++ {
			summaries, err := catalog.SearchProducts(ctx, storefront.SearchQuery{Term: "lápiz", Limit: 5})
			require.NoError(t, err)
			assert.Len(t, summaries, 1)
		}
		upstream.AssertExpectations(t)
	})

	t.Run("folded terms share a search cache entry", func(t *testing.T) {
		upstream := new(MockCatalog)
		upstream.On("SearchProducts", mock.Anything, storefront.SearchQuery{Term: "Lápiz", Limit: 5}).
			Return([]storefront.ProductSummary{{ID: "111"}}, nil).Once()

		catalog := NewCachingCatalog(upstream, NewInMemoryProductCache(time.Minute), nil)

		_, err := catalog.SearchProducts(ctx, storefront.SearchQuery{Term: "Lápiz", Limit: 5})
		require.NoError(t, err)

		summaries, err := catalog.SearchProducts(ctx, storefront.SearchQuery{Term: "lapiz", Limit: 5})
		require.NoError(t, err)
		assert.Len(t, summaries, 1)
		upstream.AssertExpectations(t)
	})

	t.Run("does not cache search failures", func(t *testing.T) {
		upstream := new(MockCatalog)
		upstream.On("SearchProducts", mock.Anything, mock.Anything).
			Return(nil, storefront.ErrPlatformUnavailable).Twice()

		catalog := NewCachingCatalog(upstream, NewInMemoryProductCache(time.Minute), nil)

		for i := 0; i < 2; i++ {
			_, err := catalog.SearchProducts(ctx, storefront.SearchQuery{Term: "lápiz", Limit: 5})
			assert.ErrorIs(t, err, storefront.ErrPlatformUnavailable)
		}
		upstream.AssertExpectations(t)
	})

	t.Run("delegates permalink and status", func(t *testing.T) {
		upstream := new(MockCatalog)
		upstream.On("CartPermalink", mock.Anything).Return("", errors.New("no lines"))
		upstream.On("IsConfigured").Return(true)

		catalog := NewCachingCatalog(upstream, NewInMemoryProductCache(time.Minute), nil)

		_, err := catalog.CartPermalink(nil)
		assert.Error(t, err)
		assert.True(t, catalog.IsConfigured())
	})
}
