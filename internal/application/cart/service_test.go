package cart

import (
	"context"
	"testing"

	"github.com/edulistas/backend/internal/domain/personalization"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockCatalog is a mock implementation of storefront.Catalog
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
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalog) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockLister is a mock personalized list reader
type MockLister struct {
	mock.Mock
}

func (m *MockLister) MaterializedItems(ctx context.Context, visitorKey string, listID uuid.UUID) ([]personalization.Item, error) {
	args := m.Called(ctx, visitorKey, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]personalization.Item), args.Error(1)
}

func activeProduct(id storefront.ProductID, variants ...storefront.Variant) *storefront.Product {
	return &storefront.Product{
		ID:       id,
		Title:    "Producto " + id.String(),
		Status:   storefront.ProductStatusActive,
		Variants: variants,
	}
}

func intPtr(v int) *int { return &v }

func TestBuildCart(t *testing.T) {
	catalog := new(MockCatalog)
	service := NewCartService(catalog, nil, nil)

	catalog.On("GetProduct", mock.Anything, storefront.ProductID("100")).Return(
		activeProduct("100", storefront.Variant{ID: "11", Price: decimal.NewFromInt(1990), InventoryTracked: true, InventoryQuantity: intPtr(10)}), nil)
	catalog.On("GetProduct", mock.Anything, storefront.ProductID("200")).Return(
		activeProduct("200", storefront.Variant{ID: "22", Price: decimal.NewFromInt(350), InventoryTracked: false}), nil)
	catalog.On("CartPermalink", []storefront.CartLine{
		{VariantID: "11", Quantity: 3},
		{VariantID: "22", Quantity: 12},
	}).Return("https://tienda.myshopify.com/cart/11:3,22:12", nil)

	resp, err := service.BuildCart(context.Background(), BuildCartRequest{Items: []LineRequest{
		{ProductID: "100", VariantID: "11", Quantity: 3},
		{ProductID: "200", Quantity: 12},
	}})
	require.NoError(t, err)

	assert.Equal(t, "https://tienda.myshopify.com/cart/11:3,22:12", resp.CheckoutURL)
	require.Len(t, resp.Items, 2)
	assert.Empty(t, resp.Rejected)
	// 3*1990 + 12*350 = 10170
	assert.Equal(t, "10170.00", resp.Total)
	catalog.AssertExpectations(t)
}

func TestBuildCartPartialFailure(t *testing.T) {
	catalog := new(MockCatalog)
	service := NewCartService(catalog, nil, nil)

	catalog.On("GetProduct", mock.Anything, storefront.ProductID("100")).Return(
		activeProduct("100", storefront.Variant{ID: "11", Price: decimal.NewFromInt(1990)}), nil)
	catalog.On("GetProduct", mock.Anything, storefront.ProductID("404")).Return(nil, storefront.ErrProductNotFound)
	catalog.On("GetProduct", mock.Anything, storefront.ProductID("500")).Return(nil, storefront.ErrPlatformUnavailable)
	catalog.On("CartPermalink", mock.Anything).Return("https://tienda.myshopify.com/cart/11:1", nil)

	resp, err := service.BuildCart(context.Background(), BuildCartRequest{Items: []LineRequest{
		{ProductID: "100", Quantity: 1},
		{ProductID: "404", Quantity: 1},
		{ProductID: "500", Quantity: 2},
	}})
	require.NoError(t, err, "line failures must not abort the cart")

	require.Len(t, resp.Items, 1)
	require.Len(t, resp.Rejected, 2)
	assert.Equal(t, ReasonProductNotFound, resp.Rejected[0].Reason)
	assert.Equal(t, ReasonUnavailable, resp.Rejected[1].Reason)
	assert.Equal(t, 2, resp.Rejected[1].Quantity)
	assert.NotEmpty(t, resp.CheckoutURL)
}

func TestBuildCartRejectionRules(t *testing.T) {
	tests := []struct {
		name      string
		product   *storefront.Product
		line      LineRequest
		reason    string
		available *int
	}{
		{
			name: "inactive product",
			product: &storefront.Product{
				ID: "100", Status: storefront.ProductStatusArchived,
				Variants: []storefront.Variant{{ID: "11"}},
			},
			line:   LineRequest{ProductID: "100", Quantity: 1},
			reason: ReasonProductInactive,
		},
		{
			name:    "no variants",
			product: &storefront.Product{ID: "100", Status: storefront.ProductStatusActive},
			line:    LineRequest{ProductID: "100", Quantity: 1},
			reason:  ReasonNoVariants,
		},
		{
			name: "insufficient stock",
			product: activeProduct("100",
				storefront.Variant{ID: "11", InventoryTracked: true, InventoryQuantity: intPtr(1)}),
			line:      LineRequest{ProductID: "100", Quantity: 5},
			reason:    ReasonInsufficientStock,
			available: intPtr(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := new(MockCatalog)
			service := NewCartService(catalog, nil, nil)
			catalog.On("GetProduct", mock.Anything, storefront.ProductID("100")).Return(tt.product, nil)

			resp, err := service.BuildCart(context.Background(), BuildCartRequest{Items: []LineRequest{tt.line}})
			require.NoError(t, err)
			assert.Empty(t, resp.Items)
			require.Len(t, resp.Rejected, 1)
			assert.Equal(t, tt.reason, resp.Rejected[0].Reason)
			assert.Equal(t, tt.available, resp.Rejected[0].AvailableStock)
			assert.Empty(t, resp.CheckoutURL, "no checkout link without sellable lines")
		})
	}
}

func TestBuildCartVariantFallback(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	catalog := new(MockCatalog)
	service := NewCartService(catalog, nil, zap.New(core))

	catalog.On("GetProduct", mock.Anything, storefront.ProductID("100")).Return(
		activeProduct("100",
			storefront.Variant{ID: "11", Price: decimal.NewFromInt(990)},
			storefront.Variant{ID: "22", Price: decimal.NewFromInt(1290)},
		), nil)
	catalog.On("CartPermalink", []storefront.CartLine{{VariantID: "11", Quantity: 1}}).
		Return("https://tienda.myshopify.com/cart/11:1", nil)

	// The requested variant no longer exists upstream
	resp, err := service.BuildCart(context.Background(), BuildCartRequest{Items: []LineRequest{
		{ProductID: "100", VariantID: "99", Quantity: 1},
	}})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "11", resp.Items[0].VariantID, "unknown variants fall back to the first variant")

	entries := logs.FilterMessage("requested variant unknown, substituting first variant").All()
	require.Len(t, entries, 1, "the substitution must be logged")
	fields := entries[0].ContextMap()
	assert.Equal(t, "99", fields["requested_variant"])
	assert.Equal(t, "11", fields["substituted_variant"])
}

func TestBuildCartFromList(t *testing.T) {
	catalog := new(MockCatalog)
	lister := new(MockLister)
	service := NewCartService(catalog, lister, nil)

	listID := uuid.New()
	variant := storefront.VariantID("11")
	lister.On("MaterializedItems", mock.Anything, "10.0.0.1", listID).Return([]personalization.Item{
		{ProductID: "100", VariantID: &variant, Name: "Cuaderno", Quantity: 3},
	}, nil)
	catalog.On("GetProduct", mock.Anything, storefront.ProductID("100")).Return(
		activeProduct("100", storefront.Variant{ID: "11", Price: decimal.NewFromInt(1990)}), nil)
	catalog.On("CartPermalink", []storefront.CartLine{{VariantID: "11", Quantity: 3}}).
		Return("https://tienda.myshopify.com/cart/11:3", nil)

	resp, err := service.BuildCartFromList(context.Background(), "10.0.0.1", listID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "5970.00", resp.Total)
	lister.AssertExpectations(t)
}
