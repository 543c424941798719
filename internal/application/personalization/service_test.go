package personalization

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/edulistas/backend/internal/domain/listing"
	"github.com/edulistas/backend/internal/domain/personalization"
	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryEventRepo is an in-memory personalization.EventRepository used
// to exercise full read-modify-read flows
type memoryEventRepo struct {
	mu          sync.Mutex
	events      []personalization.Event
	seedBatches int
}

func (r *memoryEventRepo) Save(ctx context.Context, event *personalization.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *memoryEventRepo) SaveAll(ctx context.Context, events []*personalization.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seedBatches++
	for _, e := range events {
		r.events = append(r.events, *e)
	}
	return nil
}

func (r *memoryEventRepo) Update(ctx context.Context, event *personalization.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].ID == event.ID {
			r.events[i] = *event
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryEventRepo) FindByVisitorAndList(ctx context.Context, visitorKey string, listID uuid.UUID) ([]personalization.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []personalization.Event
	for _, e := range r.events {
		if e.VisitorKey == visitorKey && e.BaseListID == listID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryEventRepo) CountByVisitorAndList(ctx context.Context, visitorKey string, listID uuid.UUID) (int64, error) {
	events, _ := r.FindByVisitorAndList(ctx, visitorKey, listID)
	return int64(len(events)), nil
}

func (r *memoryEventRepo) FindByItem(ctx context.Context, visitorKey string, listID uuid.UUID, productID storefront.ProductID, variantID *storefront.VariantID) ([]personalization.Event, error) {
	events, _ := r.FindByVisitorAndList(ctx, visitorKey, listID)
	key := personalization.KeyOf(productID, variantID)
	var out []personalization.Event
	for _, e := range events {
		if e.Key() == key {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryEventRepo) DeleteByVisitorAndList(ctx context.Context, visitorKey string, listID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []personalization.Event
	var deleted int64
	for _, e := range r.events {
		if e.VisitorKey == visitorKey && e.BaseListID == listID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return deleted, nil
}

func (r *memoryEventRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []personalization.Event
	var deleted int64
	for _, e := range r.events {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return deleted, nil
}

// stubListRepo serves a fixed list
type stubListRepo struct {
	list *listing.SchoolList
}

func (r *stubListRepo) Save(ctx context.Context, list *listing.SchoolList) error   { return nil }
func (r *stubListRepo) Update(ctx context.Context, list *listing.SchoolList) error { return nil }
func (r *stubListRepo) Delete(ctx context.Context, id uuid.UUID) error             { return nil }
func (r *stubListRepo) SchoolNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	return nil, nil
}
func (r *stubListRepo) Search(ctx context.Context, filter listing.SearchFilter) ([]listing.ListSummary, int64, error) {
	return nil, 0, nil
}
func (r *stubListRepo) DistinctFilters(ctx context.Context) (*listing.FilterOptions, error) {
	return &listing.FilterOptions{}, nil
}
func (r *stubListRepo) FindByID(ctx context.Context, id uuid.UUID) (*listing.SchoolList, error) {
	if r.list == nil || r.list.ID != id {
		return nil, shared.NewNotFoundError("school list", id.String())
	}
	return r.list, nil
}

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

func newTestList(t *testing.T) *listing.SchoolList {
	t.Helper()
	list, err := listing.NewSchoolList("Colegio San Ignacio", "Metropolitana de Santiago", "Providencia", "4° Básico", "B")
	require.NoError(t, err)
	require.NoError(t, list.AddItem(listing.ListItem{
		ProductID: "100", Name: "Cuaderno universitario", UnitPrice: decimal.NewFromInt(1990), Quantity: 3,
	}))
	variant := storefront.VariantID("55")
	require.NoError(t, list.AddItem(listing.ListItem{
		ProductID: "200", VariantID: &variant, Name: "Lápiz grafito", UnitPrice: decimal.NewFromInt(350), Quantity: 12,
	}))
	return list
}

func newTestService(t *testing.T) (*PersonalizationService, *memoryEventRepo, *listing.SchoolList) {
	t.Helper()
	list := newTestList(t)
	events := &memoryEventRepo{}
	svc := NewPersonalizationService(&stubListRepo{list: list}, events, nil, nil)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}
	return svc, events, list
}

func TestGetPersonalizedListSeedsOnce(t *testing.T) {
	svc, events, list := newTestService(t)
	ctx := context.Background()

	first, err := svc.GetPersonalizedList(ctx, "10.0.0.1", list.ID)
	require.NoError(t, err)
	assert.Len(t, first.Items, 2)
	assert.False(t, first.Personalized)
	assert.Equal(t, "10170.00", first.Total)

	second, err := svc.GetPersonalizedList(ctx, "10.0.0.1", list.ID)
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.Equal(t, 1, events.seedBatches, "repeated reads must not reseed")
}

func TestGetPersonalizedListUnknownList(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetPersonalizedList(context.Background(), "10.0.0.1", uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetPersonalizedListRequiresVisitorKey(t *testing.T) {
	svc, _, list := newTestService(t)
	_, err := svc.GetPersonalizedList(context.Background(), "  ", list.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestAddProduct(t *testing.T) {
	svc, _, list := newTestService(t)
	ctx := context.Background()

	resp, err := svc.AddProduct(ctx, "10.0.0.1", list.ID, AddProductRequest{
		ProductID: "300",
		Name:      "Pegamento en barra",
		UnitPrice: "890",
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, 1, resp.AddedCount)
	assert.True(t, resp.Personalized)

	added := resp.Items[2]
	assert.Equal(t, "Pegamento en barra", added.Name)
	assert.False(t, added.IsOriginal)
	assert.Equal(t, "1780.00", added.Subtotal)
}

func TestModifyQuantityPreservesOrigin(t *testing.T) {
	svc, _, list := newTestService(t)
	ctx := context.Background()

	resp, err := svc.ModifyQuantity(ctx, "10.0.0.1", list.ID, "100", ModifyQuantityRequest{Quantity: 7})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	var cuaderno *PersonalizedItemResponse
	for i := range resp.Items {
		if resp.Items[i].ProductID == "100" {
			cuaderno = &resp.Items[i]
		}
	}
	require.NotNil(t, cuaderno)
	assert.Equal(t, 7, cuaderno.Quantity)
	assert.True(t, cuaderno.IsOriginal, "quantity edits must keep the base list origin")
	assert.Equal(t, "modified", cuaderno.LastAction)
	assert.Equal(t, 1, resp.ModifiedCount)
	assert.Equal(t, 0, resp.AddedCount)
}

func TestModifyQuantityUnknownLineCreatesEntry(t *testing.T) {
	svc, _, list := newTestService(t)
	ctx := context.Background()

	resp, err := svc.ModifyQuantity(ctx, "10.0.0.1", list.ID, "999", ModifyQuantityRequest{Quantity: 4})
	require.NoError(t, err)

	require.Len(t, resp.Items, 3)
	synthetic := resp.Items[2]
	assert.Equal(t, "999", synthetic.ProductID)
	assert.Equal(t, placeholderName, synthetic.Name)
	assert.Equal(t, 4, synthetic.Quantity)
	assert.False(t, synthetic.IsOriginal)
}

func TestRemoveAndReAddProduct(t *testing.T) {
	svc, _, list := newTestService(t)
	ctx := context.Background()

	removed, err := svc.RemoveProduct(ctx, "10.0.0.1", list.ID, "100", RemoveProductRequest{})
	require.NoError(t, err)
	require.Len(t, removed.Items, 1)
	assert.Equal(t, 1, removed.RemovedCount)
	assert.True(t, removed.Personalized)

	revived, err := svc.AddProduct(ctx, "10.0.0.1", list.ID, AddProductRequest{
		ProductID: "100", Name: "Cuaderno universitario", UnitPrice: "1990", Quantity: 1,
	})
	require.NoError(t, err)
	require.Len(t, revived.Items, 2)
	assert.Equal(t, 0, revived.RemovedCount)
}

func TestRemoveVariantLeavesSibling(t *testing.T) {
	svc, _, list := newTestService(t)
	ctx := context.Background()

	// Line 200/55 is removed; a hypothetical 200/- line would survive.
	resp, err := svc.RemoveProduct(ctx, "10.0.0.1", list.ID, "200", RemoveProductRequest{VariantID: "55"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "100", resp.Items[0].ProductID)
}

func TestResetRoundTrip(t *testing.T) {
	svc, events, list := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "10.0.0.1", list.ID, AddProductRequest{
		ProductID: "300", Name: "Pegamento", UnitPrice: "890", Quantity: 1,
	})
	require.NoError(t, err)
	_, err = svc.RemoveProduct(ctx, "10.0.0.1", list.ID, "100", RemoveProductRequest{})
	require.NoError(t, err)

	reset, err := svc.Reset(ctx, "10.0.0.1", list.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reset.Deleted)

	fresh, err := svc.GetPersonalizedList(ctx, "10.0.0.1", list.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Items, 2)
	assert.False(t, fresh.Personalized)
	assert.Equal(t, 2, events.seedBatches, "reset must allow reseeding")
}

func TestVisitorsAreIsolated(t *testing.T) {
	svc, _, list := newTestService(t)
	ctx := context.Background()

	_, err := svc.RemoveProduct(ctx, "10.0.0.1", list.ID, "100", RemoveProductRequest{})
	require.NoError(t, err)

	other, err := svc.GetPersonalizedList(ctx, "10.0.0.2", list.ID)
	require.NoError(t, err)
	assert.Len(t, other.Items, 2, "one visitor's edits must not leak to another")
	assert.False(t, other.Personalized)
}

func TestAddProductEnrichesFromCatalog(t *testing.T) {
	list := newTestList(t)
	events := &memoryEventRepo{}
	catalog := new(MockCatalog)
	svc := NewPersonalizationService(&stubListRepo{list: list}, events, catalog, nil)

	catalog.On("IsConfigured").Return(true)
	catalog.On("GetProduct", mock.Anything, storefront.ProductID("300")).Return(&storefront.Product{
		ID:       "300",
		Title:    "Pegamento en barra 40g",
		Status:   storefront.ProductStatusActive,
		ImageURL: "https://cdn.example.com/pegamento.jpg",
		Variants: []storefront.Variant{{ID: "77", SKU: "PEG-40", Price: decimal.NewFromInt(990)}},
	}, nil)

	resp, err := svc.AddProduct(context.Background(), "10.0.0.1", list.ID, AddProductRequest{
		ProductID: "300",
		Quantity:  1,
	})
	require.NoError(t, err)

	added := resp.Items[len(resp.Items)-1]
	assert.Equal(t, "Pegamento en barra 40g", added.Name)
	assert.Equal(t, "https://cdn.example.com/pegamento.jpg", added.ImageURL)
	assert.Equal(t, "990.00", added.UnitPrice)
	assert.Equal(t, "PEG-40", added.ProductCode)
	catalog.AssertExpectations(t)
}

func TestAddProductToleratesEnrichmentFailure(t *testing.T) {
	list := newTestList(t)
	events := &memoryEventRepo{}
	catalog := new(MockCatalog)
	svc := NewPersonalizationService(&stubListRepo{list: list}, events, catalog, nil)

	catalog.On("IsConfigured").Return(true)
	catalog.On("GetProduct", mock.Anything, storefront.ProductID("300")).Return(nil, storefront.ErrPlatformUnavailable)

	resp, err := svc.AddProduct(context.Background(), "10.0.0.1", list.ID, AddProductRequest{
		ProductID: "300",
		Quantity:  1,
	})
	require.NoError(t, err, "catalog outages must not block adds")
	added := resp.Items[len(resp.Items)-1]
	assert.Equal(t, placeholderName, added.Name)
}

func TestSweeperService(t *testing.T) {
	svc, events, list := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetPersonalizedList(ctx, "10.0.0.1", list.ID)
	require.NoError(t, err)

	t.Run("nothing expired", func(t *testing.T) {
		sweeper := NewSweeperService(events, time.Hour, nil)
		sweeper.now = func() time.Time {
			return time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
		}
		result, err := sweeper.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Deleted)
	})

	t.Run("expired events dropped", func(t *testing.T) {
		sweeper := NewSweeperService(events, time.Hour, nil)
		sweeper.now = func() time.Time {
			return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		}
		result, err := sweeper.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Deleted)

		count, err := events.CountByVisitorAndList(ctx, "10.0.0.1", list.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("default retention", func(t *testing.T) {
		sweeper := NewSweeperService(events, 0, nil)
		assert.Equal(t, DefaultRetentionWindow, sweeper.Retention())
	})
}
