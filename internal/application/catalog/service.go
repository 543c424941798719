// Package catalog exposes read-only product search against the
// e-commerce platform to the storefront UI.
package catalog

import (
	"context"
	"strings"

	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/edulistas/backend/internal/domain/storefront"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// CatalogService proxies product lookups to the platform adapter
type CatalogService struct {
	catalog storefront.Catalog
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(catalog storefront.Catalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Search finds products by free-text term
func (s *CatalogService) Search(ctx context.Context, term string, limit int) (*SearchResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, shared.NewValidationError("search term is required")
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	summaries, err := s.catalog.SearchProducts(ctx, storefront.SearchQuery{Term: term, Limit: limit})
	if err != nil {
		return nil, err
	}

	rows := make([]ProductSummaryResponse, 0, len(summaries))
	for _, p := range summaries {
		rows = append(rows, toSummaryResponse(p))
	}
	return &SearchResponse{Products: rows, Total: len(rows)}, nil
}

// Get fetches one product with its variants
func (s *CatalogService) Get(ctx context.Context, rawID string) (*ProductResponse, error) {
	id := storefront.NormalizeProductID(rawID)
	if id.IsZero() {
		return nil, shared.NewValidationError("product id is required")
	}
	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Status reports whether the platform connection is configured and
// reachable
func (s *CatalogService) Status(ctx context.Context) *StatusResponse {
	status := &StatusResponse{Configured: s.catalog.IsConfigured()}
	if !status.Configured {
		return status
	}
	if err := s.catalog.Ping(ctx); err != nil {
		status.Detail = err.Error()
		return status
	}
	status.Reachable = true
	return status
}
