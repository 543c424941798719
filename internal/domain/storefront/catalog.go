// Package storefront defines the domain model for the external product
// catalog (the e-commerce platform that owns products, variants and stock).
package storefront

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Classified catalog errors. Adapters must map upstream failures onto
// these so callers can distinguish a missing product from a throttled
// or unavailable platform.
var (
	// ErrProductNotFound indicates the product does not exist upstream
	ErrProductNotFound = errors.New("product not found on platform")
	// ErrAccessForbidden indicates the platform rejected our credentials
	ErrAccessForbidden = errors.New("platform access forbidden")
	// ErrRateLimited indicates the platform throttled the request
	ErrRateLimited = errors.New("platform rate limit exceeded")
	// ErrPlatformUnavailable indicates an upstream server error
	ErrPlatformUnavailable = errors.New("platform temporarily unavailable")
	// ErrNotConfigured indicates the adapter has no usable credentials
	ErrNotConfigured = errors.New("platform adapter not configured")
)

// ProductStatus is the upstream lifecycle state of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

// Variant is a purchasable variation of a product
type Variant struct {
	ID    VariantID
	Title string
	SKU   string
	Price decimal.Decimal
	// InventoryTracked is false when the platform does not manage stock
	// for this variant; such variants are always considered available.
	InventoryTracked bool
	// InventoryQuantity is nil when the platform reports no stock figure
	// for a tracked variant. An unknown quantity never rejects.
	InventoryQuantity *int
}

// CanFulfill reports whether the variant can satisfy the requested
// quantity. Untracked or unknown inventory never rejects.
func (v Variant) CanFulfill(quantity int) bool {
	if !v.InventoryTracked || v.InventoryQuantity == nil {
		return true
	}
	return *v.InventoryQuantity >= quantity
}

// AvailableStock returns the known stock figure, or nil when the
// platform does not track or report one.
func (v Variant) AvailableStock() *int {
	if !v.InventoryTracked || v.InventoryQuantity == nil {
		return nil
	}
	quantity := *v.InventoryQuantity
	return &quantity
}

// Product is a catalog product with its variants
type Product struct {
	ID       ProductID
	Title    string
	Status   ProductStatus
	ImageURL string
	Variants []Variant
}

// IsActive reports whether the product is sellable upstream
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// HasVariants reports whether the product has at least one variant
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// ResolveVariant picks the variant to sell for an optional requested
// variant id. A matching id wins; an unknown or absent id falls back to
// the first variant. The boolean is false only when the product has no
// variants at all.
func (p *Product) ResolveVariant(requested *VariantID) (Variant, bool) {
	if len(p.Variants) == 0 {
		return Variant{}, false
	}
	if requested != nil {
		for _, v := range p.Variants {
			if v.ID.Equal(*requested) {
				return v, true
			}
		}
	}
	return p.Variants[0], true
}

// ProductSummary is a lightweight search result row
type ProductSummary struct {
	ID       ProductID
	Title    string
	Status   ProductStatus
	ImageURL string
	// Price is the price of the first variant, zero when unknown
	Price decimal.Decimal
}

// SearchQuery describes a catalog search request
type SearchQuery struct {
	Term  string
	Limit int
}

// CartLine is one entry of a prefilled cart permalink
type CartLine struct {
	VariantID VariantID
	Quantity  int
}

// Catalog is implemented by e-commerce platform adapters
type Catalog interface {
	// GetProduct fetches a product with all variants by its platform id
	GetProduct(ctx context.Context, id ProductID) (*Product, error)
	// SearchProducts finds products matching the query term
	SearchProducts(ctx context.Context, query SearchQuery) ([]ProductSummary, error)
	// CartPermalink builds a storefront URL that preloads the given lines
	CartPermalink(lines []CartLine) (string, error)
	// Ping verifies connectivity and credentials against the platform
	Ping(ctx context.Context) error
	// IsConfigured reports whether the adapter has credentials
	IsConfigured() bool
}
