package catalog

import "github.com/edulistas/backend/internal/domain/storefront"

// ProductSummaryResponse is one search result row
type ProductSummaryResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	ImageURL string `json:"image_url,omitempty"`
	Price    string `json:"price"`
}

// SearchResponse is a product search result
type SearchResponse struct {
	Products []ProductSummaryResponse `json:"products"`
	Total    int                      `json:"total"`
}

// VariantResponse is one variant of a product
type VariantResponse struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku,omitempty"`
	Price             string `json:"price"`
	Available        bool `json:"available"`
	InventoryTracked bool `json:"inventory_tracked"`
	// InventoryQuantity is null when the platform reports no figure
	InventoryQuantity *int `json:"inventory_quantity"`
}

// ProductResponse is a product with all variants
type ProductResponse struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Status   string            `json:"status"`
	ImageURL string            `json:"image_url,omitempty"`
	Variants []VariantResponse `json:"variants"`
}

// StatusResponse reports platform connectivity
type StatusResponse struct {
	Configured bool   `json:"configured"`
	Reachable  bool   `json:"reachable"`
	Detail     string `json:"detail,omitempty"`
}

func toSummaryResponse(p storefront.ProductSummary) ProductSummaryResponse {
	return ProductSummaryResponse{
		ID:       p.ID.String(),
		Title:    p.Title,
		Status:   string(p.Status),
		ImageURL: p.ImageURL,
		Price:    p.Price.StringFixed(2),
	}
}

func toProductResponse(p *storefront.Product) *ProductResponse {
	variants := make([]VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, VariantResponse{
			ID:                v.ID.String(),
			Title:             v.Title,
			SKU:               v.SKU,
			Price:             v.Price.StringFixed(2),
			Available:         v.CanFulfill(1),
			InventoryTracked:  v.InventoryTracked,
			InventoryQuantity: v.InventoryQuantity,
		})
	}
	return &ProductResponse{
		ID:       p.ID.String(),
		Title:    p.Title,
		Status:   string(p.Status),
		ImageURL: p.ImageURL,
		Variants: variants,
	}
}
