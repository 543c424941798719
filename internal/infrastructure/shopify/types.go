package shopify

import (
	"strconv"

	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/shopspring/decimal"
)

// Wire types for the Shopify Admin REST API.

type productEnvelope struct {
	Product shopifyProduct `json:"product"`
}

type productListEnvelope struct {
	Products []shopifyProduct `json:"products"`
}

type shopifyProduct struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Status   string           `json:"status"`
	Image    *shopifyImage    `json:"image"`
	Images   []shopifyImage   `json:"images"`
	Variants []shopifyVariant `json:"variants"`
}

type shopifyImage struct {
	Src string `json:"src"`
}

type shopifyVariant struct {
	ID                  int64  `json:"id"`
	Title               string `json:"title"`
	SKU                 string `json:"sku"`
	Price               string `json:"price"`
	InventoryManagement string `json:"inventory_management"`
	// Shopify sends null here for variants without a stock figure
	InventoryQuantity *int `json:"inventory_quantity"`
}

type shopEnvelope struct {
	Shop struct {
		Name string `json:"name"`
	} `json:"shop"`
}

func (p *shopifyProduct) imageURL() string {
	if p.Image != nil && p.Image.Src != "" {
		return p.Image.Src
	}
	if len(p.Images) > 0 {
		return p.Images[0].Src
	}
	return ""
}

func (p *shopifyProduct) toDomain() *storefront.Product {
	variants := make([]storefront.Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, v.toDomain())
	}
	return &storefront.Product{
		ID:       storefront.ProductID(strconv.FormatInt(p.ID, 10)),
		Title:    p.Title,
		Status:   storefront.ProductStatus(p.Status),
		ImageURL: p.imageURL(),
		Variants: variants,
	}
}

func (p *shopifyProduct) toSummary() storefront.ProductSummary {
	summary := storefront.ProductSummary{
		ID:       storefront.ProductID(strconv.FormatInt(p.ID, 10)),
		Title:    p.Title,
		Status:   storefront.ProductStatus(p.Status),
		ImageURL: p.imageURL(),
	}
	if len(p.Variants) > 0 {
		summary.Price = parsePrice(p.Variants[0].Price)
	}
	return summary
}

func (v *shopifyVariant) toDomain() storefront.Variant {
	return storefront.Variant{
		ID:    storefront.VariantID(strconv.FormatInt(v.ID, 10)),
		Title: v.Title,
		SKU:   v.SKU,
		Price: parsePrice(v.Price),
		// Shopify reports "shopify" (or a fulfillment service) when it
		// tracks stock and null when the variant is untracked.
		InventoryTracked:  v.InventoryManagement != "",
		InventoryQuantity: v.InventoryQuantity,
	}
}

func parsePrice(raw string) decimal.Decimal {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return price
}
