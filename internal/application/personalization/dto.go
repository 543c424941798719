package personalization

import (
	"github.com/edulistas/backend/internal/domain/personalization"
	"github.com/shopspring/decimal"
)

// AddProductRequest adds a product to the visitor's personalized list.
// Name, price and image are snapshots sent by the storefront; missing
// fields are filled from the catalog when possible.
type AddProductRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	VariantID   string `json:"variant_id"`
	Name        string `json:"name"`
	ProductCode string `json:"product_code"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity" binding:"required,min=1,max=99"`
	ImageURL    string `json:"image_url"`
}

// ModifyQuantityRequest changes the quantity of one product line
type ModifyQuantityRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=99"`
}

// RemoveProductRequest hides one product line
type RemoveProductRequest struct {
	VariantID string `json:"variant_id"`
}

// PersonalizedItemResponse is one visible line of a personalized list
type PersonalizedItemResponse struct {
	ProductID   string  `json:"product_id"`
	VariantID   *string `json:"variant_id"`
	Name        string  `json:"name"`
	ProductCode string  `json:"product_code,omitempty"`
	UnitPrice   string  `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Subtotal    string  `json:"subtotal"`
	ImageURL    string  `json:"image_url,omitempty"`
	IsOriginal  bool    `json:"is_original"`
	LastAction  string  `json:"last_action"`
}

// PersonalizedListResponse is the visitor's current view of a list
type PersonalizedListResponse struct {
	ListID        string                     `json:"list_id"`
	SchoolName    string                     `json:"school_name"`
	Grade         string                     `json:"grade"`
	GradeLabel    string                     `json:"grade_label"`
	Items         []PersonalizedItemResponse `json:"items"`
	Total         string                     `json:"total"`
	ItemCount     int                        `json:"item_count"`
	AddedCount    int                        `json:"added_count"`
	ModifiedCount int                        `json:"modified_count"`
	RemovedCount  int                        `json:"removed_count"`
	Personalized  bool                       `json:"personalized"`
}

// ResetResponse reports how many log entries a reset dropped
type ResetResponse struct {
	Deleted int64 `json:"deleted"`
}

func toItemResponse(item personalization.Item) PersonalizedItemResponse {
	var variantID *string
	if item.VariantID != nil {
		s := item.VariantID.String()
		variantID = &s
	}
	return PersonalizedItemResponse{
		ProductID:   item.ProductID.String(),
		VariantID:   variantID,
		Name:        item.Name,
		ProductCode: item.ProductCode,
		UnitPrice:   item.UnitPrice.StringFixed(2),
		Quantity:    item.Quantity,
		Subtotal:    item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2),
		ImageURL:    item.ImageURL,
		IsOriginal:  item.Origin == personalization.OriginBaseList,
		LastAction:  string(item.LastAction),
	}
}
