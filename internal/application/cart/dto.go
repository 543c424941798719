package cart

// Rejection reasons for cart lines that cannot be fulfilled
const (
	ReasonProductNotFound   = "product_not_found"
	ReasonProductInactive   = "product_inactive"
	ReasonNoVariants        = "no_variants"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonAccessForbidden   = "platform_forbidden"
	ReasonRateLimited       = "platform_rate_limited"
	ReasonUnavailable       = "platform_unavailable"
	ReasonPlatformError     = "platform_error"
)

// LineRequest is one requested cart line
type LineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Name      string `json:"name"`
}

// BuildCartRequest reconciles ad-hoc lines against the platform
type BuildCartRequest struct {
	Items []LineRequest `json:"items" binding:"required,min=1,dive"`
}

// ReadyLineResponse is a line that passed reconciliation
type ReadyLineResponse struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// RejectedLineResponse is a line the platform cannot fulfill right now.
// AvailableStock is the known stock figure behind a stock rejection and
// null when the platform reported none.
type RejectedLineResponse struct {
	ProductID      string  `json:"product_id"`
	VariantID      *string `json:"variant_id"`
	Name           string  `json:"name,omitempty"`
	Quantity       int     `json:"quantity"`
	Reason         string  `json:"reason"`
	Detail         string  `json:"detail,omitempty"`
	AvailableStock *int    `json:"available_stock"`
}

// CartResponse is the reconciliation outcome. CheckoutURL is empty when
// no line survived.
type CartResponse struct {
	CheckoutURL string                 `json:"checkout_url,omitempty"`
	Items       []ReadyLineResponse    `json:"items"`
	Rejected    []RejectedLineResponse `json:"rejected"`
	Total       string                 `json:"total"`
	ItemCount   int                    `json:"item_count"`
}
