package cart

import (
	"context"
	"errors"
	"time"

	"github.com/edulistas/backend/internal/domain/personalization"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// defaultItemTimeout bounds each per-product platform lookup
const defaultItemTimeout = 10 * time.Second

// personalizedLister provides a visitor's materialized list lines
type personalizedLister interface {
	MaterializedItems(ctx context.Context, visitorKey string, listID uuid.UUID) ([]personalization.Item, error)
}

// CartService reconciles requested lines against the live catalog and
// builds a prefilled checkout URL. Per-line failures never abort the
// whole cart: unavailable lines come back rejected with a reason and
// the rest proceed.
type CartService struct {
	catalog      storefront.Catalog
	personalized personalizedLister
	logger       *zap.Logger
	itemTimeout  time.Duration
}

// NewCartService creates a new CartService
func NewCartService(catalog storefront.Catalog, personalized personalizedLister, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		catalog:      catalog,
		personalized: personalized,
		logger:       logger,
		itemTimeout:  defaultItemTimeout,
	}
}

type line struct {
	productID storefront.ProductID
	variantID *storefront.VariantID
	name      string
	quantity  int
}

// BuildCart reconciles ad-hoc lines sent by the storefront
func (s *CartService) BuildCart(ctx context.Context, req BuildCartRequest) (*CartResponse, error) {
	lines := make([]line, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, line{
			productID: storefront.NormalizeProductID(item.ProductID),
			variantID: storefront.NormalizeVariantID(item.VariantID),
			name:      item.Name,
			quantity:  item.Quantity,
		})
	}
	return s.reconcile(ctx, lines)
}

// BuildCartFromList reconciles the visitor's personalized view of a
// list, seeding it first if needed
func (s *CartService) BuildCartFromList(ctx context.Context, visitorKey string, listID uuid.UUID) (*CartResponse, error) {
	items, err := s.personalized.MaterializedItems(ctx, visitorKey, listID)
	if err != nil {
		return nil, err
	}
	lines := make([]line, 0, len(items))
	for _, item := range items {
		lines = append(lines, line{
			productID: item.ProductID,
			variantID: item.VariantID,
			name:      item.Name,
			quantity:  item.Quantity,
		})
	}
	return s.reconcile(ctx, lines)
}

func (s *CartService) reconcile(ctx context.Context, lines []line) (*CartResponse, error) {
	resp := &CartResponse{
		Items:    []ReadyLineResponse{},
		Rejected: []RejectedLineResponse{},
	}
	total := decimal.Zero
	var permalink []storefront.CartLine

	for _, l := range lines {
		variant, product, rejected := s.resolveLine(ctx, l)
		if rejected != nil {
			resp.Rejected = append(resp.Rejected, *rejected)
			continue
		}

		name := product.Title
		if name == "" {
			name = l.name
		}
		subtotal := variant.Price.Mul(decimal.NewFromInt(int64(l.quantity)))
		total = total.Add(subtotal)
		resp.Items = append(resp.Items, ReadyLineResponse{
			ProductID: l.productID.String(),
			VariantID: variant.ID.String(),
			Name:      name,
			Quantity:  l.quantity,
			UnitPrice: variant.Price.StringFixed(2),
			Subtotal:  subtotal.StringFixed(2),
		})
		permalink = append(permalink, storefront.CartLine{VariantID: variant.ID, Quantity: l.quantity})
	}

	resp.Total = total.StringFixed(2)
	resp.ItemCount = len(resp.Items)

	if len(permalink) > 0 {
		url, err := s.catalog.CartPermalink(permalink)
		if err != nil {
			return nil, err
		}
		resp.CheckoutURL = url
	}
	return resp, nil
}

// resolveLine verifies one line against the platform. A nil rejection
// means the line is ready.
func (s *CartService) resolveLine(ctx context.Context, l line) (storefront.Variant, *storefront.Product, *RejectedLineResponse) {
	reject := func(reason, detail string, available *int) *RejectedLineResponse {
		return &RejectedLineResponse{
			ProductID:      l.productID.String(),
			VariantID:      optionalVariant(l.variantID),
			Name:           l.name,
			Quantity:       l.quantity,
			Reason:         reason,
			Detail:         detail,
			AvailableStock: available,
		}
	}

	itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
	defer cancel()

	product, err := s.catalog.GetProduct(itemCtx, l.productID)
	if err != nil {
		reason := classifyCatalogError(err)
		s.logger.Warn("cart line rejected by platform",
			zap.String("product_id", l.productID.String()),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return storefront.Variant{}, nil, reject(reason, err.Error(), nil)
	}
	if !product.IsActive() {
		return storefront.Variant{}, nil, reject(ReasonProductInactive, "product status: "+string(product.Status), nil)
	}
	variant, ok := product.ResolveVariant(l.variantID)
	if !ok {
		return storefront.Variant{}, nil, reject(ReasonNoVariants, "", nil)
	}
	if l.variantID != nil && !variant.ID.Equal(*l.variantID) {
		s.logger.Warn("requested variant unknown, substituting first variant",
			zap.String("product_id", l.productID.String()),
			zap.String("requested_variant", l.variantID.String()),
			zap.String("substituted_variant", variant.ID.String()),
		)
	}
	if !variant.CanFulfill(l.quantity) {
		return storefront.Variant{}, nil, reject(ReasonInsufficientStock, "", variant.AvailableStock())
	}
	return variant, product, nil
}

func classifyCatalogError(err error) string {
	switch {
	case errors.Is(err, storefront.ErrProductNotFound):
		return ReasonProductNotFound
	case errors.Is(err, storefront.ErrAccessForbidden):
		return ReasonAccessForbidden
	case errors.Is(err, storefront.ErrRateLimited):
		return ReasonRateLimited
	case errors.Is(err, storefront.ErrPlatformUnavailable),
		errors.Is(err, storefront.ErrNotConfigured),
		errors.Is(err, context.DeadlineExceeded):
		return ReasonUnavailable
	default:
		return ReasonPlatformError
	}
}

func optionalVariant(id *storefront.VariantID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
