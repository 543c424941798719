package personalization

import (
	"context"
	"strings"
	"time"

	"github.com/edulistas/backend/internal/domain/listing"
	"github.com/edulistas/backend/internal/domain/personalization"
	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// placeholderName labels a line the visitor edited before the product
// details reached us
const placeholderName = "Producto agregado"

// PersonalizationService orchestrates the per-visitor event log: it
// seeds a visitor's log from the base list on first read, records
// edits, and materializes the log into list views.
type PersonalizationService struct {
	listRepo  listing.SchoolListRepository
	eventRepo personalization.EventRepository
	catalog   storefront.Catalog
	logger    *zap.Logger
	now       func() time.Time
}

// NewPersonalizationService creates a new PersonalizationService.
// catalog may be nil; product enrichment is then skipped.
func NewPersonalizationService(
	listRepo listing.SchoolListRepository,
	eventRepo personalization.EventRepository,
	catalog storefront.Catalog,
	logger *zap.Logger,
) *PersonalizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonalizationService{
		listRepo:  listRepo,
		eventRepo: eventRepo,
		catalog:   catalog,
		logger:    logger,
		now:       time.Now,
	}
}

// GetPersonalizedList returns the visitor's view of a list, seeding
// the log from the base list on first access
func (s *PersonalizationService) GetPersonalizedList(ctx context.Context, visitorKey string, listID uuid.UUID) (*PersonalizedListResponse, error) {
	list, err := s.ensureSeeded(ctx, visitorKey, listID)
	if err != nil {
		return nil, err
	}
	return s.materialize(ctx, visitorKey, list)
}

// AddProduct appends a visitor-added product to the log
func (s *PersonalizationService) AddProduct(ctx context.Context, visitorKey string, listID uuid.UUID, req AddProductRequest) (*PersonalizedListResponse, error) {
	list, err := s.ensureSeeded(ctx, visitorKey, listID)
	if err != nil {
		return nil, err
	}

	price := decimal.Zero
	if req.UnitPrice != "" {
		price, err = decimal.NewFromString(req.UnitPrice)
		if err != nil {
			return nil, shared.NewValidationError("invalid unit price: " + req.UnitPrice)
		}
	}

	event := &personalization.Event{
		ID:          uuid.New(),
		VisitorKey:  visitorKey,
		BaseListID:  listID,
		ProductID:   storefront.NormalizeProductID(req.ProductID),
		VariantID:   storefront.NormalizeVariantID(req.VariantID),
		Name:        strings.TrimSpace(req.Name),
		ProductCode: req.ProductCode,
		UnitPrice:   price,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
		Action:      personalization.ActionAdded,
		Origin:      personalization.OriginVisitor,
		CreatedAt:   s.now(),
	}
	s.enrich(ctx, event)
	if event.Name == "" {
		event.Name = placeholderName
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	return s.materialize(ctx, visitorKey, list)
}

// ModifyQuantity changes the quantity of a product line. The line's
// origin never changes: editing a seeded product keeps it marked as
// coming from the base list. Editing a line with no log entry creates
// one so the edit survives.
func (s *PersonalizationService) ModifyQuantity(ctx context.Context, visitorKey string, listID uuid.UUID, productID string, req ModifyQuantityRequest) (*PersonalizedListResponse, error) {
	list, err := s.ensureSeeded(ctx, visitorKey, listID)
	if err != nil {
		return nil, err
	}

	pid := storefront.NormalizeProductID(productID)
	variantID := storefront.NormalizeVariantID(req.VariantID)

	events, err := s.eventRepo.FindByItem(ctx, visitorKey, listID, pid, variantID)
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		event := &personalization.Event{
			ID:         uuid.New(),
			VisitorKey: visitorKey,
			BaseListID: listID,
			ProductID:  pid,
			VariantID:  variantID,
			Quantity:   req.Quantity,
			Action:     personalization.ActionModified,
			Origin:     personalization.OriginVisitor,
			CreatedAt:  s.now(),
		}
		s.enrich(ctx, event)
		if event.Name == "" {
			event.Name = placeholderName
		}
		if err := event.Validate(); err != nil {
			return nil, err
		}
		if err := s.eventRepo.Save(ctx, event); err != nil {
			return nil, err
		}
		return s.materialize(ctx, visitorKey, list)
	}

	// Rewrite the newest entry in place. A removed line revives, the
	// original event time stays so expiry is unaffected.
	latest := events[len(events)-1]
	latest.Quantity = req.Quantity
	latest.Action = personalization.ActionModified
	if err := latest.Validate(); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, &latest); err != nil {
		return nil, err
	}
	return s.materialize(ctx, visitorKey, list)
}

// RemoveProduct hides a product line behind a tombstone
func (s *PersonalizationService) RemoveProduct(ctx context.Context, visitorKey string, listID uuid.UUID, productID string, req RemoveProductRequest) (*PersonalizedListResponse, error) {
	list, err := s.ensureSeeded(ctx, visitorKey, listID)
	if err != nil {
		return nil, err
	}

	pid := storefront.NormalizeProductID(productID)
	variantID := storefront.NormalizeVariantID(req.VariantID)

	events, err := s.eventRepo.FindByItem(ctx, visitorKey, listID, pid, variantID)
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		event := &personalization.Event{
			ID:         uuid.New(),
			VisitorKey: visitorKey,
			BaseListID: listID,
			ProductID:  pid,
			VariantID:  variantID,
			Name:       placeholderName,
			Action:     personalization.ActionRemoved,
			Origin:     personalization.OriginVisitor,
			CreatedAt:  s.now(),
		}
		if err := s.eventRepo.Save(ctx, event); err != nil {
			return nil, err
		}
		return s.materialize(ctx, visitorKey, list)
	}

	// The tombstone timestamp moves to now so it outranks every
	// earlier entry for the line.
	latest := events[len(events)-1]
	latest.Action = personalization.ActionRemoved
	latest.CreatedAt = s.now()
	if err := s.eventRepo.Update(ctx, &latest); err != nil {
		return nil, err
	}
	return s.materialize(ctx, visitorKey, list)
}

// Reset drops the visitor's whole log for a list; the next read seeds
// a fresh copy of the base list
func (s *PersonalizationService) Reset(ctx context.Context, visitorKey string, listID uuid.UUID) (*ResetResponse, error) {
	if err := validateVisitorKey(visitorKey); err != nil {
		return nil, err
	}
	if _, err := s.listRepo.FindByID(ctx, listID); err != nil {
		return nil, err
	}
	deleted, err := s.eventRepo.DeleteByVisitorAndList(ctx, visitorKey, listID)
	if err != nil {
		return nil, err
	}
	return &ResetResponse{Deleted: deleted}, nil
}

// MaterializedItems exposes the visitor's current lines for other
// services, most notably cart building
func (s *PersonalizationService) MaterializedItems(ctx context.Context, visitorKey string, listID uuid.UUID) ([]personalization.Item, error) {
	if _, err := s.ensureSeeded(ctx, visitorKey, listID); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.FindByVisitorAndList(ctx, visitorKey, listID)
	if err != nil {
		return nil, err
	}
	return personalization.Materialize(events).Items, nil
}

// ensureSeeded loads the base list and copies it into the visitor's
// log when the log is empty. Two concurrent first reads may both pass
// the count check; a second count right before the insert narrows the
// window and the materializer collapses any surviving duplicates.
func (s *PersonalizationService) ensureSeeded(ctx context.Context, visitorKey string, listID uuid.UUID) (*listing.SchoolList, error) {
	if err := validateVisitorKey(visitorKey); err != nil {
		return nil, err
	}

	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	count, err := s.eventRepo.CountByVisitorAndList(ctx, visitorKey, listID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return list, nil
	}

	seedAt := s.now()
	seeds := make([]*personalization.Event, 0, len(list.Items))
	for _, item := range list.Items {
		seeds = append(seeds, personalization.NewSeedEvent(visitorKey, listID, item, seedAt))
	}
	if len(seeds) == 0 {
		return list, nil
	}

	count, err = s.eventRepo.CountByVisitorAndList(ctx, visitorKey, listID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return list, nil
	}

	if err := s.eventRepo.SaveAll(ctx, seeds); err != nil {
		return nil, err
	}
	s.logger.Debug("seeded personalization log",
		zap.String("visitor_key", visitorKey),
		zap.String("list_id", listID.String()),
		zap.Int("items", len(seeds)),
	)
	return list, nil
}

func (s *PersonalizationService) materialize(ctx context.Context, visitorKey string, list *listing.SchoolList) (*PersonalizedListResponse, error) {
	events, err := s.eventRepo.FindByVisitorAndList(ctx, visitorKey, list.ID)
	if err != nil {
		return nil, err
	}
	snap := personalization.Materialize(events)

	items := make([]PersonalizedItemResponse, 0, len(snap.Items))
	total := decimal.Zero
	for _, item := range snap.Items {
		items = append(items, toItemResponse(item))
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return &PersonalizedListResponse{
		ListID:        list.ID.String(),
		SchoolName:    list.SchoolName,
		Grade:         list.Grade,
		GradeLabel:    list.GradeLabel(),
		Items:         items,
		Total:         total.StringFixed(2),
		ItemCount:     len(items),
		AddedCount:    snap.AddedCount,
		ModifiedCount: snap.ModifiedCount,
		RemovedCount:  snap.RemovedCount,
		Personalized:  snap.AddedCount > 0 || snap.ModifiedCount > 0 || snap.RemovedCount > 0,
	}, nil
}

// enrich fills missing snapshot fields from the catalog, best effort
func (s *PersonalizationService) enrich(ctx context.Context, event *personalization.Event) {
	if s.catalog == nil || !s.catalog.IsConfigured() {
		return
	}
	if event.Name != "" && event.ImageURL != "" && !event.UnitPrice.IsZero() {
		return
	}
	product, err := s.catalog.GetProduct(ctx, event.ProductID)
	if err != nil {
		s.logger.Warn("product enrichment failed",
			zap.String("product_id", event.ProductID.String()),
			zap.Error(err),
		)
		return
	}
	if event.Name == "" {
		event.Name = product.Title
	}
	if event.ImageURL == "" {
		event.ImageURL = product.ImageURL
	}
	if variant, ok := product.ResolveVariant(event.VariantID); ok {
		if event.UnitPrice.IsZero() {
			event.UnitPrice = variant.Price
		}
		if event.ProductCode == "" {
			event.ProductCode = variant.SKU
		}
	}
}

func validateVisitorKey(visitorKey string) error {
	if strings.TrimSpace(visitorKey) == "" {
		return shared.NewValidationError("visitor key is required")
	}
	if len(visitorKey) > personalization.MaxVisitorKeyLength {
		return shared.NewValidationError("visitor key too long")
	}
	return nil
}
