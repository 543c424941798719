package personalization

import (
	"context"
	"time"

	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/google/uuid"
)

// EventRepository is the persistence port for the personalization log
type EventRepository interface {
	// Save persists a single event
	Save(ctx context.Context, event *Event) error
	// SaveAll persists seed events in one batch
	SaveAll(ctx context.Context, events []*Event) error
	// Update persists changes to an existing event
	Update(ctx context.Context, event *Event) error
	// FindByVisitorAndList returns the visitor's log for a list,
	// ordered by creation time then insertion order.
	FindByVisitorAndList(ctx context.Context, visitorKey string, listID uuid.UUID) ([]Event, error)
	// CountByVisitorAndList counts the visitor's events for a list
	CountByVisitorAndList(ctx context.Context, visitorKey string, listID uuid.UUID) (int64, error)
	// FindByItem returns the visitor's events for one product line
	FindByItem(ctx context.Context, visitorKey string, listID uuid.UUID, productID storefront.ProductID, variantID *storefront.VariantID) ([]Event, error)
	// DeleteByVisitorAndList drops the visitor's log for a list
	DeleteByVisitorAndList(ctx context.Context, visitorKey string, listID uuid.UUID) (int64, error)
	// DeleteOlderThan drops events created before the cutoff, over all
	// visitors and lists. Returns the number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
