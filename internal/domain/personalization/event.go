// Package personalization implements per-visitor temporary edits on top
// of published school lists. Edits are stored as an event log keyed by
// visitor and list; reads materialize the log into the visitor's
// current view of the list.
package personalization

import (
	"strings"
	"time"

	"github.com/edulistas/backend/internal/domain/listing"
	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Action is the kind of edit an event records
type Action string

const (
	// ActionAdded marks a product present in the visitor's list,
	// either seeded from the base list or added by the visitor.
	ActionAdded Action = "added"
	// ActionModified marks a quantity change
	ActionModified Action = "modified"
	// ActionRemoved is a tombstone hiding the product
	ActionRemoved Action = "removed"
)

// Origin records where a product came from. It is set once when the
// product first enters the visitor's list and never changes afterwards,
// so a quantity edit on a seeded product keeps OriginBaseList.
type Origin string

const (
	// OriginBaseList means the product was seeded from the published list
	OriginBaseList Origin = "original"
	// OriginVisitor means the visitor added the product themselves
	OriginVisitor Origin = "added"
)

// MaxVisitorKeyLength bounds the visitor key column
const MaxVisitorKeyLength = 64

// Event is one row of the personalization log
type Event struct {
	ID         uuid.UUID
	VisitorKey string
	BaseListID uuid.UUID
	ProductID  storefront.ProductID
	VariantID  *storefront.VariantID
	// Snapshot of the product at event time; the base list may change
	// later without affecting materialized views.
	Name        string
	ProductCode string
	UnitPrice   decimal.Decimal
	Quantity    int
	ImageURL    string
	Action      Action
	Origin      Origin
	CreatedAt   time.Time
}

// Validate checks the event against business rules
func (e *Event) Validate() error {
	if strings.TrimSpace(e.VisitorKey) == "" {
		return shared.NewValidationError("visitor key is required")
	}
	if len(e.VisitorKey) > MaxVisitorKeyLength {
		return shared.NewValidationError("visitor key too long")
	}
	if e.BaseListID == uuid.Nil {
		return shared.NewValidationError("base list id is required")
	}
	if e.ProductID.IsZero() {
		return shared.NewValidationError("product id is required")
	}
	switch e.Action {
	case ActionAdded, ActionModified:
		if e.Quantity < 1 {
			return shared.NewValidationError("quantity must be at least 1")
		}
	case ActionRemoved:
	default:
		return shared.NewValidationError("unknown action")
	}
	switch e.Origin {
	case OriginBaseList, OriginVisitor:
	default:
		return shared.NewValidationError("unknown origin")
	}
	return nil
}

// ItemKey identifies a product line inside a personalized list. Two
// variants of the same product are independent lines.
type ItemKey string

// KeyOf builds the item key for a product and optional variant
func KeyOf(productID storefront.ProductID, variantID *storefront.VariantID) ItemKey {
	if variantID == nil {
		return ItemKey(productID.String() + "|-")
	}
	return ItemKey(productID.String() + "|" + variantID.String())
}

// Key returns the item key of the event
func (e *Event) Key() ItemKey {
	return KeyOf(e.ProductID, e.VariantID)
}

// NewSeedEvent copies one base list item into a visitor's log
func NewSeedEvent(visitorKey string, listID uuid.UUID, item listing.ListItem, now time.Time) *Event {
	return &Event{
		ID:          uuid.New(),
		VisitorKey:  visitorKey,
		BaseListID:  listID,
		ProductID:   item.ProductID,
		VariantID:   item.VariantID,
		Name:        item.Name,
		ProductCode: item.ProductCode,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
		ImageURL:    item.ImageURL,
		Action:      ActionAdded,
		Origin:      OriginBaseList,
		CreatedAt:   now,
	}
}
