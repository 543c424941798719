package models

import (
	"time"

	"github.com/edulistas/backend/internal/domain/personalization"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PersonalizationEventModel maps the personalization_events table. The
// composite index on (visitor_key, base_list_id) serves every read
// path; created_at is indexed for the retention sweep.
type PersonalizationEventModel struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`
	// Seq is assigned by the database in insert order and breaks
	// created_at ties on reads, keeping seeded rows in base list order
	Seq         int64           `gorm:"type:bigint;->"`
	VisitorKey  string          `gorm:"type:varchar(64);not null;index:idx_personalization_visitor_list,priority:1"`
	BaseListID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_personalization_visitor_list,priority:2"`
	ProductID   string          `gorm:"type:varchar(64);not null"`
	VariantID   *string         `gorm:"type:varchar(64)"`
	Name        string          `gorm:"type:varchar(255);not null"`
	ProductCode string          `gorm:"type:varchar(64);not null;default:''"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
	ImageURL    string          `gorm:"type:text;not null;default:''"`
	Action      string          `gorm:"type:varchar(16);not null"`
	Origin      string          `gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time       `gorm:"not null;index"`
}

// TableName overrides the GORM table name
func (PersonalizationEventModel) TableName() string {
	return "personalization_events"
}

// ToDomain converts the model to a domain Event
func (m *PersonalizationEventModel) ToDomain() personalization.Event {
	return personalization.Event{
		ID:          m.ID,
		VisitorKey:  m.VisitorKey,
		BaseListID:  m.BaseListID,
		ProductID:   storefront.ProductID(m.ProductID),
		VariantID:   variantFromColumn(m.VariantID),
		Name:        m.Name,
		ProductCode: m.ProductCode,
		UnitPrice:   m.UnitPrice,
		Quantity:    m.Quantity,
		ImageURL:    m.ImageURL,
		Action:      personalization.Action(m.Action),
		Origin:      personalization.Origin(m.Origin),
		CreatedAt:   m.CreatedAt,
	}
}

// PersonalizationEventModelFromDomain builds the model from a domain event
func PersonalizationEventModelFromDomain(e *personalization.Event) *PersonalizationEventModel {
	return &PersonalizationEventModel{
		ID:          e.ID,
		VisitorKey:  e.VisitorKey,
		BaseListID:  e.BaseListID,
		ProductID:   e.ProductID.String(),
		VariantID:   variantToColumn(e.VariantID),
		Name:        e.Name,
		ProductCode: e.ProductCode,
		UnitPrice:   e.UnitPrice,
		Quantity:    e.Quantity,
		ImageURL:    e.ImageURL,
		Action:      string(e.Action),
		Origin:      string(e.Origin),
		CreatedAt:   e.CreatedAt,
	}
}
