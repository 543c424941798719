// Package models contains the GORM persistence models and their
// mappings to and from domain entities.
package models

import (
	"time"

	"github.com/edulistas/backend/internal/domain/listing"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SchoolListModel maps the school_lists table
type SchoolListModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	SchoolName   string    `gorm:"type:varchar(255);not null;index"`
	Region       string    `gorm:"type:varchar(120);not null"`
	Commune      string    `gorm:"type:varchar(120);not null"`
	Grade        string    `gorm:"type:varchar(60);not null"`
	GradeSection string    `gorm:"type:varchar(20);not null;default:''"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	Items []SchoolListItemModel `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the GORM table name
func (SchoolListModel) TableName() string {
	return "school_lists"
}

// SchoolListItemModel maps the school_list_items table
type SchoolListItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	ListID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   string          `gorm:"type:varchar(64);not null"`
	VariantID   *string         `gorm:"type:varchar(64)"`
	Name        string          `gorm:"type:varchar(255);not null"`
	ProductCode string          `gorm:"type:varchar(64);not null;default:''"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
	ImageURL    string          `gorm:"type:text;not null;default:''"`
	SortOrder   int             `gorm:"not null;default:0"`
}

// TableName overrides the GORM table name
func (SchoolListItemModel) TableName() string {
	return "school_list_items"
}

// ToDomain converts the model and its items to a domain SchoolList
func (m *SchoolListModel) ToDomain() *listing.SchoolList {
	items := make([]listing.ListItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, m.Items[i].ToDomain())
	}
	return &listing.SchoolList{
		ID:           m.ID,
		SchoolName:   m.SchoolName,
		Region:       m.Region,
		Commune:      m.Commune,
		Grade:        m.Grade,
		GradeSection: m.GradeSection,
		Items:        items,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToDomain converts the item model to a domain ListItem
func (m *SchoolListItemModel) ToDomain() listing.ListItem {
	return listing.ListItem{
		ID:          m.ID,
		ListID:      m.ListID,
		ProductID:   storefront.ProductID(m.ProductID),
		VariantID:   variantFromColumn(m.VariantID),
		Name:        m.Name,
		ProductCode: m.ProductCode,
		UnitPrice:   m.UnitPrice,
		Quantity:    m.Quantity,
		ImageURL:    m.ImageURL,
		SortOrder:   m.SortOrder,
	}
}

// SchoolListModelFromDomain builds the model tree from a domain list
func SchoolListModelFromDomain(l *listing.SchoolList) *SchoolListModel {
	items := make([]SchoolListItemModel, 0, len(l.Items))
	for _, item := range l.Items {
		items = append(items, SchoolListItemModel{
			ID:          item.ID,
			ListID:      item.ListID,
			ProductID:   item.ProductID.String(),
			VariantID:   variantToColumn(item.VariantID),
			Name:        item.Name,
			ProductCode: item.ProductCode,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
			SortOrder:   item.SortOrder,
		})
	}
	return &SchoolListModel{
		ID:           l.ID,
		SchoolName:   l.SchoolName,
		Region:       l.Region,
		Commune:      l.Commune,
		Grade:        l.Grade,
		GradeSection: l.GradeSection,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
		Items:        items,
	}
}

func variantFromColumn(col *string) *storefront.VariantID {
	if col == nil || *col == "" {
		return nil
	}
	id := storefront.VariantID(*col)
	return &id
}

func variantToColumn(id *storefront.VariantID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
