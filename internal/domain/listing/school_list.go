// Package listing holds the curated school supply lists published by
// the stationery store: one list per school, grade and section.
package listing

import (
	"strings"
	"time"

	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListItem is one product line of a school list
type ListItem struct {
	ID          uuid.UUID
	ListID      uuid.UUID
	ProductID   storefront.ProductID
	VariantID   *storefront.VariantID
	Name        string
	ProductCode string
	UnitPrice   decimal.Decimal
	Quantity    int
	ImageURL    string
	SortOrder   int
}

// Validate checks the item against business rules
func (i *ListItem) Validate() error {
	if i.ProductID.IsZero() {
		return shared.NewValidationError("list item requires a product id")
	}
	if strings.TrimSpace(i.Name) == "" {
		return shared.NewValidationError("list item requires a name")
	}
	if i.Quantity < 1 {
		return shared.NewValidationError("list item quantity must be at least 1")
	}
	if i.UnitPrice.IsNegative() {
		return shared.NewValidationError("list item price cannot be negative")
	}
	return nil
}

// SchoolList is the aggregate root: a published supply list for a
// school, grade and optional section.
type SchoolList struct {
	ID           uuid.UUID
	SchoolName   string
	Region       string
	Commune      string
	Grade        string
	GradeSection string
	Items        []ListItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSchoolList creates a validated school list without items
func NewSchoolList(schoolName, region, commune, grade, gradeSection string) (*SchoolList, error) {
	l := &SchoolList{
		ID:           uuid.New(),
		SchoolName:   strings.TrimSpace(schoolName),
		Region:       strings.TrimSpace(region),
		Commune:      strings.TrimSpace(commune),
		Grade:        strings.TrimSpace(grade),
		GradeSection: strings.TrimSpace(gradeSection),
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks the list against business rules
func (l *SchoolList) Validate() error {
	if l.SchoolName == "" {
		return shared.NewValidationError("school name is required")
	}
	if l.Region == "" {
		return shared.NewValidationError("region is required")
	}
	if l.Commune == "" {
		return shared.NewValidationError("commune is required")
	}
	if l.Grade == "" {
		return shared.NewValidationError("grade is required")
	}
	return nil
}

// GradeLabel returns the display label for the grade, including the
// section when present ("4° Básico B").
func (l *SchoolList) GradeLabel() string {
	if l.GradeSection == "" {
		return l.Grade
	}
	return l.Grade + " " + l.GradeSection
}

// AddItem appends a validated item, assigning list id and sort order
func (l *SchoolList) AddItem(item ListItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.ListID = l.ID
	item.SortOrder = len(l.Items)
	l.Items = append(l.Items, item)
	return nil
}

// UpdateItemQuantity changes the quantity of an existing item
func (l *SchoolList) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return shared.NewValidationError("list item quantity must be at least 1")
	}
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items[i].Quantity = quantity
			return nil
		}
	}
	return shared.NewNotFoundError("list item", itemID.String())
}

// RemoveItem deletes an item and closes the sort order gap
func (l *SchoolList) RemoveItem(itemID uuid.UUID) error {
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			for j := range l.Items {
				l.Items[j].SortOrder = j
			}
			return nil
		}
	}
	return shared.NewNotFoundError("list item", itemID.String())
}

// Total sums unit price times quantity over all items
func (l *SchoolList) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
