package listing

import (
	"time"

	"github.com/edulistas/backend/internal/domain/listing"
	"github.com/edulistas/backend/internal/domain/storefront"
)

// ListItemInput is one product line of a create or update request
type ListItemInput struct {
	ProductID   string `json:"product_id" binding:"required"`
	VariantID   string `json:"variant_id"`
	Name        string `json:"name" binding:"required"`
	ProductCode string `json:"product_code"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	ImageURL    string `json:"image_url"`
}

// CreateListRequest creates a school list with its items
type CreateListRequest struct {
	SchoolName   string          `json:"school_name" binding:"required"`
	Region       string          `json:"region" binding:"required"`
	Commune      string          `json:"commune" binding:"required"`
	Grade        string          `json:"grade" binding:"required"`
	GradeSection string          `json:"grade_section"`
	Items        []ListItemInput `json:"items" binding:"dive"`
}

// UpdateListRequest replaces list metadata and items
type UpdateListRequest struct {
	SchoolName   string          `json:"school_name" binding:"required"`
	Region       string          `json:"region" binding:"required"`
	Commune      string          `json:"commune" binding:"required"`
	Grade        string          `json:"grade" binding:"required"`
	GradeSection string          `json:"grade_section"`
	Items        []ListItemInput `json:"items" binding:"dive"`
}

// AddItemsRequest appends items to an existing list
type AddItemsRequest struct {
	Items []ListItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateItemRequest changes the quantity of one list item
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=99"`
}

// SearchListsRequest filters published lists
type SearchListsRequest struct {
	SchoolName string `form:"school_name"`
	Region     string `form:"region"`
	Commune    string `form:"commune"`
	Grade      string `form:"grade"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ListItemResponse is one item of a list response
type ListItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	VariantID   *string `json:"variant_id"`
	Name        string  `json:"name"`
	ProductCode string  `json:"product_code,omitempty"`
	UnitPrice   string  `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"image_url,omitempty"`
	SortOrder   int     `json:"sort_order"`
}

// ListResponse is a full school list with items
type ListResponse struct {
	ID           string             `json:"id"`
	SchoolName   string             `json:"school_name"`
	Region       string             `json:"region"`
	Commune      string             `json:"commune"`
	Grade        string             `json:"grade"`
	GradeSection string             `json:"grade_section,omitempty"`
	GradeLabel   string             `json:"grade_label"`
	Total        string             `json:"total"`
	Items        []ListItemResponse `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// ListSummaryResponse is a search result row
type ListSummaryResponse struct {
	ID           string `json:"id"`
	SchoolName   string `json:"school_name"`
	Region       string `json:"region"`
	Commune      string `json:"commune"`
	Grade        string `json:"grade"`
	GradeSection string `json:"grade_section,omitempty"`
	ItemCount    int    `json:"item_count"`
}

// FiltersResponse lists the distinct filter values across published lists
type FiltersResponse struct {
	Regions  []string `json:"regions"`
	Communes []string `json:"communes"`
	Grades   []string `json:"grades"`
}

// SearchListsResponse is a paginated search result
type SearchListsResponse struct {
	Lists    []ListSummaryResponse `json:"lists"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

func toListResponse(l *listing.SchoolList) *ListResponse {
	items := make([]ListItemResponse, 0, len(l.Items))
	for _, item := range l.Items {
		items = append(items, ListItemResponse{
			ID:          item.ID.String(),
			ProductID:   item.ProductID.String(),
			VariantID:   optionalVariant(item.VariantID),
			Name:        item.Name,
			ProductCode: item.ProductCode,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
			SortOrder:   item.SortOrder,
		})
	}
	return &ListResponse{
		ID:           l.ID.String(),
		SchoolName:   l.SchoolName,
		Region:       l.Region,
		Commune:      l.Commune,
		Grade:        l.Grade,
		GradeSection: l.GradeSection,
		GradeLabel:   l.GradeLabel(),
		Total:        l.Total().StringFixed(2),
		Items:        items,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func optionalVariant(id *storefront.VariantID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
