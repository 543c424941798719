package listing

import (
	"context"

	"github.com/edulistas/backend/internal/domain/geo"
	"github.com/edulistas/backend/internal/domain/listing"
	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SchoolListService handles school list management operations
type SchoolListService struct {
	listRepo listing.SchoolListRepository
}

// NewSchoolListService creates a new SchoolListService
func NewSchoolListService(listRepo listing.SchoolListRepository) *SchoolListService {
	return &SchoolListService{listRepo: listRepo}
}

// Create publishes a new school list
func (s *SchoolListService) Create(ctx context.Context, req CreateListRequest) (*ListResponse, error) {
	if !geo.IsValidGrade(req.Grade) {
		return nil, shared.NewValidationError("unknown grade level: " + req.Grade)
	}

	list, err := listing.NewSchoolList(req.SchoolName, req.Region, req.Commune, req.Grade, req.GradeSection)
	if err != nil {
		return nil, err
	}
	if err := appendItems(list, req.Items); err != nil {
		return nil, err
	}

	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}
	return toListResponse(list), nil
}

// Get loads a list with its items
func (s *SchoolListService) Get(ctx context.Context, id uuid.UUID) (*ListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toListResponse(list), nil
}

// Update replaces a list's metadata and items
func (s *SchoolListService) Update(ctx context.Context, id uuid.UUID, req UpdateListRequest) (*ListResponse, error) {
	if !geo.IsValidGrade(req.Grade) {
		return nil, shared.NewValidationError("unknown grade level: " + req.Grade)
	}

	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list.SchoolName = req.SchoolName
	list.Region = req.Region
	list.Commune = req.Commune
	list.Grade = req.Grade
	list.GradeSection = req.GradeSection
	if err := list.Validate(); err != nil {
		return nil, err
	}

	list.Items = nil
	if err := appendItems(list, req.Items); err != nil {
		return nil, err
	}

	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, err
	}
	return toListResponse(list), nil
}

// AddItems appends products to an existing list
func (s *SchoolListService) AddItems(ctx context.Context, id uuid.UUID, req AddItemsRequest) (*ListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appendItems(list, req.Items); err != nil {
		return nil, err
	}
	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, err
	}
	return toListResponse(list), nil
}

// UpdateItem changes the quantity of one list item
func (s *SchoolListService) UpdateItem(ctx context.Context, id, itemID uuid.UUID, req UpdateItemRequest) (*ListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := list.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, err
	}
	return toListResponse(list), nil
}

// RemoveItem deletes one item from a list
func (s *SchoolListService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*ListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := list.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, err
	}
	return toListResponse(list), nil
}

// Delete removes a list and its items
func (s *SchoolListService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.listRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.listRepo.Delete(ctx, id)
}

// Search finds lists matching the filter
func (s *SchoolListService) Search(ctx context.Context, req SearchListsRequest) (*SearchListsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	filter := listing.SearchFilter{
		SchoolName: req.SchoolName,
		Region:     req.Region,
		Commune:    req.Commune,
		Grade:      req.Grade,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
	}
	summaries, total, err := s.listRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]ListSummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		rows = append(rows, ListSummaryResponse{
			ID:           sum.ID.String(),
			SchoolName:   sum.SchoolName,
			Region:       sum.Region,
			Commune:      sum.Commune,
			Grade:        sum.Grade,
			GradeSection: sum.GradeSection,
			ItemCount:    sum.ItemCount,
		})
	}
	return &SearchListsResponse{Lists: rows, Total: total, Page: page, PageSize: pageSize}, nil
}

// SchoolNames returns distinct school names for typeahead search
func (s *SchoolListService) SchoolNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.listRepo.SchoolNames(ctx, prefix, limit)
}

// Filters returns the distinct filter values across published lists
func (s *SchoolListService) Filters(ctx context.Context) (*FiltersResponse, error) {
	opts, err := s.listRepo.DistinctFilters(ctx)
	if err != nil {
		return nil, err
	}
	return &FiltersResponse{
		Regions:  opts.Regions,
		Communes: opts.Communes,
		Grades:   opts.Grades,
	}, nil
}

func appendItems(list *listing.SchoolList, inputs []ListItemInput) error {
	for _, in := range inputs {
		price, err := decimal.NewFromString(in.UnitPrice)
		if err != nil {
			return shared.NewValidationError("invalid unit price: " + in.UnitPrice)
		}
		item := listing.ListItem{
			ProductID:   storefront.NormalizeProductID(in.ProductID),
			VariantID:   storefront.NormalizeVariantID(in.VariantID),
			Name:        in.Name,
			ProductCode: in.ProductCode,
			UnitPrice:   price,
			Quantity:    in.Quantity,
			ImageURL:    in.ImageURL,
		}
		if err := list.AddItem(item); err != nil {
			return err
		}
	}
	return nil
}
