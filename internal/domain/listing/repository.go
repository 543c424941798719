package listing

import (
	"context"

	"github.com/google/uuid"
)

// SearchFilter narrows a list search. Empty fields are ignored.
type SearchFilter struct {
	SchoolName string
	Region     string
	Commune    string
	Grade      string
	Offset     int
	Limit      int
}

// ListSummary is a search result row without item payloads
type ListSummary struct {
	ID           uuid.UUID
	SchoolName   string
	Region       string
	Commune      string
	Grade        string
	GradeSection string
	ItemCount    int
}

// FilterOptions are the distinct values present across published lists
type FilterOptions struct {
	Regions  []string
	Communes []string
	Grades   []string
}

// SchoolListRepository is the persistence port for school lists
type SchoolListRepository interface {
	// Save persists the list and its items
	Save(ctx context.Context, list *SchoolList) error
	// Update persists changes to an existing list
	Update(ctx context.Context, list *SchoolList) error
	// FindByID loads a list with its items ordered by sort order
	FindByID(ctx context.Context, id uuid.UUID) (*SchoolList, error)
	// Search returns summaries matching the filter
	Search(ctx context.Context, filter SearchFilter) ([]ListSummary, int64, error)
	// SchoolNames returns distinct school names for typeahead search
	SchoolNames(ctx context.Context, prefix string, limit int) ([]string, error)
	// DistinctFilters returns the filter values present across all lists
	DistinctFilters(ctx context.Context) (*FilterOptions, error)
	// Delete removes a list and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
