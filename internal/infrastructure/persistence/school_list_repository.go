package persistence

import (
	"context"
	"errors"

	"github.com/edulistas/backend/internal/domain/listing"
	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/edulistas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSchoolListRepository implements listing.SchoolListRepository using GORM
type GormSchoolListRepository struct {
	db *gorm.DB
}

// NewGormSchoolListRepository creates a new GormSchoolListRepository
func NewGormSchoolListRepository(db *gorm.DB) *GormSchoolListRepository {
	return &GormSchoolListRepository{db: db}
}

// Save persists the list and its items
func (r *GormSchoolListRepository) Save(ctx context.Context, list *listing.SchoolList) error {
	model := models.SchoolListModelFromDomain(list)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update replaces list metadata and items
func (r *GormSchoolListRepository) Update(ctx context.Context, list *listing.SchoolList) error {
	model := models.SchoolListModelFromDomain(list)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SchoolListModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]any{
				"school_name":   model.SchoolName,
				"region":        model.Region,
				"commune":       model.Commune,
				"grade":         model.Grade,
				"grade_section": model.GradeSection,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("list_id = ?", model.ID).Delete(&models.SchoolListItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(model.Items).Error
	})
}

// FindByID loads a list with its items ordered by sort order
func (r *GormSchoolListRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.SchoolList, error) {
	var model models.SchoolListModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("school list", id.String())
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

type listSummaryRow struct {
	models.SchoolListModel
	ItemCount int
}

// Search returns list summaries matching the filter
func (r *GormSchoolListRepository) Search(ctx context.Context, filter listing.SearchFilter) ([]listing.ListSummary, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SchoolListModel{})
	if filter.SchoolName != "" {
		query = query.Where("school_name ILIKE ?", "%"+filter.SchoolName+"%")
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Commune != "" {
		query = query.Where("commune = ?", filter.Commune)
	}
	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []listSummaryRow
	err := query.
		Select("school_lists.*, (SELECT COUNT(*) FROM school_list_items WHERE school_list_items.list_id = school_lists.id) AS item_count").
		Order("school_name ASC, grade ASC, grade_section ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]listing.ListSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, listing.ListSummary{
			ID:           row.ID,
			SchoolName:   row.SchoolName,
			Region:       row.Region,
			Commune:      row.Commune,
			Grade:        row.Grade,
			GradeSection: row.GradeSection,
			ItemCount:    row.ItemCount,
		})
	}
	return summaries, total, nil
}

// SchoolNames returns distinct school names matching the prefix
func (r *GormSchoolListRepository) SchoolNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	var names []string
	query := r.db.WithContext(ctx).
		Model(&models.SchoolListModel{}).
		Distinct("school_name").
		Order("school_name ASC").
		Limit(limit)
	if prefix != "" {
		query = query.Where("school_name ILIKE ?", prefix+"%")
	}
	if err := query.Pluck("school_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// DistinctFilters returns the distinct regions, communes and grades in use
func (r *GormSchoolListRepository) DistinctFilters(ctx context.Context) (*listing.FilterOptions, error) {
	opts := &listing.FilterOptions{}
	columns := []struct {
		name string
		dest *[]string
	}{
		{"region", &opts.Regions},
		{"commune", &opts.Communes},
		{"grade", &opts.Grades},
	}
	for _, col := range columns {
		err := r.db.WithContext(ctx).
			Model(&models.SchoolListModel{}).
			Distinct(col.name).
			Order(col.name + " ASC").
			Pluck(col.name, col.dest).Error
		if err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// Delete removes a list; items follow through the FK cascade
func (r *GormSchoolListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SchoolListModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
