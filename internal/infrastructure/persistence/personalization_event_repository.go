package persistence

import (
	"context"
	"time"

	"github.com/edulistas/backend/internal/domain/personalization"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/edulistas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEventRepository implements personalization.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Save persists a single event
func (r *GormEventRepository) Save(ctx context.Context, event *personalization.Event) error {
	model := models.PersonalizationEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// SaveAll persists seed events in one batch
func (r *GormEventRepository) SaveAll(ctx context.Context, events []*personalization.Event) error {
	if len(events) == 0 {
		return nil
	}
	batch := make([]*models.PersonalizationEventModel, 0, len(events))
	for _, event := range events {
		batch = append(batch, models.PersonalizationEventModelFromDomain(event))
	}
	return r.db.WithContext(ctx).CreateInBatches(batch, 100).Error
}

// Update persists changes to an existing event
func (r *GormEventRepository) Update(ctx context.Context, event *personalization.Event) error {
	model := models.PersonalizationEventModelFromDomain(event)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByVisitorAndList returns the visitor's log for a list in event
// order. Seed rows share one created_at, so seq breaks the tie and
// keeps them in base list order.
func (r *GormEventRepository) FindByVisitorAndList(ctx context.Context, visitorKey string, listID uuid.UUID) ([]personalization.Event, error) {
	var rows []models.PersonalizationEventModel
	err := r.db.WithContext(ctx).
		Where("visitor_key = ? AND base_list_id = ?", visitorKey, listID).
		Order("created_at ASC, seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	events := make([]personalization.Event, 0, len(rows))
	for i := range rows {
		events = append(events, rows[i].ToDomain())
	}
	return events, nil
}

// CountByVisitorAndList counts the visitor's events for a list
func (r *GormEventRepository) CountByVisitorAndList(ctx context.Context, visitorKey string, listID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PersonalizationEventModel{}).
		Where("visitor_key = ? AND base_list_id = ?", visitorKey, listID).
		Count(&count).Error
	return count, err
}

// FindByItem returns the visitor's events for one product line
func (r *GormEventRepository) FindByItem(ctx context.Context, visitorKey string, listID uuid.UUID, productID storefront.ProductID, variantID *storefront.VariantID) ([]personalization.Event, error) {
	query := r.db.WithContext(ctx).
		Where("visitor_key = ? AND base_list_id = ? AND product_id = ?", visitorKey, listID, productID.String())
	if variantID == nil {
		query = query.Where("variant_id IS NULL")
	} else {
		query = query.Where("variant_id = ?", variantID.String())
	}
	var rows []models.PersonalizationEventModel
	if err := query.Order("created_at ASC, seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	events := make([]personalization.Event, 0, len(rows))
	for i := range rows {
		events = append(events, rows[i].ToDomain())
	}
	return events, nil
}

// DeleteByVisitorAndList drops the visitor's log for a list
func (r *GormEventRepository) DeleteByVisitorAndList(ctx context.Context, visitorKey string, listID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("visitor_key = ? AND base_list_id = ?", visitorKey, listID).
		Delete(&models.PersonalizationEventModel{})
	return result.RowsAffected, result.Error
}

// DeleteOlderThan drops events created before the cutoff
func (r *GormEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.PersonalizationEventModel{})
	return result.RowsAffected, result.Error
}
