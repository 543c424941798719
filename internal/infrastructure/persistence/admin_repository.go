package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/edulistas/backend/internal/domain/identity"
	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/edulistas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAdminRepository implements identity.AdminRepository using GORM
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// Save persists the admin user
func (r *GormAdminRepository) Save(ctx context.Context, user *identity.AdminUser) error {
	model := models.AdminUserModelFromDomain(user)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID retrieves an admin user by ID
func (r *GormAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	var model models.AdminUserModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("admin user", id.String())
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsername retrieves an admin user by username
func (r *GormAdminRepository) FindByUsername(ctx context.Context, username string) (*identity.AdminUser, error) {
	var model models.AdminUserModel
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("admin user", username)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// RecordLogin stamps the user's last login time
func (r *GormAdminRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.AdminUserModel{}).
		Where("id = ?", id).
		Update("last_login_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
