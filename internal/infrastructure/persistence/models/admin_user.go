package models

import (
	"time"

	"github.com/edulistas/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// AdminUserModel maps the admin_users table
type AdminUserModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	Username     string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(128);not null"`
	DisplayName  string     `gorm:"type:varchar(120);not null;default:''"`
	Active       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time  `gorm:"not null"`
	LastLoginAt  *time.Time `gorm:""`
}

// TableName overrides the GORM table name
func (AdminUserModel) TableName() string {
	return "admin_users"
}

// ToDomain converts the model to a domain AdminUser
func (m *AdminUserModel) ToDomain() *identity.AdminUser {
	return &identity.AdminUser{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		LastLoginAt:  m.LastLoginAt,
	}
}

// AdminUserModelFromDomain builds the model from a domain AdminUser
func AdminUserModelFromDomain(u *identity.AdminUser) *AdminUserModel {
	return &AdminUserModel{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		LastLoginAt:  u.LastLoginAt,
	}
}
