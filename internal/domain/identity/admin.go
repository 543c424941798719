// Package identity models the store staff accounts that manage school
// lists through the admin API.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminUser is a staff account with password login
type AdminUser struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	DisplayName  string
	Active       bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// NewAdminUser creates an account with a bcrypt-hashed password
func NewAdminUser(username, password, displayName string) (*AdminUser, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, shared.NewValidationError("username is required")
	}
	if len(password) < 8 {
		return nil, shared.NewValidationError("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminUser{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
		Active:       true,
	}, nil
}

// CheckPassword verifies a candidate password against the stored hash
func (u *AdminUser) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// AdminRepository is the persistence port for admin accounts
type AdminRepository interface {
	Save(ctx context.Context, user *AdminUser) error
	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*AdminUser, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
