// Package identity handles admin login for the list management API.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/edulistas/backend/internal/domain/identity"
	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenIssuer mints and validates access tokens for admin sessions
type TokenIssuer interface {
	Issue(userID uuid.UUID, username string) (token string, expiresAt time.Time, err error)
}

// LoginRequest is an admin login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo is the public shape of an admin account
type UserInfo struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
}

// AuthService authenticates admin users
type AuthService struct {
	adminRepo identity.AdminRepository
	tokens    TokenIssuer
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo identity.AdminRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		adminRepo: adminRepo,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
	}
}

// Login verifies credentials and issues a session token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(strings.ToLower(req.Username))

	user, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.WrapDomainError("UNAUTHORIZED", "invalid credentials", shared.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.Active || !user.CheckPassword(req.Password) {
		return nil, shared.WrapDomainError("UNAUTHORIZED", "invalid credentials", shared.ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	if err := s.adminRepo.RecordLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("failed to record login time",
			zap.String("username", user.Username),
			zap.Error(err),
		)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: UserInfo{
			ID:          user.ID.String(),
			Username:    user.Username,
			DisplayName: user.DisplayName,
		},
	}, nil
}

// CurrentUser loads the account behind a validated token
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.adminRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserInfo{
		ID:          user.ID.String(),
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}, nil
}
