// Package auth registers editors and issues the tokens that gate writes.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/dicionario-backend/internal/auth"
	"github.com/heartmarshall/dicionario-backend/internal/config"
	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

type userRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type tokenManager interface {
	Generate(userID uuid.UUID, email string) (string, time.Time, error)
	Validate(token string) (*auth.Claims, error)
}

// Service implements auth operations.
type Service struct {
	log    *slog.Logger
	users  userRepo
	tokens tokenManager
	cfg    config.AuthConfig
}

// NewService creates a new auth service instance.
func NewService(logger *slog.Logger, users userRepo, tokens tokenManager, cfg config.AuthConfig) *Service {
	return &Service{
		log:    logger.With("service", "auth"),
		users:  users,
		tokens: tokens,
		cfg:    cfg,
	}
}

// Result is returned by Register and Login.
type Result struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}

func (s *Service) issue(user *domain.User) (*Result, error) {
	token, exp, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &Result{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// ValidateToken verifies an access token and returns the user it names.
// Any verification failure yields domain.ErrUnauthorized.
func (s *Service) ValidateToken(_ context.Context, token string) (uuid.UUID, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return claims.UserID, nil
}
