package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

// Register creates an account and signs the user in. A taken email yields
// domain.ErrConflict.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Register hash password: %w", err)
	}

	name := input.Name
	if name == "" {
		name, _, _ = strings.Cut(input.Email, "@")
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        input.Email,
		Name:         name,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("auth.Register email %q: %w", input.Email, domain.ErrConflict)
		}
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()))
	return result, nil
}
