package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

// UniqueSuffix returns a short unique string for non-conflicting test data.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts a user with a placeholder password hash.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := UniqueSuffix()
	user := domain.User{
		ID:           uuid.New(),
		Email:        "user-" + suffix + "@example.com",
		Name:         "User " + suffix,
		PasswordHash: "$2a$10$placeholder",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: seed user: %v", err)
	}
	return user
}

// SeedWord inserts a bare word row with no definitions and returns it.
func SeedWord(t *testing.T, pool *pgxpool.Pool, term string) domain.Word {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	w := domain.Word{
		ID:        uuid.New(),
		Term:      term,
		Language:  domain.LanguagePortuguese,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO words (id, term, language, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.Term, string(w.Language), w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: seed word: %v", err)
	}
	return w
}
