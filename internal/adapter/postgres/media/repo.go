// Package media implements persistence of media attached to words.
package media

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/dicionario-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

const (
	createSQL = `
INSERT INTO media (id, word_id, type, url, caption, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	listByWordSQL = `
SELECT id, word_id, type, url, caption, created_at
FROM media
WHERE word_id = $1
ORDER BY created_at DESC, id`
)

// Repo provides media persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new media repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Create stores m. A missing word yields domain.ErrNotFound through the
// foreign key.
func (r *Repo) Create(ctx context.Context, m *domain.Media) (*domain.Media, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	created := *m
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	created.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	_, err := q.Exec(ctx, createSQL,
		created.ID, created.WordID, string(created.Type), created.URL, created.Caption, created.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "word", created.WordID.String())
	}
	return &created, nil
}

// ListByWord returns media of a word, newest first.
func (r *Repo) ListByWord(ctx context.Context, wordID uuid.UUID) ([]domain.Media, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByWordSQL, wordID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Media, error) {
		var (
			m   domain.Media
			typ string
		)
		err := row.Scan(&m.ID, &m.WordID, &typ, &m.URL, &m.Caption, &m.CreatedAt)
		m.Type = domain.MediaType(typ)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return items, nil
}
