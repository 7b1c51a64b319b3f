// Package audit stores the edit history of dictionary words.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/dicionario-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

var auditColumns = []string{"id", "word_id", "user_id", "action", "changes", "created_at"}

// Repo provides word history persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new audit repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Log appends rec to the history. Missing ID and CreatedAt are filled in.
// Runs inside the caller's transaction when ctx carries one.
func (r *Repo) Log(ctx context.Context, rec domain.AuditRecord) error {
	if !rec.Action.IsValid() {
		return domain.NewValidationError("action", "unknown audit action")
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	changes := rec.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	raw, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("audit marshal changes: %w", err)
	}

	query, args, err := postgres.Builder.
		Insert("word_audit").
		Columns(auditColumns...).
		Values(rec.ID, rec.WordID, rec.UserID, string(rec.Action), raw, rec.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "word_audit", rec.WordID.String())
	}
	return nil
}

// ListByWord returns up to limit history records of a word, newest first.
func (r *Repo) ListByWord(ctx context.Context, wordID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	query, args, err := postgres.Builder.
		Select(auditColumns...).
		From("word_audit").
		Where("word_id = ?", wordID).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit list: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list word audit: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("list word audit: %w", err)
	}
	return records, nil
}

// DeleteOlderThan removes history recorded before the cutoff and returns the
// number of rows removed.
func (r *Repo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := postgres.Builder.
		Delete("word_audit").
		Where("created_at < ?", before).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build audit delete: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune word audit: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRecord(row pgx.CollectableRow) (domain.AuditRecord, error) {
	var (
		rec    domain.AuditRecord
		action string
		raw    []byte
	)
	if err := row.Scan(&rec.ID, &rec.WordID, &rec.UserID, &action, &raw, &rec.CreatedAt); err != nil {
		return domain.AuditRecord{}, err
	}
	rec.Action = domain.AuditAction(action)

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rec.Changes); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("audit %s unmarshal changes: %w", rec.ID, err)
		}
	}
	return rec, nil
}
