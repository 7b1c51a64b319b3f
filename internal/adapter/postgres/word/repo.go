// Package word implements the word store on PostgreSQL. A word row owns its
// definitions, examples, synonyms and antonyms; child rows are always read
// and written together with the parent.
package word

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/dicionario-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

// Repo provides word persistence backed by PostgreSQL.
type Repo struct {
	db  postgres.DB
	txm *postgres.TxManager
}

// New creates a new word repository.
func New(db postgres.DB, txm *postgres.TxManager) *Repo {
	return &Repo{db: db, txm: txm}
}

var wordColumns = []string{
	"w.id", "w.term", "w.language", "w.phonetic", "w.etymology",
	"w.audio_url", "w.famous_phrases", "w.created_at", "w.updated_at",
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Search returns words whose term or any definition meaning contains query,
// case-insensitively, ordered by term. total counts every match regardless
// of limit and offset.
func (r *Repo) Search(ctx context.Context, query string, limit, offset int) ([]domain.Word, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	pattern := "%" + escapeLike(query) + "%"
	cond := sq.Or{
		sq.ILike{"w.term": pattern},
		sq.Expr("EXISTS (SELECT 1 FROM definitions d WHERE d.word_id = w.id AND d.meaning ILIKE ?)", pattern),
	}

	countSQL, countArgs, err := postgres.Builder.Select("count(*)").From("words w").Where(cond).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count words: %w", err)
	}
	if total == 0 {
		return []domain.Word{}, 0, nil
	}

	listSQL, listArgs, err := postgres.Builder.
		Select(wordColumns...).
		From("words w").
		Where(cond).
		OrderBy("w.term ASC").
		Limit(uint64(max(limit, 0))).
		Offset(uint64(max(offset, 0))).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build search query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("search words: %w", err)
	}
	words, err := scanWords(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("search words: %w", err)
	}

	if err := loadChildren(ctx, q, words); err != nil {
		return nil, 0, err
	}
	return words, total, nil
}

// GetByID returns the word with all children.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	return r.getOne(ctx, sq.Eq{"w.id": id}, id.String())
}

// GetByTerm returns the word stored under the exact normalized term.
func (r *Repo) GetByTerm(ctx context.Context, term string) (*domain.Word, error) {
	return r.getOne(ctx, sq.Eq{"w.term": term}, term)
}

func (r *Repo) getOne(ctx context.Context, cond sq.Sqlizer, key string) (*domain.Word, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := postgres.Builder.Select(wordColumns...).From("words w").Where(cond).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	w, err := scanWord(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "word", key)
	}

	words := []domain.Word{w}
	if err := loadChildren(ctx, q, words); err != nil {
		return nil, err
	}
	return &words[0], nil
}

// Suggest returns up to limit words whose term starts with prefix, ordered
// by term.
func (r *Repo) Suggest(ctx context.Context, prefix string, limit int) ([]domain.WordSummary, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := postgres.Builder.
		Select("id", "term").
		From("words").
		Where(sq.ILike{"term": escapeLike(prefix) + "%"}).
		OrderBy("term ASC").
		Limit(uint64(max(limit, 0))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build suggest query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("suggest words: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.WordSummary, error) {
		var s domain.WordSummary
		err := row.Scan(&s.ID, &s.Term)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("suggest words: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
