// Package dictionary implements direct management of stored words.
package dictionary

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/dicionario-backend/internal/config"
	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	Create(ctx context.Context, w *domain.Word) (*domain.Word, error)
	Update(ctx context.Context, id uuid.UUID, upd domain.WordUpdate) (*domain.Word, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Suggest(ctx context.Context, prefix string, limit int) ([]domain.WordSummary, error)
}

type auditRepo interface {
	Log(ctx context.Context, rec domain.AuditRecord) error
	ListByWord(ctx context.Context, wordID uuid.UUID, limit int) ([]domain.AuditRecord, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements word CRUD, edit history and autocomplete.
type Service struct {
	log             *slog.Logger
	words           wordRepo
	audit           auditRepo
	tx              txManager
	defaultLanguage domain.Language
	retention       time.Duration
}

// NewService creates a new Dictionary service.
func NewService(
	logger *slog.Logger,
	words wordRepo,
	audit auditRepo,
	tx txManager,
	cfg config.DictionaryConfig,
) *Service {
	lang := domain.Language(cfg.DefaultLanguage)
	if !lang.IsValid() {
		lang = domain.LanguagePortuguese
	}
	return &Service{
		log:             logger.With("service", "dictionary"),
		words:           words,
		audit:           audit,
		tx:              tx,
		defaultLanguage: lang,
		retention:       time.Duration(cfg.HistoryRetentionDays) * 24 * time.Hour,
	}
}
