// Package resolver turns a user query into dictionary words, falling back to
// the external source when nothing is stored locally.
package resolver

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/dicionario-backend/internal/config"
	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/provider"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordRepo interface {
	Search(ctx context.Context, query string, limit, offset int) ([]domain.Word, int, error)
	GetByTerm(ctx context.Context, term string) (*domain.Word, error)
	Create(ctx context.Context, w *domain.Word) (*domain.Word, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type source interface {
	FetchByTerm(ctx context.Context, term string) (*provider.DraftRecord, error)
	RediscoverViaSearch(ctx context.Context, query string) (*provider.DraftRecord, error)
}

type stageMetrics interface {
	RecordStage(stage, outcome string)
}

// Service is the resolution pipeline. It holds no locks: concurrent
// resolutions of the same term are reconciled by the store's unique term.
type Service struct {
	log             *slog.Logger
	words           wordRepo
	tx              txManager
	source          source
	metrics         stageMetrics
	defaultLanguage domain.Language
}

// NewService creates a new resolver service.
func NewService(
	logger *slog.Logger,
	words wordRepo,
	tx txManager,
	src source,
	m stageMetrics,
	cfg config.DictionaryConfig,
) *Service {
	lang := domain.Language(cfg.DefaultLanguage)
	if !lang.IsValid() {
		lang = domain.LanguagePortuguese
	}
	return &Service{
		log:             logger.With("service", "resolver"),
		words:           words,
		tx:              tx,
		source:          src,
		metrics:         m,
		defaultLanguage: lang,
	}
}

func (s *Service) record(stage, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordStage(stage, outcome)
	}
}
