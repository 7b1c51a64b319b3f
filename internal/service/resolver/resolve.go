package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/metrics"
	"github.com/heartmarshall/dicionario-backend/internal/provider"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pipeline stage labels, in execution order.
const (
	StageLocal     = "local"
	StageDirect    = "direct"
	StageVariation = "variation"
	StageSearch    = "search"
)

// Result is one page of resolved words. Total counts every local match; a
// word obtained through a fallback stage yields a single-item result.
type Result struct {
	Results []domain.Word
	Total   int
}

// Resolve runs the pipeline: local search, direct fetch, variation retry and
// web-assisted rediscovery, stopping at the first stage that yields a word.
// Exhausting every stage is not an error and returns an empty result. Only a
// genuinely empty first page triggers the fallback stages.
func (s *Service) Resolve(ctx context.Context, query string, limit, page int) (*Result, error) {
	limit = clampLimit(limit)
	if page < 1 {
		page = 1
	}

	term := domain.NormalizeText(query)
	if term == "" {
		return &Result{Results: []domain.Word{}}, nil
	}

	// 1. Local search.
	words, total, err := s.words.Search(ctx, term, limit, (page-1)*limit)
	if err != nil {
		s.record(StageLocal, metrics.OutcomeError)
		return nil, fmt.Errorf("search words: %w", err)
	}
	if total > 0 || page > 1 {
		s.record(StageLocal, metrics.OutcomeFound)
		return &Result{Results: words, Total: total}, nil
	}
	s.record(StageLocal, metrics.OutcomeNotFound)

	s.log.InfoContext(ctx, "no local match, falling back to source", slog.String("term", term))

	w, err := s.fallback(ctx, term)
	if err != nil {
		return nil, err
	}
	if w == nil {
		s.log.InfoContext(ctx, "term not found anywhere", slog.String("term", term))
		return &Result{Results: []domain.Word{}}, nil
	}
	return &Result{Results: []domain.Word{*w}, Total: 1}, nil
}

// fallback runs stages 2 to 4. A nil word with nil error means every stage
// came back empty.
func (s *Service) fallback(ctx context.Context, term string) (*domain.Word, error) {
	// 2. Direct fetch.
	draft, err := s.source.FetchByTerm(ctx, term)
	if s.found(ctx, StageDirect, term, draft, err) {
		return s.persist(ctx, draft)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	// 3. Variation retry.
	for _, candidate := range Variations(term) {
		draft, err := s.source.FetchByTerm(ctx, candidate)
		if s.found(ctx, StageVariation, candidate, draft, err) {
			s.log.InfoContext(ctx, "variation matched",
				slog.String("term", term),
				slog.String("variation", candidate),
			)
			return s.persist(ctx, draft)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}

	// 4. Web-assisted rediscovery.
	draft, err = s.source.RediscoverViaSearch(ctx, term)
	if s.found(ctx, StageSearch, term, draft, err) {
		return s.persist(ctx, draft)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	return nil, nil
}

// found reports whether a source call produced a persistable draft and
// records the stage outcome. Source errors never abort the pipeline.
func (s *Service) found(ctx context.Context, stage, term string, draft *provider.DraftRecord, err error) bool {
	switch {
	case err == nil && draft.HasMeanings():
		s.record(stage, metrics.OutcomeFound)
		return true
	case errors.Is(err, domain.ErrSourceUnavailable):
		s.record(stage, metrics.OutcomeUnavailable)
		s.log.WarnContext(ctx, "source unavailable",
			slog.String("stage", stage),
			slog.String("term", term),
			slog.String("error", err.Error()),
		)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		s.record(stage, metrics.OutcomeError)
		s.log.WarnContext(ctx, "source error treated as not found",
			slog.String("stage", stage),
			slog.String("term", term),
			slog.String("error", err.Error()),
		)
	default:
		s.record(stage, metrics.OutcomeNotFound)
	}
	return false
}

// FetchAndPersist fetches term directly from the source and stores it. An
// already stored term is returned unchanged without fetching.
func (s *Service) FetchAndPersist(ctx context.Context, term string) (*domain.Word, error) {
	normalized := domain.NormalizeText(term)
	if normalized == "" {
		return nil, domain.NewValidationError("term", "required")
	}

	existing, err := s.words.GetByTerm(ctx, normalized)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get word by term: %w", err)
	}

	draft, err := s.source.FetchByTerm(ctx, normalized)
	if !s.found(ctx, StageDirect, normalized, draft, err) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("term %q: %w", normalized, domain.ErrNotFound)
	}

	return s.persist(ctx, draft)
}

// Ensure returns the stored word for term, fetching it when absent.
func (s *Service) Ensure(ctx context.Context, term string) (*domain.Word, error) {
	return s.FetchAndPersist(ctx, term)
}

// persist stores the draft with find-or-create semantics: an existing word
// under the same normalized term wins and the draft is discarded.
func (s *Service) persist(ctx context.Context, draft *provider.DraftRecord) (*domain.Word, error) {
	term := domain.NormalizeText(draft.Word)
	if term == "" || !draft.HasMeanings() {
		return nil, fmt.Errorf("draft for %q: %w", draft.Word, domain.ErrNotFound)
	}

	existing, err := s.words.GetByTerm(ctx, term)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get word by term: %w", err)
	}

	w := mapDraftToWord(term, draft, s.defaultLanguage)

	var saved *domain.Word
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		saved, createErr = s.words.Create(txCtx, w)
		return createErr
	})
	if txErr != nil {
		if errors.Is(txErr, domain.ErrAlreadyExists) {
			existing, err := s.words.GetByTerm(ctx, term)
			if err != nil {
				return nil, fmt.Errorf("get word after conflict: %w", err)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("create word: %w", txErr)
	}

	s.log.InfoContext(ctx, "word fetched and saved",
		slog.String("term", term),
		slog.String("word_id", saved.ID.String()),
		slog.Int("definitions", len(saved.Definitions)),
	)

	return saved, nil
}

// clampLimit keeps limit within [1, MaxLimit], defaulting 0 to DefaultLimit.
func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
