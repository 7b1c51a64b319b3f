package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/pkg/ctxutil"
)

const (
	defaultSuggestionLimit = 10
	maxSuggestionLimit     = 50
)

// CreateWord validates and stores a new word. A term that already exists
// yields domain.ErrConflict; nothing is merged.
func (s *Service) CreateWord(ctx context.Context, in CreateWordInput) (*domain.Word, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	lang := s.defaultLanguage
	if in.Language != "" {
		lang = domain.Language(strings.ToLower(strings.TrimSpace(in.Language)))
	}

	w := &domain.Word{
		Term:          domain.NormalizeText(in.Term),
		Language:      lang,
		Phonetic:      trimmedPtr(in.Phonetic),
		Etymology:     trimmedPtr(in.Etymology),
		FamousPhrases: []string{},
		Definitions:   toDefinitions(in.Definitions),
		Synonyms:      normalizeRelations(in.Synonyms),
		Antonyms:      normalizeRelations(in.Antonyms),
	}

	var created *domain.Word
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.words.Create(txCtx, w)
		if err != nil {
			return err
		}
		return s.record(txCtx, created.ID, domain.AuditActionCreate, map[string]any{
			"term":     created.Term,
			"language": created.Language.String(),
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("word %q: %w", w.Term, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create word: %w", err)
	}

	s.log.InfoContext(ctx, "word created",
		slog.String("word_id", created.ID.String()),
		slog.String("term", created.Term),
	)
	return created, nil
}

// GetWord returns a word with all children.
func (s *Service) GetWord(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	return s.words.GetByID(ctx, id)
}

// UpdateWord applies a partial update. Renaming onto an existing term yields
// domain.ErrConflict.
func (s *Service) UpdateWord(ctx context.Context, id uuid.UUID, in UpdateWordInput) (*domain.Word, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	upd := domain.WordUpdate{
		Phonetic:  trimmedPtr(in.Phonetic),
		Etymology: trimmedPtr(in.Etymology),
	}
	if in.Term != nil {
		term := domain.NormalizeText(*in.Term)
		upd.Term = &term
	}
	if in.Language != nil {
		lang := domain.Language(strings.ToLower(strings.TrimSpace(*in.Language)))
		upd.Language = &lang
	}
	if in.Definitions != nil {
		defs := toDefinitions(*in.Definitions)
		upd.Definitions = &defs
	}
	if in.Synonyms != nil {
		syn := normalizeRelations(*in.Synonyms)
		upd.Synonyms = &syn
	}
	if in.Antonyms != nil {
		ant := normalizeRelations(*in.Antonyms)
		upd.Antonyms = &ant
	}

	if upd.IsEmpty() {
		return s.words.GetByID(ctx, id)
	}

	var updated *domain.Word
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.words.Update(txCtx, id, upd)
		if err != nil {
			return err
		}
		return s.record(txCtx, id, domain.AuditActionUpdate, updateChanges(upd))
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("word %s: %w", id, domain.ErrConflict)
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "word updated", slog.String("word_id", id.String()))
	return updated, nil
}

// DeleteWord removes a word and everything attached to it. The history
// survives the word.
func (s *Service) DeleteWord(ctx context.Context, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.words.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.words.Delete(txCtx, id); err != nil {
			return err
		}
		return s.record(txCtx, id, domain.AuditActionDelete, map[string]any{"term": current.Term})
	})
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "word deleted", slog.String("word_id", id.String()))
	return nil
}

// History returns the edit history of a word, newest first. It works for
// deleted words too. Limit defaults to 10 and is capped at 50.
func (s *Service) History(ctx context.Context, wordID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	records, err := s.audit.ListByWord(ctx, wordID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("word history: %w", err)
	}
	return records, nil
}

// PruneHistory drops history older than the configured retention, measured
// from now. It returns the number of records removed.
func (s *Service) PruneHistory(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.retention)
	n, err := s.audit.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	s.log.InfoContext(ctx, "history pruned",
		slog.Int64("deleted", n),
		slog.Time("cutoff", cutoff),
	)
	return n, nil
}

// Suggestions returns stored terms starting with prefix. A blank prefix
// returns nothing. Limit defaults to 10 and is capped at 50.
func (s *Service) Suggestions(ctx context.Context, prefix string, limit int) ([]domain.WordSummary, error) {
	prefix = domain.NormalizeText(prefix)
	if prefix == "" {
		return []domain.WordSummary{}, nil
	}

	return s.words.Suggest(ctx, prefix, clampLimit(limit))
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultSuggestionLimit
	case limit > maxSuggestionLimit:
		return maxSuggestionLimit
	}
	return limit
}

// record appends a history entry attributed to the caller, if any.
func (s *Service) record(ctx context.Context, wordID uuid.UUID, action domain.AuditAction, changes map[string]any) error {
	rec := domain.AuditRecord{
		WordID:    wordID,
		Action:    action,
		Changes:   changes,
		CreatedAt: time.Now().UTC(),
	}
	if userID, ok := ctxutil.UserIDFromCtx(ctx); ok {
		rec.UserID = &userID
	}
	if err := s.audit.Log(ctx, rec); err != nil {
		return fmt.Errorf("log %s: %w", action, err)
	}
	return nil
}

// updateChanges lists what an update touched. Scalars carry the new value,
// collections their new size.
func updateChanges(upd domain.WordUpdate) map[string]any {
	changes := make(map[string]any)
	if upd.Term != nil {
		changes["term"] = *upd.Term
	}
	if upd.Language != nil {
		changes["language"] = upd.Language.String()
	}
	if upd.Phonetic != nil {
		changes["phonetic"] = *upd.Phonetic
	}
	if upd.Etymology != nil {
		changes["etymology"] = *upd.Etymology
	}
	if upd.Definitions != nil {
		changes["definitions"] = len(*upd.Definitions)
	}
	if upd.Synonyms != nil {
		changes["synonyms"] = len(*upd.Synonyms)
	}
	if upd.Antonyms != nil {
		changes["antonyms"] = len(*upd.Antonyms)
	}
	return changes
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func toDefinitions(in []DefinitionInput) []domain.Definition {
	out := make([]domain.Definition, 0, len(in))
	for _, d := range in {
		pos, _ := domain.ParsePartOfSpeech(d.PartOfSpeech)
		def := domain.Definition{
			Meaning:      strings.TrimSpace(d.Meaning),
			PartOfSpeech: pos,
			Examples:     make([]domain.Example, 0, len(d.Examples)),
		}
		for _, ex := range d.Examples {
			def.Examples = append(def.Examples, domain.Example{
				Sentence:    strings.TrimSpace(ex.Sentence),
				Translation: trimmedPtr(ex.Translation),
			})
		}
		out = append(out, def)
	}
	return out
}

// normalizeRelations lowercases and trims synonym or antonym terms.
// Duplicates are kept.
func normalizeRelations(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if n := domain.NormalizeText(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
