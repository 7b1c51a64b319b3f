// Package game builds small word games from stored dictionary entries.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

const (
	blank      = "____"
	maxChoices = 4
)

type wordRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
}

// Challenge is a started game. Only the fields relevant to Type are set.
type Challenge struct {
	Type         domain.GameType
	Tiles        []string
	Hint         string
	Prompt       string
	AnswerLength int
	Choices      []string
}

// Outcome is the verdict on a submitted answer.
type Outcome struct {
	Correct  bool
	Expected string
}

// Service implements the game operations.
type Service struct {
	log     *slog.Logger
	words   wordRepo
	shuffle func(s []string)
}

// Option customizes a Service.
type Option func(*Service)

// WithShuffle replaces the random shuffle, for deterministic games.
func WithShuffle(fn func(s []string)) Option {
	return func(s *Service) { s.shuffle = fn }
}

// NewService creates a new Game service.
func NewService(logger *slog.Logger, words wordRepo, opts ...Option) *Service {
	s := &Service{
		log:   logger.With("service", "game"),
		words: words,
		shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available lists the games playable with the word. An unknown word has no
// games.
func (s *Service) Available(ctx context.Context, wordID uuid.UUID) ([]domain.GameType, error) {
	w, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.GameType{}, nil
		}
		return nil, err
	}

	games := []domain.GameType{domain.GameTypeAnagram}
	if _, ok := w.FirstExample(); ok {
		games = append(games, domain.GameTypeFillBlank)
	}
	if len(w.Synonyms) > 0 {
		games = append(games, domain.GameTypeSynonymMatch)
	}
	return games, nil
}

// Start builds a challenge of the given type. A word lacking the data the
// game needs yields a validation error.
func (s *Service) Start(ctx context.Context, wordID uuid.UUID, gameType string) (*Challenge, error) {
	gt, err := parseGameType(gameType)
	if err != nil {
		return nil, err
	}

	w, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return nil, err
	}

	var c *Challenge
	switch gt {
	case domain.GameTypeAnagram:
		c = s.anagram(w)
	case domain.GameTypeFillBlank:
		c, err = fillBlank(w)
	case domain.GameTypeSynonymMatch:
		c, err = s.synonymMatch(w)
	}
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "game started",
		slog.String("word_id", wordID.String()),
		slog.String("game", string(gt)),
	)
	return c, nil
}

// Submit checks an answer. Anagram and fill-in-the-blank expect the term;
// synonym match accepts any synonym. Comparison ignores case and spacing.
func (s *Service) Submit(ctx context.Context, wordID uuid.UUID, gameType, answer string) (*Outcome, error) {
	gt, err := parseGameType(gameType)
	if err != nil {
		return nil, err
	}

	given := domain.NormalizeText(answer)
	if given == "" {
		return nil, domain.NewValidationError("answer", "required")
	}

	w, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return nil, err
	}

	switch gt {
	case domain.GameTypeSynonymMatch:
		if len(w.Synonyms) == 0 {
			return nil, domain.NewValidationError("game", "word has no synonyms")
		}
		for _, syn := range w.Synonyms {
			if domain.NormalizeText(syn) == given {
				return &Outcome{Correct: true, Expected: syn}, nil
			}
		}
		return &Outcome{Correct: false, Expected: w.Synonyms[0]}, nil
	default:
		return &Outcome{Correct: domain.NormalizeText(w.Term) == given, Expected: w.Term}, nil
	}
}

// ---------------------------------------------------------------------------
// Builders
// ---------------------------------------------------------------------------

func (s *Service) anagram(w *domain.Word) *Challenge {
	tiles := strings.Split(w.Term, "")
	s.shuffle(tiles)
	return &Challenge{
		Type:         domain.GameTypeAnagram,
		Tiles:        tiles,
		Hint:         w.FirstMeaning(),
		AnswerLength: utf8.RuneCountInString(w.Term),
	}
}

func fillBlank(w *domain.Word) (*Challenge, error) {
	sentence, ok := w.FirstExample()
	if !ok {
		return nil, domain.NewValidationError("game", "word has no example to build fill_blank")
	}
	return &Challenge{
		Type:         domain.GameTypeFillBlank,
		Prompt:       blankOut(sentence, w.Term),
		AnswerLength: utf8.RuneCountInString(w.Term),
	}, nil
}

func (s *Service) synonymMatch(w *domain.Word) (*Challenge, error) {
	if len(w.Synonyms) == 0 {
		return nil, domain.NewValidationError("game", "word has no synonyms")
	}

	seen := make(map[string]bool, len(w.Synonyms))
	choices := make([]string, 0, len(w.Synonyms))
	for _, syn := range w.Synonyms {
		if !seen[syn] {
			seen[syn] = true
			choices = append(choices, syn)
		}
	}
	s.shuffle(choices)
	if len(choices) > maxChoices {
		choices = choices[:maxChoices]
	}

	return &Challenge{
		Type:    domain.GameTypeSynonymMatch,
		Hint:    w.FirstMeaning(),
		Choices: choices,
	}, nil
}

// blankOut replaces whole-word occurrences of term, case-insensitively.
// Letters include accented ones, so "casa" does not match inside "casação".
func blankOut(sentence, term string) string {
	re := regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(term) + `($|[^\p{L}\p{N}])`)
	// Two passes so adjacent occurrences sharing a separator are both replaced.
	for range 2 {
		sentence = re.ReplaceAllString(sentence, "${1}"+blank+"${2}")
	}
	return sentence
}

func parseGameType(raw string) (domain.GameType, error) {
	gt := domain.GameType(strings.ToLower(strings.TrimSpace(raw)))
	if !gt.IsValid() {
		return "", domain.NewValidationError("game_type", fmt.Sprintf("unsupported game %q", raw))
	}
	return gt, nil
}
