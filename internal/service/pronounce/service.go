// Package pronounce synthesizes and caches spoken pronunciations of words.
package pronounce

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

type wordRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	SetAudioURL(ctx context.Context, id uuid.UUID, url string) error
}

type synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (string, error)
}

// Pronunciation is the audio for a word in a given voice.
type Pronunciation struct {
	URL   string `json:"url"`
	Voice string `json:"voice"`
	Text  string `json:"text"`
}

// Service implements the pronunciation flow.
type Service struct {
	log          *slog.Logger
	words        wordRepo
	tts          synthesizer
	knownVoice   func(string) bool
	defaultVoice string
}

// NewService creates a pronunciation service. knownVoice reports whether a
// voice identifier exists in the synthesizer's catalog.
func NewService(logger *slog.Logger, words wordRepo, tts synthesizer, knownVoice func(string) bool, defaultVoice string) *Service {
	return &Service{
		log:          logger.With("service", "pronounce"),
		words:        words,
		tts:          tts,
		knownVoice:   knownVoice,
		defaultVoice: defaultVoice,
	}
}

// Pronounce returns the cached audio of a word, or synthesizes and caches it.
// The cached audio is returned whatever voice was asked for.
func (s *Service) Pronounce(ctx context.Context, wordID uuid.UUID, voice string) (*Pronunciation, error) {
	voice = strings.ToLower(strings.TrimSpace(voice))
	if voice == "" {
		voice = s.defaultVoice
	}
	if !s.knownVoice(voice) {
		return nil, domain.NewValidationError("voice", "unknown voice")
	}

	w, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return nil, err
	}

	if w.AudioURL != nil && *w.AudioURL != "" {
		return &Pronunciation{URL: *w.AudioURL, Voice: voice, Text: w.Term}, nil
	}

	audio, err := s.tts.Synthesize(ctx, w.Term, voice)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.log.WarnContext(ctx, "pronunciation synthesis failed",
			slog.String("word_id", wordID.String()),
			slog.String("voice", voice),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("synthesize %q: %w: %v", w.Term, domain.ErrSourceUnavailable, err)
	}

	if err := s.words.SetAudioURL(ctx, wordID, audio); err != nil {
		return nil, fmt.Errorf("cache audio: %w", err)
	}

	s.log.InfoContext(ctx, "pronunciation cached",
		slog.String("word_id", wordID.String()),
		slog.String("voice", voice),
	)
	return &Pronunciation{URL: audio, Voice: voice, Text: w.Term}, nil
}
