// Package media attaches images, audio, video and gifs to words.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

const (
	maxCaptionLength = 280
	maxURLLength     = 2048
)

type mediaRepo interface {
	Create(ctx context.Context, m *domain.Media) (*domain.Media, error)
	ListByWord(ctx context.Context, wordID uuid.UUID) ([]domain.Media, error)
}

type wordRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
}

// Service implements media operations.
type Service struct {
	log   *slog.Logger
	media mediaRepo
	words wordRepo
}

// NewService creates a new Media service.
func NewService(logger *slog.Logger, media mediaRepo, words wordRepo) *Service {
	return &Service{
		log:   logger.With("service", "media"),
		media: media,
		words: words,
	}
}

// AttachInput holds the parameters for attaching media to a word.
type AttachInput struct {
	WordID  uuid.UUID
	Type    string
	URL     string
	Caption *string
}

// Validate checks all fields and collects all errors.
func (i *AttachInput) Validate() error {
	var errs []domain.FieldError

	if !domain.MediaType(strings.ToLower(strings.TrimSpace(i.Type))).IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be one of image, audio, video, gif"})
	}

	raw := strings.TrimSpace(i.URL)
	switch {
	case raw == "":
		errs = append(errs, domain.FieldError{Field: "url", Message: "required"})
	case len(raw) > maxURLLength:
		errs = append(errs, domain.FieldError{Field: "url", Message: fmt.Sprintf("too long (max %d)", maxURLLength)})
	default:
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, domain.FieldError{Field: "url", Message: "must be an absolute http(s) URL"})
		}
	}

	if i.Caption != nil && utf8.RuneCountInString(strings.TrimSpace(*i.Caption)) > maxCaptionLength {
		errs = append(errs, domain.FieldError{Field: "caption", Message: fmt.Sprintf("too long (max %d)", maxCaptionLength)})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Attach validates the input and stores the media for an existing word.
func (s *Service) Attach(ctx context.Context, in AttachInput) (*domain.Media, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.words.GetByID(ctx, in.WordID); err != nil {
		return nil, err
	}

	m := &domain.Media{
		WordID: in.WordID,
		Type:   domain.MediaType(strings.ToLower(strings.TrimSpace(in.Type))),
		URL:    strings.TrimSpace(in.URL),
	}
	if in.Caption != nil {
		if c := strings.TrimSpace(*in.Caption); c != "" {
			m.Caption = &c
		}
	}

	created, err := s.media.Create(ctx, m)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create media: %w", err)
	}

	s.log.DebugContext(ctx, "media attached",
		slog.String("word_id", in.WordID.String()),
		slog.String("media_id", created.ID.String()),
		slog.String("type", string(created.Type)),
	)
	return created, nil
}

// List returns the media of a word, newest first. An unknown word yields
// domain.ErrNotFound.
func (s *Service) List(ctx context.Context, wordID uuid.UUID) ([]domain.Media, error) {
	if _, err := s.words.GetByID(ctx, wordID); err != nil {
		return nil, err
	}
	return s.media.ListByWord(ctx, wordID)
}
