package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

type mockMediaRepo struct {
	CreateFunc     func(ctx context.Context, m *domain.Media) (*domain.Media, error)
	ListByWordFunc func(ctx context.Context, wordID uuid.UUID) ([]domain.Media, error)
}

func (m *mockMediaRepo) Create(ctx context.Context, md *domain.Media) (*domain.Media, error) {
	return m.CreateFunc(ctx, md)
}

func (m *mockMediaRepo) ListByWord(ctx context.Context, wordID uuid.UUID) ([]domain.Media, error) {
	return m.ListByWordFunc(ctx, wordID)
}

type mockWordRepo struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Word, error)
}

func (m *mockWordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	return m.GetByIDFunc(ctx, id)
}

func existingWord(_ context.Context, id uuid.UUID) (*domain.Word, error) {
	return &domain.Word{ID: id, Term: "casa"}, nil
}

func missingWord(_ context.Context, id uuid.UUID) (*domain.Word, error) {
	return nil, fmt.Errorf("word %s: %w", id, domain.ErrNotFound)
}

func newTestService(media *mockMediaRepo, words *mockWordRepo) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), media, words)
}

func ptr(s string) *string { return &s }

func TestAttachInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      AttachInput
		wantErr bool
	}{
		{name: "valid image", in: AttachInput{Type: "image", URL: "https://example.com/a.png"}},
		{name: "type is case-insensitive", in: AttachInput{Type: " GIF ", URL: "http://example.com/a.gif"}},
		{name: "unknown type", in: AttachInput{Type: "pdf", URL: "https://example.com/a.pdf"}, wantErr: true},
		{name: "missing url", in: AttachInput{Type: "image"}, wantErr: true},
		{name: "relative url", in: AttachInput{Type: "image", URL: "/a.png"}, wantErr: true},
		{name: "ftp url", in: AttachInput{Type: "image", URL: "ftp://example.com/a.png"}, wantErr: true},
		{name: "caption at limit", in: AttachInput{Type: "audio", URL: "https://example.com/a.mp3", Caption: ptr(strings.Repeat("c", 280))}},
		{name: "caption too long", in: AttachInput{Type: "audio", URL: "https://example.com/a.mp3", Caption: ptr(strings.Repeat("c", 281))}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_Attach(t *testing.T) {
	t.Parallel()

	wordID := uuid.New()
	var got *domain.Media
	media := &mockMediaRepo{
		CreateFunc: func(_ context.Context, m *domain.Media) (*domain.Media, error) {
			got = m
			out := *m
			out.ID = uuid.New()
			return &out, nil
		},
	}

	m, err := newTestService(media, &mockWordRepo{GetByIDFunc: existingWord}).Attach(context.Background(), AttachInput{
		WordID:  wordID,
		Type:    "Video",
		URL:     " https://example.com/v.mp4 ",
		Caption: ptr("  "),
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, domain.MediaTypeVideo, got.Type)
	assert.Equal(t, "https://example.com/v.mp4", got.URL)
	assert.Nil(t, got.Caption)
	assert.Equal(t, wordID, got.WordID)
}

func TestService_Attach_UnknownWord(t *testing.T) {
	t.Parallel()

	media := &mockMediaRepo{
		CreateFunc: func(context.Context, *domain.Media) (*domain.Media, error) {
			t.Error("Create must not be called")
			return nil, nil
		},
	}

	_, err := newTestService(media, &mockWordRepo{GetByIDFunc: missingWord}).Attach(context.Background(), AttachInput{
		WordID: uuid.New(), Type: "image", URL: "https://example.com/a.png",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_List(t *testing.T) {
	t.Parallel()

	wordID := uuid.New()
	media := &mockMediaRepo{
		ListByWordFunc: func(_ context.Context, id uuid.UUID) ([]domain.Media, error) {
			assert.Equal(t, wordID, id)
			return []domain.Media{{ID: uuid.New()}, {ID: uuid.New()}}, nil
		},
	}

	items, err := newTestService(media, &mockWordRepo{GetByIDFunc: existingWord}).List(context.Background(), wordID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = newTestService(media, &mockWordRepo{GetByIDFunc: missingWord}).List(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
