package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/service/media"
)

type mediaService interface {
	Attach(ctx context.Context, in media.AttachInput) (*domain.Media, error)
	List(ctx context.Context, wordID uuid.UUID) ([]domain.Media, error)
}

// MediaHandler serves media attached to words.
type MediaHandler struct {
	svc mediaService
	log *slog.Logger
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(svc mediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{svc: svc, log: logger.With("handler", "media")}
}

type attachMediaRequest struct {
	Type    string  `json:"type"`
	URL     string  `json:"url"`
	Caption *string `json:"caption"`
}

// Attach handles POST /words/{id}/media.
func (h *MediaHandler) Attach(w http.ResponseWriter, r *http.Request) {
	wordID, err := uuidParam(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req attachMediaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	m, err := h.svc.Attach(r.Context(), media.AttachInput{
		WordID:  wordID,
		Type:    req.Type,
		URL:     req.URL,
		Caption: req.Caption,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMediaResponse(m))
}

// List handles GET /words/{id}/media.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	wordID, err := uuidParam(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	items, err := h.svc.List(r.Context(), wordID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]mediaResponse, len(items))
	for i := range items {
		out[i] = toMediaResponse(&items[i])
	}
	writeJSON(w, http.StatusOK, out)
}
