package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/service/pronounce"
)

type suggestionService interface {
	Suggestions(ctx context.Context, prefix string, limit int) ([]domain.WordSummary, error)
}

type pronounceService interface {
	Pronounce(ctx context.Context, wordID uuid.UUID, voice string) (*pronounce.Pronunciation, error)
}

// UtilHandler serves autocomplete and pronunciation.
type UtilHandler struct {
	suggestions suggestionService
	pronounce   pronounceService
	log         *slog.Logger
}

// NewUtilHandler creates a UtilHandler.
func NewUtilHandler(suggestions suggestionService, pron pronounceService, logger *slog.Logger) *UtilHandler {
	return &UtilHandler{suggestions: suggestions, pronounce: pron, log: logger.With("handler", "util")}
}

// Suggestions handles GET /util/suggestions?q=&limit=.
func (h *UtilHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	items, err := h.suggestions.Suggestions(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]summaryResponse, len(items))
	for i, s := range items {
		out[i] = summaryResponse{ID: s.ID.String(), Term: s.Term}
	}
	writeJSON(w, http.StatusOK, out)
}

// Pronounce handles GET /util/pronounce/{id}?voice=.
func (h *UtilHandler) Pronounce(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	p, err := h.pronounce.Pronounce(r.Context(), id, r.URL.Query().Get("voice"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
