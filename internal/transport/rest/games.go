package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/service/game"
)

type gameService interface {
	Available(ctx context.Context, wordID uuid.UUID) ([]domain.GameType, error)
	Start(ctx context.Context, wordID uuid.UUID, gameType string) (*game.Challenge, error)
	Submit(ctx context.Context, wordID uuid.UUID, gameType, answer string) (*game.Outcome, error)
}

// GameHandler serves the word mini-games.
type GameHandler struct {
	svc gameService
	log *slog.Logger
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(svc gameService, logger *slog.Logger) *GameHandler {
	return &GameHandler{svc: svc, log: logger.With("handler", "games")}
}

type challengeResponse struct {
	Type         string   `json:"type"`
	Tiles        []string `json:"tiles,omitempty"`
	Hint         string   `json:"hint,omitempty"`
	Prompt       string   `json:"prompt,omitempty"`
	AnswerLength int      `json:"answerLength,omitempty"`
	Choices      []string `json:"choices,omitempty"`
}

type submitRequest struct {
	Answer string `json:"answer"`
}

type outcomeResponse struct {
	Correct  bool   `json:"correct"`
	Expected string `json:"expected"`
}

// Available handles GET /words/{id}/games.
func (h *GameHandler) Available(w http.ResponseWriter, r *http.Request) {
	wordID, err := uuidParam(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	types, err := h.svc.Available(r.Context(), wordID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"games": out})
}

// Start handles POST /words/{id}/games/{type}/start.
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	wordID, err := uuidParam(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	c, err := h.svc.Start(r.Context(), wordID, chi.URLParam(r, "type"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, challengeResponse{
		Type:         c.Type.String(),
		Tiles:        c.Tiles,
		Hint:         c.Hint,
		Prompt:       c.Prompt,
		AnswerLength: c.AnswerLength,
		Choices:      c.Choices,
	})
}

// Submit handles POST /words/{id}/games/{type}/submit.
func (h *GameHandler) Submit(w http.ResponseWriter, r *http.Request) {
	wordID, err := uuidParam(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out, err := h.svc.Submit(r.Context(), wordID, chi.URLParam(r, "type"), req.Answer)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeResponse{Correct: out.Correct, Expected: out.Expected})
}
