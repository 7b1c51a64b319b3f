package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/service/dictionary"
	"github.com/heartmarshall/dicionario-backend/internal/service/resolver"
)

type resolverService interface {
	Resolve(ctx context.Context, query string, limit, page int) (*resolver.Result, error)
	Ensure(ctx context.Context, term string) (*domain.Word, error)
}

type dictionaryService interface {
	CreateWord(ctx context.Context, in dictionary.CreateWordInput) (*domain.Word, error)
	GetWord(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	UpdateWord(ctx context.Context, id uuid.UUID, in dictionary.UpdateWordInput) (*domain.Word, error)
	DeleteWord(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, wordID uuid.UUID, limit int) ([]domain.AuditRecord, error)
}

// WordHandler serves search, lookup and editing of words.
type WordHandler struct {
	resolver resolverService
	dict     dictionaryService
	log      *slog.Logger
}

// NewWordHandler creates a WordHandler.
func NewWordHandler(res resolverService, dict dictionaryService, logger *slog.Logger) *WordHandler {
	return &WordHandler{resolver: res, dict: dict, log: logger.With("handler", "words")}
}

// SearchResponse is the JSON body of a search. The CLI prints the same shape.
type SearchResponse struct {
	Results []wordResponse `json:"results"`
	Total   int            `json:"total"`
}

// NewSearchResponse converts a resolver result to its JSON body.
func NewSearchResponse(result *resolver.Result) SearchResponse {
	return SearchResponse{
		Results: toWordResponses(result.Results),
		Total:   result.Total,
	}
}

type exampleRequest struct {
	Sentence    string  `json:"sentence"`
	Translation *string `json:"translation"`
}

type definitionRequest struct {
	Meaning      string           `json:"meaning"`
	PartOfSpeech string           `json:"partOfSpeech"`
	Examples     []exampleRequest `json:"examples"`
}

type createWordRequest struct {
	Term        string              `json:"term"`
	Language    string              `json:"language"`
	Phonetic    *string             `json:"phonetic"`
	Etymology   *string             `json:"etymology"`
	Definitions []definitionRequest `json:"definitions"`
	Synonyms    []string            `json:"synonyms"`
	Antonyms    []string            `json:"antonyms"`
}

type updateWordRequest struct {
	Term        *string              `json:"term"`
	Language    *string              `json:"language"`
	Phonetic    *string              `json:"phonetic"`
	Etymology   *string              `json:"etymology"`
	Definitions *[]definitionRequest `json:"definitions"`
	Synonyms    *[]string            `json:"synonyms"`
	Antonyms    *[]string            `json:"antonyms"`
}

// Search handles GET /words?query=&limit=&page=.
func (h *WordHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result, err := h.resolver.Resolve(r.Context(), r.URL.Query().Get("query"), limit, page)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewSearchResponse(result))
}

// GetByTerm handles GET /words/term/{term}, fetching unknown terms from the
// external source.
func (h *WordHandler) GetByTerm(w http.ResponseWriter, r *http.Request) {
	word, err := h.resolver.Ensure(r.Context(), chi.URLParam(r, "term"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWordResponse(word))
}

// Get handles GET /words/{id}.
func (h *WordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	word, err := h.dict.GetWord(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWordResponse(word))
}

// Create handles POST /words.
func (h *WordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	word, err := h.dict.CreateWord(r.Context(), dictionary.CreateWordInput{
		Term:        req.Term,
		Language:    req.Language,
		Phonetic:    req.Phonetic,
		Etymology:   req.Etymology,
		Definitions: toDefinitionInputs(req.Definitions),
		Synonyms:    req.Synonyms,
		Antonyms:    req.Antonyms,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWordResponse(word))
}

// Update handles PUT /words/{id}. Omitted fields are left untouched.
func (h *WordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req updateWordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	in := dictionary.UpdateWordInput{
		Term:      req.Term,
		Language:  req.Language,
		Phonetic:  req.Phonetic,
		Etymology: req.Etymology,
		Synonyms:  req.Synonyms,
		Antonyms:  req.Antonyms,
	}
	if req.Definitions != nil {
		defs := toDefinitionInputs(*req.Definitions)
		in.Definitions = &defs
	}

	word, err := h.dict.UpdateWord(r.Context(), id, in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWordResponse(word))
}

// Delete handles DELETE /words/{id}.
func (h *WordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.dict.DeleteWord(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /words/{id}/history?limit=.
func (h *WordHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	records, err := h.dict.History(r.Context(), id, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]historyResponse, len(records))
	for i := range records {
		out[i] = toHistoryResponse(&records[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": out})
}

func toDefinitionInputs(reqs []definitionRequest) []dictionary.DefinitionInput {
	out := make([]dictionary.DefinitionInput, len(reqs))
	for i, d := range reqs {
		examples := make([]dictionary.ExampleInput, len(d.Examples))
		for j, e := range d.Examples {
			examples[j] = dictionary.ExampleInput{Sentence: e.Sentence, Translation: e.Translation}
		}
		out[i] = dictionary.DefinitionInput{
			Meaning:      d.Meaning,
			PartOfSpeech: d.PartOfSpeech,
			Examples:     examples,
		}
	}
	return out
}
