package rest

import (
	"time"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

type wordResponse struct {
	ID            string               `json:"id"`
	Term          string               `json:"term"`
	Language      string               `json:"language"`
	Phonetic      *string              `json:"phonetic,omitempty"`
	Etymology     *string              `json:"etymology,omitempty"`
	AudioURL      *string              `json:"audioUrl,omitempty"`
	FamousPhrases []string             `json:"famousPhrases"`
	Definitions   []definitionResponse `json:"definitions"`
	Synonyms      []string             `json:"synonyms"`
	Antonyms      []string             `json:"antonyms"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type definitionResponse struct {
	ID           string            `json:"id"`
	Meaning      string            `json:"meaning"`
	PartOfSpeech string            `json:"partOfSpeech"`
	Examples     []exampleResponse `json:"examples"`
}

type exampleResponse struct {
	ID          string  `json:"id"`
	Sentence    string  `json:"sentence"`
	Translation *string `json:"translation,omitempty"`
}

type summaryResponse struct {
	ID   string `json:"id"`
	Term string `json:"term"`
}

type mediaResponse struct {
	ID        string    `json:"id"`
	WordID    string    `json:"wordId"`
	Type      string    `json:"type"`
	URL       string    `json:"url"`
	Caption   *string   `json:"caption,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type historyResponse struct {
	ID        string         `json:"id"`
	WordID    string         `json:"wordId"`
	UserID    *string        `json:"userId,omitempty"`
	Action    string         `json:"action"`
	Changes   map[string]any `json:"changes"`
	CreatedAt time.Time      `json:"createdAt"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toWordResponse(w *domain.Word) wordResponse {
	defs := make([]definitionResponse, len(w.Definitions))
	for i, d := range w.Definitions {
		examples := make([]exampleResponse, len(d.Examples))
		for j, e := range d.Examples {
			examples[j] = exampleResponse{ID: e.ID.String(), Sentence: e.Sentence, Translation: e.Translation}
		}
		defs[i] = definitionResponse{
			ID:           d.ID.String(),
			Meaning:      d.Meaning,
			PartOfSpeech: string(d.PartOfSpeech),
			Examples:     examples,
		}
	}

	return wordResponse{
		ID:            w.ID.String(),
		Term:          w.Term,
		Language:      string(w.Language),
		Phonetic:      w.Phonetic,
		Etymology:     w.Etymology,
		AudioURL:      w.AudioURL,
		FamousPhrases: orEmpty(w.FamousPhrases),
		Definitions:   defs,
		Synonyms:      orEmpty(w.Synonyms),
		Antonyms:      orEmpty(w.Antonyms),
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func toWordResponses(words []domain.Word) []wordResponse {
	out := make([]wordResponse, len(words))
	for i := range words {
		out[i] = toWordResponse(&words[i])
	}
	return out
}

func toMediaResponse(m *domain.Media) mediaResponse {
	return mediaResponse{
		ID:        m.ID.String(),
		WordID:    m.WordID.String(),
		Type:      string(m.Type),
		URL:       m.URL,
		Caption:   m.Caption,
		CreatedAt: m.CreatedAt,
	}
}

func toHistoryResponse(rec *domain.AuditRecord) historyResponse {
	out := historyResponse{
		ID:        rec.ID.String(),
		WordID:    rec.WordID.String(),
		Action:    rec.Action.String(),
		Changes:   rec.Changes,
		CreatedAt: rec.CreatedAt,
	}
	if out.Changes == nil {
		out.Changes = map[string]any{}
	}
	if rec.UserID != nil {
		id := rec.UserID.String()
		out.UserID = &id
	}
	return out
}
