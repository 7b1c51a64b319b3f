package domain

import (
	"time"

	"github.com/google/uuid"
)

// Word is the canonical dictionary entry. Term is stored normalized and is
// unique across the store.
type Word struct {
	ID            uuid.UUID
	Term          string
	Language      Language
	Phonetic      *string
	Etymology     *string
	AudioURL      *string
	FamousPhrases []string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Definitions []Definition
	Synonyms    []string
	Antonyms    []string
}

// Definition is one sense of a word. Examples keep their insertion order.
type Definition struct {
	ID           uuid.UUID
	WordID       uuid.UUID
	Meaning      string
	PartOfSpeech PartOfSpeech
	Position     int

	Examples []Example
}

// Example is a usage sentence attached to a definition.
type Example struct {
	ID           uuid.UUID
	DefinitionID uuid.UUID
	Sentence     string
	Translation  *string
	Position     int
}

// WordUpdate carries a partial update. Nil fields are left untouched;
// non-nil collections replace the stored ones wholesale.
type WordUpdate struct {
	Term        *string
	Language    *Language
	Phonetic    *string
	Etymology   *string
	Definitions *[]Definition
	Synonyms    *[]string
	Antonyms    *[]string
}

// IsEmpty reports whether the update changes nothing.
func (u WordUpdate) IsEmpty() bool {
	return u.Term == nil && u.Language == nil && u.Phonetic == nil && u.Etymology == nil &&
		u.Definitions == nil && u.Synonyms == nil && u.Antonyms == nil
}

// WordSummary is the lightweight projection used by autocomplete.
type WordSummary struct {
	ID   uuid.UUID
	Term string
}

// FirstMeaning returns the meaning of the first definition, or "".
func (w *Word) FirstMeaning() string {
	if len(w.Definitions) == 0 {
		return ""
	}
	return w.Definitions[0].Meaning
}

// FirstExample returns the first example sentence found across definitions.
func (w *Word) FirstExample() (string, bool) {
	for _, d := range w.Definitions {
		if len(d.Examples) > 0 {
			return d.Examples[0].Sentence, true
		}
	}
	return "", false
}
