package provider

import "github.com/heartmarshall/dicionario-backend/pkg/optional"

// DraftRecord is the structured result scraped from an external dictionary
// page. It lives only between fetch and persistence. Absent collections mean
// nothing was extracted for that field.
type DraftRecord struct {
	Word          string
	Meanings      optional.Value[[]DraftMeaning]
	Synonyms      optional.Value[[]string]
	Antonyms      optional.Value[[]string]
	Etymology     optional.Value[string]
	FamousPhrases optional.Value[[]string]
}

// DraftMeaning is a single extracted sense. PartOfSpeech is the raw
// classifier as printed on the page, e.g. "verbo transitivo direto".
type DraftMeaning struct {
	Meaning      string
	PartOfSpeech string
	Examples     optional.Value[[]DraftExample]
}

// DraftExample is a usage sentence extracted for a sense.
type DraftExample struct {
	Sentence    string
	Translation optional.Value[string]
}

// HasMeanings reports whether the draft carries at least one meaning and is
// therefore eligible for persistence.
func (d *DraftRecord) HasMeanings() bool {
	if d == nil {
		return false
	}
	m, ok := d.Meanings.Get()
	return ok && len(m) > 0
}
