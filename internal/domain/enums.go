package domain

import "strings"

// PartOfSpeech represents the grammatical category of a definition.
type PartOfSpeech string

const (
	PartOfSpeechNoun         PartOfSpeech = "noun"
	PartOfSpeechVerb         PartOfSpeech = "verb"
	PartOfSpeechAdjective    PartOfSpeech = "adjective"
	PartOfSpeechAdverb       PartOfSpeech = "adverb"
	PartOfSpeechPronoun      PartOfSpeech = "pronoun"
	PartOfSpeechPreposition  PartOfSpeech = "preposition"
	PartOfSpeechConjunction  PartOfSpeech = "conjunction"
	PartOfSpeechInterjection PartOfSpeech = "interjection"
	PartOfSpeechPhrase       PartOfSpeech = "phrase"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
		PartOfSpeechPronoun, PartOfSpeechPreposition, PartOfSpeechConjunction,
		PartOfSpeechInterjection, PartOfSpeechPhrase:
		return true
	}
	return false
}

// partOfSpeechLabels maps Portuguese grammatical-class labels, as printed by
// dictionary pages, to the closed enumeration. Keys are lowercase.
var partOfSpeechLabels = map[string]PartOfSpeech{
	"substantivo": PartOfSpeechNoun,
	"verbo":       PartOfSpeechVerb,
	"adjetivo":    PartOfSpeechAdjective,
	"advérbio":    PartOfSpeechAdverb,
	"adverbio":    PartOfSpeechAdverb,
	"pronome":     PartOfSpeechPronoun,
	"preposição":  PartOfSpeechPreposition,
	"preposicao":  PartOfSpeechPreposition,
	"conjunção":   PartOfSpeechConjunction,
	"conjuncao":   PartOfSpeechConjunction,
	"interjeição": PartOfSpeechInterjection,
	"interjeicao": PartOfSpeechInterjection,
	"expressão":   PartOfSpeechPhrase,
	"expressao":   PartOfSpeechPhrase,
	"locução":     PartOfSpeechPhrase,
}

// NormalizePartOfSpeech maps a raw classifier such as "verbo transitivo direto"
// or "NOUN" onto the enumeration. The first word decides; anything
// unrecognized becomes PartOfSpeechPhrase.
func NormalizePartOfSpeech(raw string) PartOfSpeech {
	raw = NormalizeText(raw)
	if raw == "" {
		return PartOfSpeechPhrase
	}
	if p := PartOfSpeech(raw); p.IsValid() {
		return p
	}
	head, _, _ := strings.Cut(raw, " ")
	if p, ok := partOfSpeechLabels[head]; ok {
		return p
	}
	return PartOfSpeechPhrase
}

// ParsePartOfSpeech accepts exactly one enumeration value or Portuguese
// label, case-insensitively. Blank input defaults to PartOfSpeechPhrase.
func ParsePartOfSpeech(raw string) (PartOfSpeech, bool) {
	raw = NormalizeText(raw)
	if raw == "" {
		return PartOfSpeechPhrase, true
	}
	if p := PartOfSpeech(raw); p.IsValid() {
		return p, true
	}
	p, ok := partOfSpeechLabels[raw]
	return p, ok
}

// Language is an ISO 639-1 code of a supported dictionary language.
type Language string

const (
	LanguagePortuguese Language = "pt"
	LanguageEnglish    Language = "en"
	LanguageSpanish    Language = "es"
	LanguageFrench     Language = "fr"
)

func (l Language) String() string { return string(l) }

func (l Language) IsValid() bool {
	switch l {
	case LanguagePortuguese, LanguageEnglish, LanguageSpanish, LanguageFrench:
		return true
	}
	return false
}

// MediaType is the kind of media attached to a word.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeAudio MediaType = "audio"
	MediaTypeVideo MediaType = "video"
	MediaTypeGIF   MediaType = "gif"
)

func (m MediaType) String() string { return string(m) }

func (m MediaType) IsValid() bool {
	switch m {
	case MediaTypeImage, MediaTypeAudio, MediaTypeVideo, MediaTypeGIF:
		return true
	}
	return false
}

// GameType identifies a word mini-game.
type GameType string

const (
	GameTypeAnagram      GameType = "anagram"
	GameTypeFillBlank    GameType = "fill_blank"
	GameTypeSynonymMatch GameType = "synonym_match"
)

func (g GameType) String() string { return string(g) }

func (g GameType) IsValid() bool {
	switch g {
	case GameTypeAnagram, GameTypeFillBlank, GameTypeSynonymMatch:
		return true
	}
	return false
}
