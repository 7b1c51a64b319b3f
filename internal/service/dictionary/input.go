package dictionary

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

const (
	maxTermLength        = 100
	maxPhoneticLength    = 100
	maxEtymologyLength   = 2000
	minMeaningLength     = 3
	maxMeaningLength     = 1000
	minSentenceLength    = 5
	maxSentenceLength    = 500
	maxTranslationLength = 500
	maxRelationLength    = 100
	maxDefinitions       = 50
	maxExamples          = 10
	maxRelations         = 50
)

// CreateWordInput holds the parameters for creating a word directly.
type CreateWordInput struct {
	Term        string
	Language    string
	Phonetic    *string
	Etymology   *string
	Definitions []DefinitionInput
	Synonyms    []string
	Antonyms    []string
}

// DefinitionInput is one sense of a word being created or replaced.
// PartOfSpeech accepts enumeration values or Portuguese labels.
type DefinitionInput struct {
	Meaning      string
	PartOfSpeech string
	Examples     []ExampleInput
}

// ExampleInput is a usage sentence of a definition.
type ExampleInput struct {
	Sentence    string
	Translation *string
}

// UpdateWordInput holds a partial update. Nil fields are left untouched;
// non-nil collections replace the stored ones.
type UpdateWordInput struct {
	Term        *string
	Language    *string
	Phonetic    *string
	Etymology   *string
	Definitions *[]DefinitionInput
	Synonyms    *[]string
	Antonyms    *[]string
}

// Validate checks all fields and collects all errors.
func (i *CreateWordInput) Validate() error {
	var errs []domain.FieldError

	errs = validateTerm(errs, i.Term)
	if i.Language != "" {
		errs = validateLanguage(errs, i.Language)
	}
	errs = validateOptionalText(errs, "phonetic", i.Phonetic, maxPhoneticLength)
	errs = validateOptionalText(errs, "etymology", i.Etymology, maxEtymologyLength)
	errs = validateDefinitions(errs, i.Definitions)
	errs = validateRelations(errs, "synonyms", i.Synonyms)
	errs = validateRelations(errs, "antonyms", i.Antonyms)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Validate checks the present fields and collects all errors.
func (i *UpdateWordInput) Validate() error {
	var errs []domain.FieldError

	if i.Term != nil {
		errs = validateTerm(errs, *i.Term)
	}
	if i.Language != nil {
		errs = validateLanguage(errs, *i.Language)
	}
	errs = validateOptionalText(errs, "phonetic", i.Phonetic, maxPhoneticLength)
	errs = validateOptionalText(errs, "etymology", i.Etymology, maxEtymologyLength)
	if i.Definitions != nil {
		errs = validateDefinitions(errs, *i.Definitions)
	}
	if i.Synonyms != nil {
		errs = validateRelations(errs, "synonyms", *i.Synonyms)
	}
	if i.Antonyms != nil {
		errs = validateRelations(errs, "antonyms", *i.Antonyms)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateTerm(errs []domain.FieldError, term string) []domain.FieldError {
	n := utf8.RuneCountInString(domain.NormalizeText(term))
	switch {
	case n == 0:
		errs = append(errs, domain.FieldError{Field: "term", Message: "required"})
	case n > maxTermLength:
		errs = append(errs, domain.FieldError{Field: "term", Message: fmt.Sprintf("too long (max %d)", maxTermLength)})
	}
	return errs
}

func validateLanguage(errs []domain.FieldError, lang string) []domain.FieldError {
	if !domain.Language(strings.ToLower(strings.TrimSpace(lang))).IsValid() {
		errs = append(errs, domain.FieldError{Field: "language", Message: "must be one of pt, en, es, fr"})
	}
	return errs
}

func validateOptionalText(errs []domain.FieldError, field string, v *string, limit int) []domain.FieldError {
	if v != nil && utf8.RuneCountInString(strings.TrimSpace(*v)) > limit {
		errs = append(errs, domain.FieldError{Field: field, Message: fmt.Sprintf("too long (max %d)", limit)})
	}
	return errs
}

func validateDefinitions(errs []domain.FieldError, defs []DefinitionInput) []domain.FieldError {
	if len(defs) > maxDefinitions {
		errs = append(errs, domain.FieldError{Field: "definitions", Message: fmt.Sprintf("too many (max %d)", maxDefinitions)})
	}

	for di, d := range defs {
		n := utf8.RuneCountInString(strings.TrimSpace(d.Meaning))
		switch {
		case n < minMeaningLength:
			errs = append(errs, domain.FieldError{
				Field:   fieldIndex("definitions", di, "meaning"),
				Message: fmt.Sprintf("too short (min %d)", minMeaningLength),
			})
		case n > maxMeaningLength:
			errs = append(errs, domain.FieldError{
				Field:   fieldIndex("definitions", di, "meaning"),
				Message: fmt.Sprintf("too long (max %d)", maxMeaningLength),
			})
		}

		if _, ok := domain.ParsePartOfSpeech(d.PartOfSpeech); !ok {
			errs = append(errs, domain.FieldError{
				Field:   fieldIndex("definitions", di, "part_of_speech"),
				Message: "invalid value",
			})
		}

		if len(d.Examples) > maxExamples {
			errs = append(errs, domain.FieldError{
				Field:   fieldIndex("definitions", di, "examples"),
				Message: fmt.Sprintf("too many (max %d)", maxExamples),
			})
		}
		for ei, ex := range d.Examples {
			field := fieldIndex2("definitions", di, "examples", ei)
			n := utf8.RuneCountInString(strings.TrimSpace(ex.Sentence))
			switch {
			case n < minSentenceLength:
				errs = append(errs, domain.FieldError{Field: field + ".sentence", Message: fmt.Sprintf("too short (min %d)", minSentenceLength)})
			case n > maxSentenceLength:
				errs = append(errs, domain.FieldError{Field: field + ".sentence", Message: fmt.Sprintf("too long (max %d)", maxSentenceLength)})
			}
			errs = validateOptionalText(errs, field+".translation", ex.Translation, maxTranslationLength)
		}
	}
	return errs
}

func validateRelations(errs []domain.FieldError, field string, terms []string) []domain.FieldError {
	if len(terms) > maxRelations {
		errs = append(errs, domain.FieldError{Field: field, Message: fmt.Sprintf("too many (max %d)", maxRelations)})
	}
	for i, t := range terms {
		n := utf8.RuneCountInString(strings.TrimSpace(t))
		switch {
		case n == 0:
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Message: "required"})
		case n > maxRelationLength:
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Message: fmt.Sprintf("too long (max %d)", maxRelationLength)})
		}
	}
	return errs
}

func fieldIndex(parent string, i int, child string) string {
	return fmt.Sprintf("%s[%d].%s", parent, i, child)
}

func fieldIndex2(parent string, i int, middle string, j int) string {
	return fmt.Sprintf("%s[%d].%s[%d]", parent, i, middle, j)
}
