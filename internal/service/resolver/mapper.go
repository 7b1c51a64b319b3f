package resolver

import (
	"strings"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/provider"
)

// mapDraftToWord converts an extracted draft into a word ready for creation.
// Blank meanings and sentences are skipped; absent collections become empty.
func mapDraftToWord(term string, draft *provider.DraftRecord, lang domain.Language) *domain.Word {
	w := &domain.Word{
		Term:          term,
		Language:      lang,
		Etymology:     draft.Etymology.Ptr(),
		FamousPhrases: draft.FamousPhrases.OrElse([]string{}),
		Synonyms:      draft.Synonyms.OrElse([]string{}),
		Antonyms:      draft.Antonyms.OrElse([]string{}),
	}

	meanings := draft.Meanings.OrElse(nil)
	w.Definitions = make([]domain.Definition, 0, len(meanings))
	for _, m := range meanings {
		meaning := strings.TrimSpace(m.Meaning)
		if meaning == "" {
			continue
		}
		def := domain.Definition{
			Meaning:      meaning,
			PartOfSpeech: domain.NormalizePartOfSpeech(m.PartOfSpeech),
			Examples:     []domain.Example{},
		}
		for _, ex := range m.Examples.OrElse(nil) {
			sentence := strings.TrimSpace(ex.Sentence)
			if sentence == "" {
				continue
			}
			def.Examples = append(def.Examples, domain.Example{
				Sentence:    sentence,
				Translation: ex.Translation.Ptr(),
			})
		}
		w.Definitions = append(w.Definitions, def)
	}

	return w
}
