package word

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/dicionario-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

const (
	definitionsByWordIDsSQL = `
SELECT id, word_id, meaning, part_of_speech, position
FROM definitions
WHERE word_id = ANY($1::uuid[])
ORDER BY word_id, position`

	examplesByWordIDsSQL = `
SELECT e.id, e.definition_id, e.sentence, e.translation, e.position
FROM examples e
JOIN definitions d ON d.id = e.definition_id
WHERE d.word_id = ANY($1::uuid[])
ORDER BY e.definition_id, e.position`

	synonymsByWordIDsSQL = `
SELECT word_id, synonym
FROM synonyms
WHERE word_id = ANY($1::uuid[])
ORDER BY word_id, position`

	antonymsByWordIDsSQL = `
SELECT word_id, antonym
FROM antonyms
WHERE word_id = ANY($1::uuid[])
ORDER BY word_id, position`
)

func scanWord(row pgx.Row) (domain.Word, error) {
	var (
		w        domain.Word
		language string
	)
	err := row.Scan(
		&w.ID, &w.Term, &language, &w.Phonetic, &w.Etymology,
		&w.AudioURL, &w.FamousPhrases, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return domain.Word{}, err
	}
	w.Language = domain.Language(language)
	if w.FamousPhrases == nil {
		w.FamousPhrases = []string{}
	}
	return w, nil
}

func scanWords(rows pgx.Rows) ([]domain.Word, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Word, error) {
		return scanWord(row)
	})
}

// loadChildren fills definitions, examples, synonyms and antonyms for words
// with one query per child table.
func loadChildren(ctx context.Context, q postgres.Querier, words []domain.Word) error {
	if len(words) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(words))
	index := make(map[uuid.UUID]int, len(words))
	for i := range words {
		ids[i] = words[i].ID
		index[words[i].ID] = i
		words[i].Definitions = []domain.Definition{}
		words[i].Synonyms = []string{}
		words[i].Antonyms = []string{}
	}

	defs, err := queryDefinitions(ctx, q, ids)
	if err != nil {
		return err
	}
	examples, err := queryExamples(ctx, q, ids)
	if err != nil {
		return err
	}

	byDefinition := make(map[uuid.UUID][]domain.Example, len(defs))
	for _, e := range examples {
		byDefinition[e.DefinitionID] = append(byDefinition[e.DefinitionID], e)
	}
	for _, d := range defs {
		d.Examples = byDefinition[d.ID]
		if d.Examples == nil {
			d.Examples = []domain.Example{}
		}
		i := index[d.WordID]
		words[i].Definitions = append(words[i].Definitions, d)
	}

	if err := queryRelations(ctx, q, synonymsByWordIDsSQL, ids, func(wordID uuid.UUID, term string) {
		i := index[wordID]
		words[i].Synonyms = append(words[i].Synonyms, term)
	}); err != nil {
		return fmt.Errorf("load synonyms: %w", err)
	}

	if err := queryRelations(ctx, q, antonymsByWordIDsSQL, ids, func(wordID uuid.UUID, term string) {
		i := index[wordID]
		words[i].Antonyms = append(words[i].Antonyms, term)
	}); err != nil {
		return fmt.Errorf("load antonyms: %w", err)
	}

	return nil
}

func queryDefinitions(ctx context.Context, q postgres.Querier, ids []uuid.UUID) ([]domain.Definition, error) {
	rows, err := q.Query(ctx, definitionsByWordIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	defs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Definition, error) {
		var (
			d   domain.Definition
			pos string
		)
		err := row.Scan(&d.ID, &d.WordID, &d.Meaning, &pos, &d.Position)
		d.PartOfSpeech = domain.PartOfSpeech(pos)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	return defs, nil
}

func queryExamples(ctx context.Context, q postgres.Querier, ids []uuid.UUID) ([]domain.Example, error) {
	rows, err := q.Query(ctx, examplesByWordIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("load examples: %w", err)
	}
	examples, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Example, error) {
		var e domain.Example
		err := row.Scan(&e.ID, &e.DefinitionID, &e.Sentence, &e.Translation, &e.Position)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("load examples: %w", err)
	}
	return examples, nil
}

func queryRelations(ctx context.Context, q postgres.Querier, query string, ids []uuid.UUID, add func(uuid.UUID, string)) error {
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			wordID uuid.UUID
			term   string
		)
		if err := rows.Scan(&wordID, &term); err != nil {
			return err
		}
		add(wordID, term)
	}
	return rows.Err()
}
