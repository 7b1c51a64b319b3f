package word

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/dicionario-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts the word with its definitions, examples, synonyms and
// antonyms in one transaction. IDs and positions are assigned here; a
// duplicate term yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, w *domain.Word) (*domain.Word, error) {
	created := *w
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.FamousPhrases == nil {
		created.FamousPhrases = []string{}
	}
	created.Definitions = prepareDefinitions(created.ID, w.Definitions)
	created.Synonyms = nonNil(w.Synonyms)
	created.Antonyms = nonNil(w.Antonyms)

	err := r.txm.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.db)

		query, args, err := postgres.Builder.
			Insert("words").
			Columns("id", "term", "language", "phonetic", "etymology", "audio_url", "famous_phrases", "created_at", "updated_at").
			Values(created.ID, created.Term, string(created.Language), created.Phonetic, created.Etymology,
				created.AudioURL, created.FamousPhrases, created.CreatedAt, created.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert word: %w", err)
		}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			return postgres.MapError(err, "word", created.Term)
		}

		return insertChildren(ctx, q, &created, true, true, true)
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Update applies the present fields of upd. Present collections replace the
// stored ones wholesale. Returns the word as stored after the update.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, upd domain.WordUpdate) (*domain.Word, error) {
	var updated *domain.Word

	err := r.txm.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.db)

		stmt := postgres.Builder.Update("words").
			Set("updated_at", time.Now().UTC()).
			Where(sq.Eq{"id": id})
		if upd.Term != nil {
			stmt = stmt.Set("term", *upd.Term)
		}
		if upd.Language != nil {
			stmt = stmt.Set("language", string(*upd.Language))
		}
		if upd.Phonetic != nil {
			stmt = stmt.Set("phonetic", *upd.Phonetic)
		}
		if upd.Etymology != nil {
			stmt = stmt.Set("etymology", *upd.Etymology)
		}

		query, args, err := stmt.ToSql()
		if err != nil {
			return fmt.Errorf("build update word: %w", err)
		}
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return postgres.MapError(err, "word", id.String())
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("word %s: %w", id, domain.ErrNotFound)
		}

		w := domain.Word{ID: id}
		if upd.Definitions != nil {
			if _, err := q.Exec(ctx, `DELETE FROM definitions WHERE word_id = $1`, id); err != nil {
				return fmt.Errorf("clear definitions: %w", err)
			}
			w.Definitions = prepareDefinitions(id, *upd.Definitions)
		}
		if upd.Synonyms != nil {
			if _, err := q.Exec(ctx, `DELETE FROM synonyms WHERE word_id = $1`, id); err != nil {
				return fmt.Errorf("clear synonyms: %w", err)
			}
			w.Synonyms = *upd.Synonyms
		}
		if upd.Antonyms != nil {
			if _, err := q.Exec(ctx, `DELETE FROM antonyms WHERE word_id = $1`, id); err != nil {
				return fmt.Errorf("clear antonyms: %w", err)
			}
			w.Antonyms = *upd.Antonyms
		}
		if err := insertChildren(ctx, q, &w, upd.Definitions != nil, upd.Synonyms != nil, upd.Antonyms != nil); err != nil {
			return err
		}

		updated, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the word; children go with it via ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM words WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "word", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetAudioURL caches a synthesized pronunciation on the word.
func (r *Repo) SetAudioURL(ctx context.Context, id uuid.UUID, url string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE words SET audio_url = $2, updated_at = now() WHERE id = $1`, id, url)
	if err != nil {
		return postgres.MapError(err, "word", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// prepareDefinitions copies defs assigning IDs, owner and positions in
// slice order.
func prepareDefinitions(wordID uuid.UUID, defs []domain.Definition) []domain.Definition {
	out := make([]domain.Definition, len(defs))
	for i, d := range defs {
		d.ID = uuid.New()
		d.WordID = wordID
		d.Position = i
		examples := make([]domain.Example, len(d.Examples))
		for j, e := range d.Examples {
			e.ID = uuid.New()
			e.DefinitionID = d.ID
			e.Position = j
			examples[j] = e
		}
		d.Examples = examples
		out[i] = d
	}
	return out
}

func insertChildren(ctx context.Context, q postgres.Querier, w *domain.Word, defs, syns, ants bool) error {
	if defs && len(w.Definitions) > 0 {
		defInsert := postgres.Builder.Insert("definitions").
			Columns("id", "word_id", "meaning", "part_of_speech", "position")
		exInsert := postgres.Builder.Insert("examples").
			Columns("id", "definition_id", "sentence", "translation", "position")
		hasExamples := false

		for _, d := range w.Definitions {
			defInsert = defInsert.Values(d.ID, d.WordID, d.Meaning, string(d.PartOfSpeech), d.Position)
			for _, e := range d.Examples {
				exInsert = exInsert.Values(e.ID, e.DefinitionID, e.Sentence, e.Translation, e.Position)
				hasExamples = true
			}
		}

		if err := execInsert(ctx, q, defInsert, "definitions"); err != nil {
			return err
		}
		if hasExamples {
			if err := execInsert(ctx, q, exInsert, "examples"); err != nil {
				return err
			}
		}
	}

	if syns && len(w.Synonyms) > 0 {
		ins := postgres.Builder.Insert("synonyms").Columns("word_id", "synonym", "position")
		for i, s := range w.Synonyms {
			ins = ins.Values(w.ID, s, i)
		}
		if err := execInsert(ctx, q, ins, "synonyms"); err != nil {
			return err
		}
	}

	if ants && len(w.Antonyms) > 0 {
		ins := postgres.Builder.Insert("antonyms").Columns("word_id", "antonym", "position")
		for i, a := range w.Antonyms {
			ins = ins.Values(w.ID, a, i)
		}
		if err := execInsert(ctx, q, ins, "antonyms"); err != nil {
			return err
		}
	}

	return nil
}

func execInsert(ctx context.Context, q postgres.Querier, ins sq.InsertBuilder, table string) error {
	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", table, err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
