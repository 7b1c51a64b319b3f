package dicio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/provider"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(DefaultPatterns())
	require.NoError(t, err)
	return e
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func page(title, body string) string {
	return "<html><head><meta charset=\"utf-8\"></head><body><h1>" + title + "</h1>" + body + "</body></html>"
}

func meaningsOf(t *testing.T, d *provider.DraftRecord) []provider.DraftMeaning {
	t.Helper()
	m, ok := d.Meanings.Get()
	require.True(t, ok, "meanings should be present")
	return m
}

// ---------------------------------------------------------------------------
// Title guard
// ---------------------------------------------------------------------------

func TestExtract_TitleMismatch_NotFound(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	body := readFixture(t, "monolithic.html")
	body = strings.Replace(body, "<h1>Significado de Bater</h1>", "<h1>Significado de Casa</h1>", 1)

	draft, err := e.Extract(strings.NewReader(body), "bater")

	assert.Nil(t, draft)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtract_NoTitle_NotFound(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	_, err := e.Extract(strings.NewReader("<html><body><p>verbo transitivo bater</p></body></html>"), "bater")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtract_TitleCheckIgnoresCase(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	draft, err := e.Extract(strings.NewReader(page("SIGNIFICADO DE AÇÃO", "<p>substantivo feminino Ato de agir.</p>")), "  Ação ")

	require.NoError(t, err)
	assert.Equal(t, "ação", draft.Word)
}

// ---------------------------------------------------------------------------
// Monolithic layout
// ---------------------------------------------------------------------------

func TestExtract_Monolithic_ClassifierCarryForward(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	html := page("Bater", "<p>verbo transitivo golpear com força; substantivo masculino ato de bater</p>")

	draft, err := e.Extract(strings.NewReader(html), "bater")
	require.NoError(t, err)

	meanings := meaningsOf(t, draft)
	require.Len(t, meanings, 2)

	assert.Equal(t, "golpear com força", meanings[0].Meaning)
	assert.Equal(t, domain.PartOfSpeechVerb, domain.NormalizePartOfSpeech(meanings[0].PartOfSpeech))
	assert.Equal(t, "verbo transitivo", meanings[0].PartOfSpeech)
	assert.False(t, meanings[0].Examples.IsPresent())

	assert.Equal(t, "ato de bater", meanings[1].Meaning)
	assert.Equal(t, domain.PartOfSpeechNoun, domain.NormalizePartOfSpeech(meanings[1].PartOfSpeech))
}

func TestExtract_Monolithic_FullPage(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	draft, err := e.Extract(strings.NewReader(readFixture(t, "monolithic.html")), "bater")
	require.NoError(t, err)

	assert.Equal(t, "bater", draft.Word)
	assert.Len(t, meaningsOf(t, draft), 2)

	synonyms, ok := draft.Synonyms.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"golpear", "surrar"}, synonyms)

	antonyms, ok := draft.Antonyms.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"acariciar"}, antonyms)

	etymology, ok := draft.Etymology.Get()
	require.True(t, ok)
	assert.Equal(t, "Do latim battuere.", etymology)

	phrases, ok := draft.FamousPhrases.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"Quem bate esquece, quem apanha não esquece jamais."}, phrases)
}

func TestExtract_Monolithic_ExamplesAndAnnotations(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	html := page("Casa", `<p>substantivo feminino [Arquitetura] Edificação destinada a moradia: casa de campo; A casa fica no alto; Comprou uma casa nova. Etimologia: do latim casa.</p>`)

	draft, err := e.Extract(strings.NewReader(html), "casa")
	require.NoError(t, err)

	meanings := meaningsOf(t, draft)
	require.Len(t, meanings, 1)
	assert.Equal(t, "Edificação destinada a moradia", meanings[0].Meaning)
	assert.Equal(t, "substantivo feminino", meanings[0].PartOfSpeech)

	examples, ok := meanings[0].Examples.Get()
	require.True(t, ok)
	require.Len(t, examples, 2)
	assert.Equal(t, "A casa fica no alto", examples[0].Sentence)
	assert.Equal(t, "Comprou uma casa nova.", examples[1].Sentence)

	etymology, ok := draft.Etymology.Get()
	require.True(t, ok)
	assert.Equal(t, "do latim casa.", etymology)
}

func TestExtract_Monolithic_DegradedFallback(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	draft, err := e.Extract(strings.NewReader(page("Oxente", "<p>interjeição [Regionalismo]</p>")), "oxente")
	require.NoError(t, err)

	meanings := meaningsOf(t, draft)
	require.Len(t, meanings, 1)
	assert.Equal(t, "interjeição", meanings[0].Meaning)
	assert.Equal(t, "phrase", meanings[0].PartOfSpeech)
}

func TestExtract_NoMeaningBlock_MeaningsAbsent(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	draft, err := e.Extract(strings.NewReader(page("Significado de Xpto", "<p>Nenhum resultado encontrado.</p>")), "xpto")
	require.NoError(t, err)

	assert.False(t, draft.Meanings.IsPresent())
	assert.False(t, draft.HasMeanings())
	assert.False(t, draft.Synonyms.IsPresent())
	assert.False(t, draft.Antonyms.IsPresent())
	assert.False(t, draft.Etymology.IsPresent())
	assert.False(t, draft.FamousPhrases.IsPresent())
}

// ---------------------------------------------------------------------------
// Sectioned layout
// ---------------------------------------------------------------------------

func TestExtract_Sectioned(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	draft, err := e.Extract(strings.NewReader(readFixture(t, "sectioned.html")), "correr")
	require.NoError(t, err)

	meanings := meaningsOf(t, draft)
	require.Len(t, meanings, 3)

	assert.Equal(t, "Deslocar-se com rapidez", meanings[0].Meaning)
	assert.Equal(t, "verbo intransitivo", meanings[0].PartOfSpeech)
	ex, ok := meanings[0].Examples.Get()
	require.True(t, ok)
	assert.Equal(t, "Ele corre todas as manhãs.", ex[0].Sentence)

	assert.Equal(t, "Passar depressa", meanings[1].Meaning)
	assert.Equal(t, "verbo intransitivo", meanings[1].PartOfSpeech)

	assert.Equal(t, "Percorrer", meanings[2].Meaning)
	assert.Equal(t, "verbo transitivo direto", meanings[2].PartOfSpeech)

	synonyms, ok := draft.Synonyms.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"andar"}, synonyms)
}

func TestExtract_Sectioned_EmptySegmentsDropped(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	html := page("Ir", `<div class="meaning">verbo pronominal verbo intransitivo Mover-se de um lugar para outro.</div>`)

	draft, err := e.Extract(strings.NewReader(html), "ir")
	require.NoError(t, err)

	meanings := meaningsOf(t, draft)
	require.Len(t, meanings, 1)
	assert.Equal(t, "Mover-se de um lugar para outro.", meanings[0].Meaning)
	assert.Equal(t, "verbo intransitivo", meanings[0].PartOfSpeech)
}

// ---------------------------------------------------------------------------
// Relations
// ---------------------------------------------------------------------------

func TestExtract_Relations_CaseSensitiveDedup(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	html := page("Cachorro", `<p>substantivo masculino Mamífero doméstico.</p>
<p class="sinonimos">Sinônimos: <a href="/cao/">cão</a>, <a href="/cao/">Cão</a>, <a href="/cao/">cão</a></p>`)

	draft, err := e.Extract(strings.NewReader(html), "cachorro")
	require.NoError(t, err)

	synonyms, ok := draft.Synonyms.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"cão", "Cão"}, synonyms)
}

func TestExtract_Relations_ClosestLabelWins(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	html := page("Alto", `<p>adjetivo De grande altura.</p>
<p>Sinônimo de alto: <a href="/elevado/">elevado</a>. Antônimo de alto: <a href="/baixo/">baixo</a>. Veja <a href="/sinonimo/">sinônimo de alto</a></p>`)

	draft, err := e.Extract(strings.NewReader(html), "alto")
	require.NoError(t, err)

	synonyms, _ := draft.Synonyms.Get()
	antonyms, _ := draft.Antonyms.Get()
	assert.Equal(t, []string{"elevado"}, synonyms)
	assert.Equal(t, []string{"baixo"}, antonyms)
}

func TestExtract_Relations_LabelInsideContainer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantSynonyms []string
		wantAntonyms []string
	}{
		{
			name:         "antonym label in synonym container",
			body:         `<p class="adicional sinonimos">Antônimos de bater: <a href="/acariciar/">acariciar</a></p>`,
			wantAntonyms: []string{"acariciar"},
		},
		{
			name:         "synonym label in antonym container",
			body:         `<p class="antonimos">Sinônimo de bater: <a href="/golpear/">golpear</a></p>`,
			wantSynonyms: []string{"golpear"},
		},
		{
			name: "both labels in one container",
			body: `<p class="sinonimos">Sinônimos: <a href="/golpear/">golpear</a>. ` +
				`Antônimos: <a href="/acariciar/">acariciar</a></p>`,
			wantSynonyms: []string{"golpear"},
			wantAntonyms: []string{"acariciar"},
		},
		{
			name:         "unlabeled container falls back to its kind",
			body:         `<p class="antonimos"><a href="/acariciar/">acariciar</a></p>`,
			wantAntonyms: []string{"acariciar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestExtractor(t)
			html := page("Bater", `<p>verbo transitivo Dar golpes em.</p>`+tt.body)

			draft, err := e.Extract(strings.NewReader(html), "bater")
			require.NoError(t, err)

			synonyms, _ := draft.Synonyms.Get()
			antonyms, _ := draft.Antonyms.Get()
			assert.ElementsMatch(t, tt.wantSynonyms, synonyms)
			assert.ElementsMatch(t, tt.wantAntonyms, antonyms)
		})
	}
}

// ---------------------------------------------------------------------------
// Pattern table
// ---------------------------------------------------------------------------

func TestNewExtractor_InvalidPatterns(t *testing.T) {
	t.Parallel()

	p := DefaultPatterns()
	p.Title = "h1[["
	_, err := NewExtractor(p)
	assert.Error(t, err)

	p = DefaultPatterns()
	p.ClassMarkers = nil
	_, err = NewExtractor(p)
	assert.Error(t, err)
}

func TestExtract_CustomClassMarkers(t *testing.T) {
	t.Parallel()

	p := DefaultPatterns()
	p.ClassMarkers = append(p.ClassMarkers, "locução adverbial")
	e, err := NewExtractor(p)
	require.NoError(t, err)

	draft, err := e.Extract(strings.NewReader(page("À toa", "<p>locução adverbial Sem rumo; Andava à toa.</p>")), "à toa")
	require.NoError(t, err)

	meanings := meaningsOf(t, draft)
	require.Len(t, meanings, 1)
	assert.Equal(t, "locução adverbial", meanings[0].PartOfSpeech)
	assert.Equal(t, "Sem rumo", meanings[0].Meaning)
	assert.Equal(t, domain.PartOfSpeechPhrase, domain.NormalizePartOfSpeech(meanings[0].PartOfSpeech))
}

func TestExtract_ReaderError(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	_, err := e.Extract(errReader{}, "bater")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
