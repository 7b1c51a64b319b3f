package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/dicionario-backend/internal/config"
	"github.com/heartmarshall/dicionario-backend/internal/domain"
	"github.com/heartmarshall/dicionario-backend/internal/provider"
	"github.com/heartmarshall/dicionario-backend/pkg/optional"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockWordRepo struct {
	SearchFunc    func(ctx context.Context, query string, limit, offset int) ([]domain.Word, int, error)
	GetByTermFunc func(ctx context.Context, term string) (*domain.Word, error)
	CreateFunc    func(ctx context.Context, w *domain.Word) (*domain.Word, error)
}

func (m *mockWordRepo) Search(ctx context.Context, query string, limit, offset int) ([]domain.Word, int, error) {
	return m.SearchFunc(ctx, query, limit, offset)
}

func (m *mockWordRepo) GetByTerm(ctx context.Context, term string) (*domain.Word, error) {
	return m.GetByTermFunc(ctx, term)
}

func (m *mockWordRepo) Create(ctx context.Context, w *domain.Word) (*domain.Word, error) {
	return m.CreateFunc(ctx, w)
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockSource struct {
	FetchByTermFunc         func(ctx context.Context, term string) (*provider.DraftRecord, error)
	RediscoverViaSearchFunc func(ctx context.Context, query string) (*provider.DraftRecord, error)
}

func (m *mockSource) FetchByTerm(ctx context.Context, term string) (*provider.DraftRecord, error) {
	return m.FetchByTermFunc(ctx, term)
}

func (m *mockSource) RediscoverViaSearch(ctx context.Context, query string) (*provider.DraftRecord, error) {
	return m.RediscoverViaSearchFunc(ctx, query)
}

type stageCall struct{ stage, outcome string }

type mockMetrics struct {
	mu    sync.Mutex
	calls []stageCall
}

func (m *mockMetrics) RecordStage(stage, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, stageCall{stage, outcome})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestService(repo wordRepo, src source, m stageMetrics) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, &mockTxManager{}, src, m, config.DictionaryConfig{DefaultLanguage: "pt"})
}

func makeDraft(word string) *provider.DraftRecord {
	return &provider.DraftRecord{
		Word: word,
		Meanings: optional.Some([]provider.DraftMeaning{
			{Meaning: "sentido de " + word, PartOfSpeech: "verbo transitivo"},
		}),
	}
}

func notFound(term string) error {
	return fmt.Errorf("dicio: %s: %w", term, domain.ErrNotFound)
}

func emptySearch(context.Context, string, int, int) ([]domain.Word, int, error) {
	return []domain.Word{}, 0, nil
}

func absent(_ context.Context, term string) (*domain.Word, error) {
	return nil, notFound(term)
}

func created(_ context.Context, w *domain.Word) (*domain.Word, error) {
	out := *w
	out.ID = uuid.New()
	return &out, nil
}

func failOnCall(t *testing.T, name string) func(context.Context, string) (*provider.DraftRecord, error) {
	return func(context.Context, string) (*provider.DraftRecord, error) {
		t.Errorf("%s must not be called", name)
		return nil, nil
	}
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestService_Resolve_LocalHit(t *testing.T) {
	t.Parallel()

	var gotQuery string
	var gotLimit, gotOffset int
	repo := &mockWordRepo{
		SearchFunc: func(_ context.Context, query string, limit, offset int) ([]domain.Word, int, error) {
			gotQuery, gotLimit, gotOffset = query, limit, offset
			return []domain.Word{{ID: uuid.New(), Term: "cachorro"}}, 1, nil
		},
	}
	src := &mockSource{FetchByTermFunc: failOnCall(t, "FetchByTerm"), RediscoverViaSearchFunc: failOnCall(t, "RediscoverViaSearch")}
	m := &mockMetrics{}

	res, err := newTestService(repo, src, m).Resolve(context.Background(), "  Cachorro ", 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "cachorro", gotQuery)
	assert.Equal(t, DefaultLimit, gotLimit)
	assert.Zero(t, gotOffset)
	assert.Equal(t, []stageCall{{StageLocal, "found"}}, m.calls)
}

func TestService_Resolve_NormalizationReachesSameLocalMatch(t *testing.T) {
	t.Parallel()

	var queries []string
	repo := &mockWordRepo{
		SearchFunc: func(_ context.Context, query string, _, _ int) ([]domain.Word, int, error) {
			queries = append(queries, query)
			return []domain.Word{{Term: "cachorro"}}, 1, nil
		},
	}
	svc := newTestService(repo, &mockSource{}, nil)

	for _, q := range []string{"  Cachorro ", "cachorro", "CACHORRO"} {
		_, err := svc.Resolve(context.Background(), q, 10, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"cachorro", "cachorro", "cachorro"}, queries)
}

func TestService_Resolve_PaginationNeverFallsBack(t *testing.T) {
	t.Parallel()

	var gotOffset int
	repo := &mockWordRepo{
		SearchFunc: func(_ context.Context, _ string, _, offset int) ([]domain.Word, int, error) {
			gotOffset = offset
			return []domain.Word{}, 0, nil
		},
	}
	src := &mockSource{FetchByTermFunc: failOnCall(t, "FetchByTerm"), RediscoverViaSearchFunc: failOnCall(t, "RediscoverViaSearch")}

	res, err := newTestService(repo, src, nil).Resolve(context.Background(), "xyzNoMatch", 10, 2)

	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Zero(t, res.Total)
	assert.Equal(t, 10, gotOffset)
}

func TestService_Resolve_LimitClamping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit, want int
	}{
		{0, DefaultLimit},
		{-5, 1},
		{1, 1},
		{50, 50},
		{1000, MaxLimit},
	}
	for _, tt := range tests {
		var got int
		repo := &mockWordRepo{
			SearchFunc: func(_ context.Context, _ string, limit, _ int) ([]domain.Word, int, error) {
				got = limit
				return []domain.Word{{}}, 1, nil
			},
		}
		_, err := newTestService(repo, &mockSource{}, nil).Resolve(context.Background(), "casa", tt.limit, 1)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "limit %d", tt.limit)
	}
}

func TestService_Resolve_BlankQuery(t *testing.T) {
	t.Parallel()

	repo := &mockWordRepo{
		SearchFunc: func(context.Context, string, int, int) ([]domain.Word, int, error) {
			t.Error("Search must not be called for a blank query")
			return nil, 0, nil
		},
	}

	res, err := newTestService(repo, &mockSource{}, nil).Resolve(context.Background(), "   ", 10, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Zero(t, res.Total)
}

func TestService_Resolve_DirectFetchPersists(t *testing.T) {
	t.Parallel()

	var saved *domain.Word
	repo := &mockWordRepo{
		SearchFunc:    emptySearch,
		GetByTermFunc: absent,
		CreateFunc: func(ctx context.Context, w *domain.Word) (*domain.Word, error) {
			saved = w
			return created(ctx, w)
		},
	}
	src := &mockSource{
		FetchByTermFunc: func(_ context.Context, term string) (*provider.DraftRecord, error) {
			return makeDraft(term), nil
		},
		RediscoverViaSearchFunc: failOnCall(t, "RediscoverViaSearch"),
	}
	m := &mockMetrics{}

	res, err := newTestService(repo, src, m).Resolve(context.Background(), "Bater", 10, 1)

	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "bater", res.Results[0].Term)
	require.NotNil(t, saved)
	assert.Equal(t, domain.LanguagePortuguese, saved.Language)
	assert.Equal(t, domain.PartOfSpeechVerb, saved.Definitions[0].PartOfSpeech)
	assert.Equal(t, []stageCall{{StageLocal, "not_found"}, {StageDirect, "found"}}, m.calls)
}

func TestService_Resolve_VariationWinsBeforeRediscovery(t *testing.T) {
	t.Parallel()

	var fetched []string
	repo := &mockWordRepo{SearchFunc: emptySearch, GetByTermFunc: absent, CreateFunc: created}
	src := &mockSource{
		FetchByTermFunc: func(_ context.Context, term string) (*provider.DraftRecord, error) {
			fetched = append(fetched, term)
			if term == "correr" {
				return makeDraft(term), nil
			}
			return nil, notFound(term)
		},
		RediscoverViaSearchFunc: failOnCall(t, "RediscoverViaSearch"),
	}
	m := &mockMetrics{}

	res, err := newTestService(repo, src, m).Resolve(context.Background(), "corro", 10, 1)

	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "correr", res.Results[0].Term)
	assert.Equal(t, []string{"corro", "correr"}, fetched)
	assert.Equal(t, []stageCall{
		{StageLocal, "not_found"},
		{StageDirect, "not_found"},
		{StageVariation, "found"},
	}, m.calls)
}

func TestService_Resolve_RediscoveryAfterVariationsFail(t *testing.T) {
	t.Parallel()

	var fetched []string
	repo := &mockWordRepo{SearchFunc: emptySearch, GetByTermFunc: absent, CreateFunc: created}
	src := &mockSource{
		FetchByTermFunc: func(_ context.Context, term string) (*provider.DraftRecord, error) {
			fetched = append(fetched, term)
			return nil, notFound(term)
		},
		RediscoverViaSearchFunc: func(_ context.Context, query string) (*provider.DraftRecord, error) {
			assert.Equal(t, "lua", query)
			return makeDraft("luar"), nil
		},
	}

	res, err := newTestService(repo, src, nil).Resolve(context.Background(), "lua", 10, 1)

	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "luar", res.Results[0].Term)
	assert.Equal(t, append([]string{"lua"}, Variations("lua")...), fetched)
}

func TestService_Resolve_TerminalFailureIsEmptyResult(t *testing.T) {
	t.Parallel()

	repo := &mockWordRepo{SearchFunc: emptySearch}
	src := &mockSource{
		FetchByTermFunc: func(_ context.Context, term string) (*provider.DraftRecord, error) {
			return nil, fmt.Errorf("dicio: %w", domain.ErrSourceUnavailable)
		},
		RediscoverViaSearchFunc: func(_ context.Context, query string) (*provider.DraftRecord, error) {
			return nil, notFound(query)
		},
	}
	m := &mockMetrics{}

	res, err := newTestService(repo, src, m).Resolve(context.Background(), "xyz", 10, 1)

	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Zero(t, res.Total)
	assert.Equal(t, stageCall{StageDirect, "unavailable"}, m.calls[1])
	assert.Equal(t, stageCall{StageSearch, "not_found"}, m.calls[len(m.calls)-1])
}

func TestService_Resolve_DraftWithoutMeaningsIsNotFound(t *testing.T) {
	t.Parallel()

	repo := &mockWordRepo{
		SearchFunc: emptySearch,
		CreateFunc: func(context.Context, *domain.Word) (*domain.Word, error) {
			t.Error("Create must not be called for an empty draft")
			return nil, nil
		},
	}
	src := &mockSource{
		FetchByTermFunc: func(_ context.Context, term string) (*provider.DraftRecord, error) {
			return &provider.DraftRecord{Word: term}, nil
		},
		RediscoverViaSearchFunc: func(_ context.Context, query string) (*provider.DraftRecord, error) {
			return &provider.DraftRecord{Word: query, Meanings: optional.Some([]provider.DraftMeaning{})}, nil
		},
	}

	res, err := newTestService(repo, src, nil).Resolve(context.Background(), "vazio", 10, 1)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestService_Resolve_StorageErrorSurfaces(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection refused")
	repo := &mockWordRepo{
		SearchFunc: func(context.Context, string, int, int) ([]domain.Word, int, error) { return nil, 0, dbErr },
	}

	_, err := newTestService(repo, &mockSource{}, nil).Resolve(context.Background(), "casa", 10, 1)
	assert.ErrorIs(t, err, dbErr)
}

func TestService_Resolve_CanceledContextStopsFallback(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	repo := &mockWordRepo{SearchFunc: emptySearch}
	src := &mockSource{
		FetchByTermFunc: func(ctx context.Context, term string) (*provider.DraftRecord, error) {
			calls++
			cancel()
			return nil, notFound(term)
		},
		RediscoverViaSearchFunc: failOnCall(t, "RediscoverViaSearch"),
	}

	_, err := newTestService(repo, src, nil).Resolve(ctx, "casa", 10, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

// ---------------------------------------------------------------------------
// FetchAndPersist / Ensure
// ---------------------------------------------------------------------------

func TestService_FetchAndPersist_ExistingWordIsNotRefetched(t *testing.T) {
	t.Parallel()

	existing := &domain.Word{ID: uuid.New(), Term: "casa"}
	repo := &mockWordRepo{
		GetByTermFunc: func(_ context.Context, term string) (*domain.Word, error) {
			assert.Equal(t, "casa", term)
			return existing, nil
		},
	}
	src := &mockSource{FetchByTermFunc: failOnCall(t, "FetchByTerm")}

	got, err := newTestService(repo, src, nil).Ensure(context.Background(), " Casa")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
}

func TestService_FetchAndPersist_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockWordRepo{GetByTermFunc: absent}
	src := &mockSource{
		FetchByTermFunc: func(_ context.Context, term string) (*provider.DraftRecord, error) {
			return nil, notFound(term)
		},
	}

	_, err := newTestService(repo, src, nil).FetchAndPersist(context.Background(), "xyz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_FetchAndPersist_BlankTerm(t *testing.T) {
	t.Parallel()

	_, err := newTestService(&mockWordRepo{}, &mockSource{}, nil).FetchAndPersist(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_FetchAndPersist_ConflictReadsWinner(t *testing.T) {
	t.Parallel()

	winner := &domain.Word{ID: uuid.New(), Term: "casa"}
	lookups := 0
	repo := &mockWordRepo{
		GetByTermFunc: func(_ context.Context, term string) (*domain.Word, error) {
			lookups++
			if lookups < 3 {
				return nil, notFound(term)
			}
			return winner, nil
		},
		CreateFunc: func(context.Context, *domain.Word) (*domain.Word, error) {
			return nil, fmt.Errorf("word casa: %w", domain.ErrAlreadyExists)
		},
	}
	src := &mockSource{
		FetchByTermFunc: func(_ context.Context, term string) (*provider.DraftRecord, error) {
			return makeDraft(term), nil
		},
	}

	got, err := newTestService(repo, src, nil).FetchAndPersist(context.Background(), "casa")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
}

func TestService_FetchAndPersist_CreateErrorSurfaces(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("disk full")
	repo := &mockWordRepo{
		GetByTermFunc: absent,
		CreateFunc:    func(context.Context, *domain.Word) (*domain.Word, error) { return nil, dbErr },
	}
	src := &mockSource{
		FetchByTermFunc: func(_ context.Context, term string) (*provider.DraftRecord, error) {
			return makeDraft(term), nil
		},
	}

	_, err := newTestService(repo, src, nil).FetchAndPersist(context.Background(), "casa")
	assert.ErrorIs(t, err, dbErr)
}

// memWordRepo is an in-memory store enforcing term uniqueness like the
// database does.
type memWordRepo struct {
	mu    sync.Mutex
	words map[string]domain.Word
}

func (r *memWordRepo) Search(context.Context, string, int, int) ([]domain.Word, int, error) {
	return []domain.Word{}, 0, nil
}

func (r *memWordRepo) GetByTerm(_ context.Context, term string) (*domain.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.words[term]
	if !ok {
		return nil, notFound(term)
	}
	return &w, nil
}

func (r *memWordRepo) Create(_ context.Context, w *domain.Word) (*domain.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.words[w.Term]; ok {
		return nil, fmt.Errorf("word %s: %w", w.Term, domain.ErrAlreadyExists)
	}
	out := *w
	out.ID = uuid.New()
	r.words[w.Term] = out
	return &out, nil
}

func TestService_FetchAndPersist_ConcurrentCallsShareOneRecord(t *testing.T) {
	t.Parallel()

	repo := &memWordRepo{words: map[string]domain.Word{}}
	var fetches atomic.Int32
	src := &mockSource{
		FetchByTermFunc: func(_ context.Context, term string) (*provider.DraftRecord, error) {
			fetches.Add(1)
			time.Sleep(5 * time.Millisecond)
			return makeDraft(term), nil
		},
	}
	svc := newTestService(repo, src, nil)

	const n = 10
	ids := make([]uuid.UUID, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := svc.FetchAndPersist(context.Background(), "casa")
			if assert.NoError(t, err) {
				ids[i] = w.ID
			}
		}()
	}
	wg.Wait()

	assert.Len(t, repo.words, 1)
	for _, id := range ids {
		assert.Equal(t, repo.words["casa"].ID, id)
	}
	assert.GreaterOrEqual(t, fetches.Load(), int32(1))
}

func TestNewService_InvalidDefaultLanguageFallsBack(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), &mockWordRepo{}, &mockTxManager{}, &mockSource{}, nil,
		config.DictionaryConfig{DefaultLanguage: "xx"})
	assert.Equal(t, domain.LanguagePortuguese, svc.defaultLanguage)
}
