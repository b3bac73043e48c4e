package search

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/promptsearch/core"
	"github.com/poiesic/promptsearch/rerank"
	"github.com/poiesic/promptsearch/storage"
	"github.com/poiesic/promptsearch/storage/badger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus() []*core.Prompt {
	return []*core.Prompt{
		{
			Id:          "sql-tuning",
			Title:       "SQL Query Tuning",
			Description: "Optimize slow database queries",
			Content:     "Given a slow query, suggest index changes to improve performance.",
			Category:    core.CategoryCoding,
			Tags:        []string{"database", "performance"},
		},
		{
			Id:          "blog-outline",
			Title:       "Blog Outline Generator",
			Description: "Outline a blog post",
			Content:     "Create a structured outline for a blog post about the given topic.",
			Category:    core.CategoryWriting,
			Tags:        []string{"blog", "outline"},
		},
		{
			Id:          "unit-tests",
			Title:       "Unit Test Writer",
			Description: "Generate unit tests for code",
			Content:     "Write table driven unit tests covering edge cases for the given function.",
			Category:    core.CategoryCoding,
			Tags:        []string{"testing", "quality"},
		},
		{
			Id:          "cold-email",
			Title:       "Cold Email Drafter",
			Description: "Draft a concise cold outreach email",
			Content:     "Write a short cold email introducing the given product to a prospect.",
			Category:    core.CategoryMarketing,
			Tags:        []string{"email", "sales"},
		},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := NewEngine(storage.NewStaticSource(testCorpus()...), opts...)
	require.NoError(t, err)
	return engine
}

func TestNewEngine(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		engine := newTestEngine(t)
		assert.NotNil(t, engine)
	})

	t.Run("nil source", func(t *testing.T) {
		_, err := NewEngine(nil)
		assert.Equal(t, ErrSourceRequired, err)
	})
}

func TestSearchPrompts(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("relevant prompt ranks first", func(t *testing.T) {
		results, err := engine.SearchPrompts(ctx, "slow database query", Options{})
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "sql-tuning", results[0].Prompt.Id)
	})

	t.Run("empty query yields empty results", func(t *testing.T) {
		results, err := engine.SearchPrompts(ctx, "", Options{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("punctuation-only query yields empty results", func(t *testing.T) {
		results, err := engine.SearchPrompts(ctx, "?!...", Options{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		_, err := engine.SearchPrompts(ctx, "query", Options{Limit: -1})
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("limit slices results", func(t *testing.T) {
		// "given" appears in all four prompts.
		results, err := engine.SearchPrompts(ctx, "given", Options{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		first, err := engine.SearchPrompts(ctx, "write tests for the email", Options{})
		require.NoError(t, err)
		second, err := engine.SearchPrompts(ctx, "write tests for the email", Options{})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestSearchPromptsSynonymExpansion(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	// The default table expands "email" with "mail" and "message"; more
	// importantly "sell" expands to "sales"/"pitch" which hits the
	// cold-email tags even though "sell" itself appears nowhere.
	results, err := engine.SearchPrompts(ctx, "sell", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "cold-email", results[0].Prompt.Id)

	t.Run("disabled expansion finds nothing", func(t *testing.T) {
		results, err := engine.SearchPrompts(ctx, "sell", Options{DisableSynonyms: true})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSearchPromptsFilterBeforeLimit(t *testing.T) {
	// Ten prompts, only two in the wanted category, and those two are
	// the weakest raw matches. With limit 1 the filter must still win.
	prompts := make([]*core.Prompt, 0, 10)
	for i := 0; i < 8; i++ {
		prompts = append(prompts, &core.Prompt{
			Id:       fmt.Sprintf("noise%d", i),
			Title:    "target target target",
			Content:  "target target target target",
			Category: core.CategoryWriting,
		})
	}
	for i := 0; i < 2; i++ {
		prompts = append(prompts, &core.Prompt{
			Id:       fmt.Sprintf("wanted%d", i),
			Title:    "target",
			Content:  "this prompt mentions target just once among many other words here",
			Category: core.CategoryCoding,
		})
	}

	engine, err := NewEngine(storage.NewStaticSource(prompts...))
	require.NoError(t, err)

	results, err := engine.SearchPrompts(context.Background(), "target", Options{
		Limit:    1,
		Category: core.CategoryCoding,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, []string{"wanted0", "wanted1"}, results[0].Prompt.Id,
		"a filtered-out candidate must never occupy a limited slot")
}

func TestSearchPromptsTagFilter(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	results, err := engine.SearchPrompts(ctx, "given", Options{Tags: []string{"testing", "blog"}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Contains(t, []string{"unit-tests", "blog-outline"}, r.Prompt.Id)
	}
}

func TestSearchPromptsHighlighting(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.SearchPrompts(context.Background(), "generator", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "blog-outline", results[0].Prompt.Id)
	assert.Contains(t, results[0].MatchedFields, "title")
	assert.NotContains(t, results[0].MatchedFields, "content")
}

func TestSearchPromptsWithReranker(t *testing.T) {
	reranker, err := rerank.NewReranker()
	require.NoError(t, err)
	engine := newTestEngine(t, WithReranker(reranker))

	results, err := engine.SearchPrompts(context.Background(), "slow database query", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "sql-tuning", results[0].Prompt.Id)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestQuickSearch(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("returns bare prompts", func(t *testing.T) {
		prompts, err := engine.QuickSearch(ctx, "blog outline", 0)
		require.NoError(t, err)
		require.NotEmpty(t, prompts)
		assert.Equal(t, "blog-outline", prompts[0].Id)
	})

	t.Run("no synonym expansion", func(t *testing.T) {
		// "sell" only matches via the synonym table, which quick search skips.
		prompts, err := engine.QuickSearch(ctx, "sell", 0)
		require.NoError(t, err)
		assert.Empty(t, prompts)
	})

	t.Run("limit applies", func(t *testing.T) {
		prompts, err := engine.QuickSearch(ctx, "given", 2)
		require.NoError(t, err)
		assert.Len(t, prompts, 2)
	})

	t.Run("empty query", func(t *testing.T) {
		prompts, err := engine.QuickSearch(ctx, "", 0)
		require.NoError(t, err)
		assert.Empty(t, prompts)
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		_, err := engine.QuickSearch(ctx, "query", -3)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})
}

func TestResetIndex(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	_, err = repo.AddPrompts(ctx, &core.Prompt{
		Id:       "original",
		Title:    "Original Prompt",
		Content:  "Nothing remarkable here.",
		Category: core.CategoryWriting,
	})
	require.NoError(t, err)

	engine, err := NewEngine(repo)
	require.NoError(t, err)

	// Build the index, then grow the corpus with a previously absent term.
	results, err := engine.SearchPrompts(ctx, "kubernetes", Options{})
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = repo.AddPrompts(ctx, &core.Prompt{
		Id:       "k8s",
		Title:    "Kubernetes Manifest Reviewer",
		Content:  "Review the given kubernetes manifest for misconfigurations.",
		Category: core.CategoryCoding,
	})
	require.NoError(t, err)

	t.Run("stale cache until reset", func(t *testing.T) {
		results, err := engine.SearchPrompts(ctx, "kubernetes", Options{})
		require.NoError(t, err)
		assert.Empty(t, results, "the engine must not observe corpus mutations")
	})

	t.Run("reset picks up the new corpus", func(t *testing.T) {
		engine.ResetIndex()
		results, err := engine.SearchPrompts(ctx, "kubernetes", Options{})
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "k8s", results[0].Prompt.Id)
	})
}

func TestConcurrentFirstQueries(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := engine.SearchPrompts(ctx, "slow database query", Options{})
			if err != nil {
				errs <- err
				return
			}
			if len(results) == 0 || results[0].Prompt.Id != "sql-tuning" {
				errs <- fmt.Errorf("unexpected results under concurrency")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// gatedSource blocks its first ListPrompts call until released, so a test
// can hold an index build in flight while mutating the corpus.
type gatedSource struct {
	mu      sync.Mutex
	prompts []*core.Prompt
	calls   int
	started chan struct{}
	release chan struct{}
}

func newGatedSource(prompts []*core.Prompt) *gatedSource {
	return &gatedSource{
		prompts: prompts,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *gatedSource) add(prompt *core.Prompt) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
}

func (s *gatedSource) ListPrompts(_ context.Context) ([]*core.Prompt, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	out := make([]*core.Prompt, len(s.prompts))
	copy(out, s.prompts)
	s.mu.Unlock()

	if first {
		close(s.started)
		<-s.release
	}
	return out, nil
}

func TestResetIndexDuringBuild(t *testing.T) {
	// A reset must invalidate a build that is still in flight: queries
	// arriving after the reset may not join it, and its snapshot may not
	// land in the cache once it finishes.
	source := newGatedSource(testCorpus())
	engine, err := NewEngine(source)
	require.NoError(t, err)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = engine.SearchPrompts(ctx, "slow database query", Options{})
	}()
	<-source.started

	source.add(&core.Prompt{
		Id:       "k8s-debug",
		Title:    "Kubernetes Pod Debugger",
		Content:  "Diagnose why a kubernetes pod is crash looping.",
		Category: core.CategoryCoding,
	})
	engine.ResetIndex()

	// Post-reset query must see the new prompt, not the stale build.
	results, err := engine.SearchPrompts(ctx, "kubernetes", Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "k8s-debug", results[0].Prompt.Id)

	// Let the stale build finish; it must not clobber the fresh cache.
	close(source.release)
	<-done

	results, err = engine.SearchPrompts(ctx, "kubernetes", Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "k8s-debug", results[0].Prompt.Id)
}

type recordingMonitor struct {
	mu        sync.Mutex
	started   string
	tokens    []string
	expanded  []string
	lexical   int
	filtered  int
	finished  int
	elapsed   time.Duration
}

func (r *recordingMonitor) Start(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = query
}

func (r *recordingMonitor) AfterTokenize(tokens []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = tokens
}

func (r *recordingMonitor) AfterExpansion(tokens []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expanded = tokens
}

func (r *recordingMonitor) AfterLexicalSearch(candidates int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lexical = candidates
}

func (r *recordingMonitor) AfterRerank(int) {}

func (r *recordingMonitor) AfterFilter(remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filtered = remaining
}

func (r *recordingMonitor) Finish(results []*core.SearchResult, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = len(results)
	r.elapsed = elapsed
}

func TestSearchPromptsWithMonitor(t *testing.T) {
	engine := newTestEngine(t)
	monitor := &recordingMonitor{}

	results, err := engine.SearchPromptsWithMonitor(context.Background(), "database performance", Options{}, monitor)
	require.NoError(t, err)

	assert.Equal(t, "database performance", monitor.started)
	assert.Equal(t, []string{"database", "performance"}, monitor.tokens)
	assert.GreaterOrEqual(t, len(monitor.expanded), len(monitor.tokens))
	assert.Equal(t, len(results), monitor.finished)
	assert.Greater(t, monitor.lexical, 0)
}

func TestMetricsMonitor(t *testing.T) {
	reg := prometheus.NewRegistry()
	monitor, err := NewMetricsMonitor(reg)
	require.NoError(t, err)

	engine := newTestEngine(t)
	_, err = engine.SearchPromptsWithMonitor(context.Background(), "database", Options{}, monitor)
	require.NoError(t, err)
	_, err = engine.SearchPromptsWithMonitor(context.Background(), "zzzz", Options{}, monitor)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["promptsearch_queries_total"])
	assert.True(t, names["promptsearch_query_duration_seconds"])

	t.Run("double registration fails", func(t *testing.T) {
		_, err := NewMetricsMonitor(reg)
		assert.Error(t, err)
	})
}
