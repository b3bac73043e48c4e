package search

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/promptsearch/analysis"
	"github.com/poiesic/promptsearch/core"
	"github.com/poiesic/promptsearch/index"
	"github.com/poiesic/promptsearch/rerank"
	"github.com/poiesic/promptsearch/storage"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultLimit is the result-page size when a caller passes 0.
	DefaultLimit = 20

	// DefaultQuickLimit is the autocomplete page size when a caller passes 0.
	DefaultQuickLimit = 5
)

// Options control a single search call. The zero value means: default
// limit, no category filter, no tag filter, synonym expansion on.
type Options struct {
	// Limit caps the number of returned results. 0 selects DefaultLimit;
	// negative values are rejected with ErrInvalidLimit.
	Limit int

	// Category keeps only prompts with this exact category ("" keeps all).
	Category core.Category

	// Tags keeps prompts carrying at least one of these tags (match-any;
	// empty keeps all).
	Tags []string

	// DisableSynonyms skips query expansion. Used by the autocomplete
	// path for lower latency and stricter precision.
	DisableSynonyms bool
}

// Engine composes the tokenizer, expander, BM25 index, and optional
// reranker behind the public query API.
type Engine struct {
	source   storage.PromptSource
	expander *analysis.Expander
	reranker *rerank.Reranker
	params   index.Params
	logger   *slog.Logger

	mu         sync.RWMutex
	cached     *snapshot
	generation uint64
	group      singleflight.Group
}

// snapshot pairs a built index with the corpus it was built from.
type snapshot struct {
	index   *index.Index
	prompts map[string]*core.Prompt
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithExpander replaces the default synonym expander.
func WithExpander(expander *analysis.Expander) Option {
	return func(e *Engine) error {
		if expander != nil {
			e.expander = expander
		}
		return nil
	}
}

// WithReranker enables the semantic reranking pass.
func WithReranker(reranker *rerank.Reranker) Option {
	return func(e *Engine) error {
		e.reranker = reranker
		return nil
	}
}

// WithIndexParams overrides the BM25 constants.
// Default is index.DefaultParams.
func WithIndexParams(params index.Params) Option {
	return func(e *Engine) error {
		e.params = params
		return nil
	}
}

// NewEngine creates a search engine over the given corpus source.
func NewEngine(source storage.PromptSource, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}

	e := &Engine{
		source:   source,
		expander: analysis.NewExpander(),
		params:   index.DefaultParams,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SearchPrompts runs the full ranking pipeline for a query.
func (e *Engine) SearchPrompts(ctx context.Context, query string, opts Options) ([]*core.SearchResult, error) {
	return e.SearchPromptsWithMonitor(ctx, query, opts, nil)
}

// SearchPromptsWithMonitor runs the full ranking pipeline with
// per-stage monitoring callbacks.
func (e *Engine) SearchPromptsWithMonitor(ctx context.Context, query string, opts Options, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	start := time.Now()
	monitor.Start(query)

	// 1. Tokenize, and expand unless the caller opted out.
	tokens := analysis.Tokenize(query)
	monitor.AfterTokenize(tokens)
	if len(tokens) == 0 {
		results := []*core.SearchResult{}
		monitor.Finish(results, time.Since(start))
		return results, nil
	}
	if !opts.DisableSynonyms {
		tokens = e.expander.Expand(tokens)
	}
	monitor.AfterExpansion(tokens)

	// 2. Full, untruncated lexical pass over the cached index.
	snap, err := e.snapshot(ctx)
	if err != nil {
		e.logger.Error("error building search index", "err", err)
		return nil, err
	}
	hits := snap.index.Search(tokens)
	monitor.AfterLexicalSearch(len(hits))

	// 3. Optional semantic rerank over the whole candidate set.
	if e.reranker != nil && len(hits) > 0 {
		hits = e.rerankHits(ctx, query, snap, hits)
		monitor.AfterRerank(len(hits))
	}

	// 4. Filter before slicing: a filtered-out candidate must never take
	// a limited slot from a qualifying lower-ranked prompt.
	filtered := hits[:0:0]
	for _, hit := range hits {
		prompt := snap.prompts[hit.Id]
		if prompt == nil {
			continue
		}
		if opts.Category != "" && prompt.Category != opts.Category {
			continue
		}
		if len(opts.Tags) > 0 && !matchesAnyTag(prompt.Tags, opts.Tags) {
			continue
		}
		filtered = append(filtered, hit)
	}
	monitor.AfterFilter(len(filtered))

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	// 5. Highlight only the final page.
	results := make([]*core.SearchResult, 0, len(filtered))
	for _, hit := range filtered {
		results = append(results, &core.SearchResult{
			Prompt:        snap.prompts[hit.Id],
			Score:         hit.Score,
			MatchedFields: snap.index.MatchedFields(hit.Id, tokens),
		})
	}
	monitor.Finish(results, time.Since(start))
	return results, nil
}

// QuickSearch is the low-latency autocomplete path: no synonym
// expansion, no filters, no highlighting, bare prompts.
func (e *Engine) QuickSearch(ctx context.Context, query string, limit int) ([]*core.Prompt, error) {
	if limit == 0 {
		limit = DefaultQuickLimit
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	tokens := analysis.Tokenize(query)
	if len(tokens) == 0 {
		return []*core.Prompt{}, nil
	}

	snap, err := e.snapshot(ctx)
	if err != nil {
		e.logger.Error("error building search index", "err", err)
		return nil, err
	}

	hits := snap.index.Search(tokens)
	if len(hits) > limit {
		hits = hits[:limit]
	}

	prompts := make([]*core.Prompt, 0, len(hits))
	for _, hit := range hits {
		if prompt := snap.prompts[hit.Id]; prompt != nil {
			prompts = append(prompts, prompt)
		}
	}
	return prompts, nil
}

// ResetIndex drops the cached index. The next query rebuilds from the
// current corpus snapshot. Callers must reset whenever the underlying
// prompt set changes; the engine does not observe mutations.
func (e *Engine) ResetIndex() {
	e.mu.Lock()
	e.cached = nil
	e.generation++
	e.mu.Unlock()
}

// snapshot returns the cached index, building it on first use.
// Concurrent builders collapse into one singleflight call keyed by the
// reset generation, so a query arriving after ResetIndex never joins a
// pre-reset build, and a pre-reset build never re-populates the cache.
func (e *Engine) snapshot(ctx context.Context) (*snapshot, error) {
	e.mu.RLock()
	snap := e.cached
	gen := e.generation
	e.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	v, err, _ := e.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		prompts, err := e.source.ListPrompts(ctx)
		if err != nil {
			return nil, err
		}

		built := &snapshot{
			index:   index.Build(prompts, e.params),
			prompts: make(map[string]*core.Prompt, len(prompts)),
		}
		for _, prompt := range prompts {
			built.prompts[prompt.Id] = prompt
		}

		e.mu.Lock()
		if e.generation == gen {
			e.cached = built
		}
		e.mu.Unlock()

		e.logger.Debug("search index built", "prompts", len(prompts))
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

// rerankHits runs the semantic pass and maps the reranked candidates
// back into hit order. Rerank failures keep the lexical ordering.
func (e *Engine) rerankHits(ctx context.Context, query string, snap *snapshot, hits []index.Hit) []index.Hit {
	candidates := make([]core.RankedResult, 0, len(hits))
	for _, hit := range hits {
		prompt := snap.prompts[hit.Id]
		if prompt == nil {
			continue
		}
		candidates = append(candidates, core.RankedResult{
			Id:     hit.Id,
			Score:  hit.Score,
			Text:   rerankText(prompt),
			Vector: prompt.Vector,
		})
	}

	reranked, err := e.reranker.Rerank(ctx, query, candidates)
	if err != nil {
		e.logger.Warn("rerank failed, keeping lexical order", "err", err)
		return hits
	}

	out := make([]index.Hit, len(reranked))
	for i, c := range reranked {
		out[i] = index.Hit{Id: c.Id, Score: c.Score}
	}
	return out
}

// rerankText is the field concatenation used for the semantic pass.
func rerankText(prompt *core.Prompt) string {
	return strings.TrimSpace(prompt.Title + " " + prompt.Description + " " + prompt.Content)
}

// matchesAnyTag reports whether any wanted tag is present.
func matchesAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
