package rerank

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/promptsearch/ai"
	"github.com/poiesic/promptsearch/ai/hash"
	"github.com/poiesic/promptsearch/core"
)

// DefaultBlendWeight splits the final score evenly between the lexical
// and semantic components.
const DefaultBlendWeight = 0.5

// Reranker rescores lexical candidates by embedding similarity.
type Reranker struct {
	embedder ai.Embedder
	fallback ai.Embedder
	weight   float64
	logger   *slog.Logger
}

// Option configures a Reranker.
type Option func(*Reranker) error

// WithEmbedder sets the primary embedding backend. Default is the hash
// embedder, which is also the fallback when the primary backend fails.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(r *Reranker) error {
		if embedder != nil {
			r.embedder = embedder
		}
		return nil
	}
}

// WithBlendWeight sets the semantic share of the final score: 0 keeps the
// lexical ordering, 1 replaces it entirely. Default is 0.5.
func WithBlendWeight(weight float64) Option {
	return func(r *Reranker) error {
		if weight < 0 || weight > 1 {
			return ErrInvalidBlendWeight
		}
		r.weight = weight
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewReranker creates a reranker. Without options it runs entirely on the
// deterministic hash embedder.
func NewReranker(opts ...Option) (*Reranker, error) {
	fallback := hash.New()
	r := &Reranker{
		embedder: fallback,
		fallback: fallback,
		weight:   DefaultBlendWeight,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Rerank returns the candidate set with scores blended between the
// normalized lexical score and embedding cosine similarity, sorted
// descending by the new score. Candidates carrying a precomputed Vector
// skip on-the-fly embedding. A candidate whose text normalizes to nothing
// gets the minimum similarity. Rerank never fails for a valid candidate
// list: primary-backend errors degrade to the hash fallback.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []core.RankedResult) ([]core.RankedResult, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	queryVec, candidateVecs := r.embed(ctx, query, candidates)

	var maxLexical float64
	for _, c := range candidates {
		if c.Score > maxLexical {
			maxLexical = c.Score
		}
	}

	out := make([]core.RankedResult, len(candidates))
	copy(out, candidates)
	for i := range out {
		// Cosine lands in [-1, 1]; shift into [0, 1] before blending.
		// A zero candidate vector means the text normalized to nothing;
		// it gets the floor, not the midpoint the shift would produce.
		similarity := 0.0
		if !isZeroVector(candidateVecs[i]) {
			similarity = (Cosine(queryVec, candidateVecs[i]) + 1) / 2
		}

		lexical := 0.0
		if maxLexical > 0 {
			lexical = out[i].Score / maxLexical
		}
		out[i].Score = (1-r.weight)*lexical + r.weight*similarity
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

// embed produces the query vector and one vector per candidate, falling
// back to the hash embedder when the primary backend errors.
func (r *Reranker) embed(ctx context.Context, query string, candidates []core.RankedResult) ([]float32, [][]float32) {
	embedder := r.embedder

	queryVec, err := embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Warn("embedding backend failed, degrading to hash fallback", "err", err)
		embedder = r.fallback
		queryVec, _ = embedder.EmbedText(ctx, query)
	}

	// Embed only the candidates without stored vectors, in one batch.
	// Stored vectors are trusted only while the configured primary
	// backend is in play: in fallback (or hash-only) mode they may come
	// from a different embedding space.
	missing := make([]int, 0, len(candidates))
	texts := make([]string, 0, len(candidates))
	vectors := make([][]float32, len(candidates))
	for i, c := range candidates {
		if len(c.Vector) > 0 && embedder == r.embedder && r.embedder != r.fallback {
			vectors[i] = c.Vector
			continue
		}
		missing = append(missing, i)
		texts = append(texts, c.Text)
	}

	if len(texts) > 0 {
		embedded, err := embedder.EmbedTexts(ctx, texts)
		if err != nil || len(embedded) != len(texts) {
			if err != nil {
				r.logger.Warn("embedding backend failed mid-batch, degrading to hash fallback", "err", err)
			}
			embedder = r.fallback
			queryVec, _ = embedder.EmbedText(ctx, query)
			// Stored vectors came from the failed backend; redo everything
			// in the fallback space so similarities are comparable.
			missing = missing[:0]
			texts = texts[:0]
			for i, c := range candidates {
				missing = append(missing, i)
				texts = append(texts, c.Text)
			}
			embedded, _ = embedder.EmbedTexts(ctx, texts)
		}
		for j, i := range missing {
			vectors[i] = embedded[j]
		}
	}

	return queryVec, vectors
}
