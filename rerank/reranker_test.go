package rerank

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/promptsearch/ai/mock"
	"github.com/poiesic/promptsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReranker(t *testing.T) {
	t.Run("defaults to hash embedder", func(t *testing.T) {
		r, err := NewReranker()
		require.NoError(t, err)
		assert.NotNil(t, r)
	})

	t.Run("invalid blend weight", func(t *testing.T) {
		_, err := NewReranker(WithBlendWeight(1.5))
		assert.ErrorIs(t, err, ErrInvalidBlendWeight)

		_, err = NewReranker(WithBlendWeight(-0.1))
		assert.ErrorIs(t, err, ErrInvalidBlendWeight)
	})
}

func TestRerankLexicalOverlap(t *testing.T) {
	r, err := NewReranker(WithBlendWeight(1))
	require.NoError(t, err)

	candidates := []core.RankedResult{
		{Id: "no-match", Score: 2.0, Text: "slow sluggish lag"},
		{Id: "match", Score: 1.0, Text: "optimize performance speed"},
	}

	out, err := r.Rerank(context.Background(), "performance", candidates)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "match", out[0].Id,
		"text sharing substrings with the query must rank above disjoint text")
}

func TestRerankEmptyCandidates(t *testing.T) {
	r, err := NewReranker()
	require.NoError(t, err)

	out, err := r.Rerank(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRerankEmptyTextCandidate(t *testing.T) {
	t.Run("ranks below matching text", func(t *testing.T) {
		r, err := NewReranker(WithBlendWeight(1))
		require.NoError(t, err)

		candidates := []core.RankedResult{
			{Id: "blank", Score: 5.0, Text: "?!..."},
			{Id: "real", Score: 0.1, Text: "summarize the quarterly report"},
		}

		out, err := r.Rerank(context.Background(), "summarize report", candidates)
		require.NoError(t, err)
		assert.Equal(t, "real", out[0].Id)
		assert.Less(t, out[1].Score, out[0].Score)
	})

	t.Run("ranks below anti-correlated text", func(t *testing.T) {
		// Shifting cosine into [0, 1] puts negatively-correlated vectors
		// below the midpoint. Empty text yields the zero vector and must
		// sit at the floor, under even the worst real candidate.
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0}, nil
		}
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i, text := range texts {
				if text == "" {
					vectors[i] = []float32{0, 0}
				} else {
					vectors[i] = []float32{-0.9, 0.1}
				}
			}
			return vectors, nil
		}

		r, err := NewReranker(WithEmbedder(embedder), WithBlendWeight(1))
		require.NoError(t, err)

		candidates := []core.RankedResult{
			{Id: "blank", Score: 5.0, Text: ""},
			{Id: "opposite", Score: 0.1, Text: "something else entirely"},
		}

		out, err := r.Rerank(context.Background(), "query", candidates)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "opposite", out[0].Id,
			"negative cosine still beats no text at all")
		assert.Equal(t, "blank", out[1].Id)
		assert.Zero(t, out[1].Score, "empty text scores the minimum similarity")
	})
}

func TestRerankBlendKeepsLexicalSignal(t *testing.T) {
	// Weight 0 must preserve the lexical ordering exactly.
	r, err := NewReranker(WithBlendWeight(0))
	require.NoError(t, err)

	candidates := []core.RankedResult{
		{Id: "a", Score: 3.0, Text: "alpha"},
		{Id: "b", Score: 2.0, Text: "beta"},
		{Id: "c", Score: 1.0, Text: "gamma"},
	}

	out, err := r.Rerank(context.Background(), "beta", candidates)
	require.NoError(t, err)
	assert.Equal(t, "a", out[0].Id)
	assert.Equal(t, "b", out[1].Id)
	assert.Equal(t, "c", out[2].Id)
}

func TestRerankDegradesToFallback(t *testing.T) {
	failing := mock.NewMockEmbedder()
	failing.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("backend unreachable")
	}
	failing.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("backend unreachable")
	}

	r, err := NewReranker(WithEmbedder(failing), WithBlendWeight(1))
	require.NoError(t, err)

	candidates := []core.RankedResult{
		{Id: "no-match", Score: 2.0, Text: "slow sluggish lag"},
		{Id: "match", Score: 1.0, Text: "optimize performance speed"},
	}

	out, err := r.Rerank(context.Background(), "performance", candidates)
	require.NoError(t, err, "backend failure must not propagate")
	require.Len(t, out, 2)
	assert.Equal(t, "match", out[0].Id, "fallback still ranks by lexical overlap")
}

func TestRerankBatchFailureDegrades(t *testing.T) {
	// Query embedding succeeds, the candidate batch fails. The whole pass
	// must redo in the fallback space.
	partial := mock.NewMockEmbedder()
	partial.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("batch endpoint down")
	}

	r, err := NewReranker(WithEmbedder(partial), WithBlendWeight(1))
	require.NoError(t, err)

	candidates := []core.RankedResult{
		{Id: "no-match", Score: 2.0, Text: "slow sluggish lag"},
		{Id: "match", Score: 1.0, Text: "optimize performance speed"},
	}

	out, err := r.Rerank(context.Background(), "performance", candidates)
	require.NoError(t, err)
	assert.Equal(t, "match", out[0].Id)
}

func TestRerankUsesStoredVectors(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	r, err := NewReranker(WithEmbedder(embedder), WithBlendWeight(1))
	require.NoError(t, err)

	vec := make([]float32, 384)
	vec[0] = 1
	candidates := []core.RankedResult{
		{Id: "stored", Score: 1.0, Text: "ignored", Vector: vec},
	}

	_, err = r.Rerank(context.Background(), "query", candidates)
	require.NoError(t, err)
	// One call for the query; the candidate batch is skipped entirely.
	assert.Equal(t, 1, embedder.CallCount())
}

func TestCosine(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float32{0.5, 0.5, 0.1}
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	})

	t.Run("zero vector", func(t *testing.T) {
		assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 1}))
	})

	t.Run("nil vectors", func(t *testing.T) {
		assert.Zero(t, Cosine(nil, nil))
	})
}
