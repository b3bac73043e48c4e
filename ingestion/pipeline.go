package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/promptsearch/ai"
	"github.com/poiesic/promptsearch/core"
	"github.com/poiesic/promptsearch/storage"
)

// Pipeline orchestrates prompt ingestion and embedding precompute.
type Pipeline struct {
	repository    storage.PromptRepository
	embedder      ai.Embedder
	embeddingPool *ants.Pool
	logger        *slog.Logger
	wg            sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(repository storage.PromptRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:    repository,
		embedder:      embedder,
		embeddingPool: pool,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest validates and stores prompts, then submits each for embedding
// on the worker pool. Embedding runs asynchronously; call Wait to block
// until all submitted work has finished. Embedding errors are logged and
// leave the prompt stored without a vector.
func (p *Pipeline) Ingest(ctx context.Context, prompts ...*core.Prompt) ([]*core.Prompt, error) {
	added, err := p.repository.AddPrompts(ctx, prompts...)
	if err != nil {
		return nil, err
	}

	for _, prompt := range added {
		prompt := prompt
		p.wg.Add(1)
		submitErr := p.embeddingPool.Submit(func() {
			defer p.wg.Done()
			p.embedPrompt(context.Background(), prompt)
		})
		if submitErr != nil {
			p.wg.Done()
			p.logger.Error("error submitting embedding job", "promptId", prompt.Id, "err", submitErr)
		}
	}

	return added, nil
}

// Wait blocks until all submitted embedding jobs have finished.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}

// embedPrompt computes and stores the embedding for one prompt.
func (p *Pipeline) embedPrompt(ctx context.Context, prompt *core.Prompt) {
	text := prompt.Title + " " + prompt.Description + " " + prompt.Content
	vector, err := p.embedder.EmbedText(ctx, text)
	if err != nil {
		p.logger.Error("error embedding prompt", "promptId", prompt.Id, "err", err)
		return
	}

	updated := *prompt
	updated.Vector = vector
	if err := p.repository.UpdatePrompts(ctx, &updated); err != nil {
		p.logger.Error("error storing prompt embedding", "promptId", prompt.Id, "err", err)
	}
}
