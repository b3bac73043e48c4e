// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package promptsearch

import (
	"context"
	"log/slog"

	"github.com/poiesic/promptsearch/ai"
	"github.com/poiesic/promptsearch/ai/hash"
	"github.com/poiesic/promptsearch/ai/openai"
	"github.com/poiesic/promptsearch/core"
	"github.com/poiesic/promptsearch/ingestion"
	"github.com/poiesic/promptsearch/rerank"
	"github.com/poiesic/promptsearch/search"
	"github.com/poiesic/promptsearch/storage"
	"github.com/poiesic/promptsearch/storage/badger"
)

// Library is the top-level handle for a prompt library: prompt storage,
// the search engine, and the ingestion pipeline all hang off it.
type Library struct {
	backend    *badger.Backend
	promptRepo storage.PromptRepository
	embedder   ai.Embedder
	engine     *search.Engine
	logger     *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig    *ai.Config
	inMemory    bool
	blendWeight float64
	noRerank    bool
}

// WithAIConfig enables semantic reranking through an OpenAI-compatible
// embedding endpoint. Without it search stays purely lexical.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// WithInMemory opens the library without on-disk persistence.
// Useful for tests and throwaway sessions.
func WithInMemory() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// WithBlendWeight sets how much the reranker's semantic similarity
// contributes relative to the lexical score. Only meaningful together
// with WithAIConfig.
func WithBlendWeight(weight float64) LibraryOption {
	return func(o *libraryOptions) {
		o.blendWeight = weight
	}
}

// WithoutReranking disables the semantic rerank pass entirely, even when
// an AI config is present.
func WithoutReranking() LibraryOption {
	return func(o *libraryOptions) {
		o.noRerank = true
	}
}

// Open opens (or creates) a prompt library at filePath.
func Open(filePath string, opts ...LibraryOption) (*Library, error) {
	// Apply options
	options := &libraryOptions{
		blendWeight: rerank.DefaultBlendWeight,
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create prompt repository
	promptRepo, err := badger.NewPromptRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create embedder with configured settings
	var embedder ai.Embedder
	if options.aiConfig != nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			promptRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	engineOpts := []search.Option{}
	if !options.noRerank {
		rerankerOpts := []rerank.Option{
			rerank.WithBlendWeight(options.blendWeight),
		}
		if embedder != nil {
			rerankerOpts = append(rerankerOpts, rerank.WithEmbedder(embedder))
		}
		reranker, rerr := rerank.NewReranker(rerankerOpts...)
		if rerr != nil {
			promptRepo.Close()
			backend.Close()
			return nil, rerr
		}
		engineOpts = append(engineOpts, search.WithReranker(reranker))
	}

	engine, err := search.NewEngine(promptRepo, engineOpts...)
	if err != nil {
		promptRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Library{
		backend:    backend,
		promptRepo: promptRepo,
		embedder:   embedder,
		engine:     engine,
		logger:     slog.Default(),
	}, nil
}

func (lib *Library) Close() error {
	// Close repositories
	if err := lib.promptRepo.Close(); err != nil {
		lib.logger.Error("error closing prompt repository", "err", err)
		return err
	}

	// Close backend
	if err := lib.backend.Close(); err != nil {
		lib.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (lib *Library) Repository() storage.PromptRepository {
	return lib.promptRepo
}

func (lib *Library) Engine() *search.Engine {
	return lib.engine
}

// Search runs a full search against the library.
func (lib *Library) Search(ctx context.Context, query string, opts search.Options) ([]*core.SearchResult, error) {
	return lib.engine.SearchPrompts(ctx, query, opts)
}

// QuickSearch runs a lexical-only lookup without synonym expansion,
// reranking, or filters.
func (lib *Library) QuickSearch(ctx context.Context, query string, limit int) ([]*core.Prompt, error) {
	return lib.engine.QuickSearch(ctx, query, limit)
}

// ResetIndex invalidates the cached search index. Call it after mutating
// prompts outside the ingestion pipeline.
func (lib *Library) ResetIndex() {
	lib.engine.ResetIndex()
}

func (lib *Library) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	embedder := lib.embedder
	if embedder == nil {
		// Precompute with the deterministic hash embedder so stored
		// vectors line up with the reranker's offline fallback.
		embedder = hash.New()
	}
	return ingestion.NewPipeline(lib.promptRepo, embedder, opts...)
}
