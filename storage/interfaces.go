package storage

import (
	"context"

	"github.com/poiesic/promptsearch/core"
)

// PromptSource supplies the corpus snapshot the search engine indexes.
// Implementations must be thread-safe and return prompts in a stable
// insertion order; BM25 ties break on that order.
type PromptSource interface {
	// ListPrompts returns every stored prompt in insertion order.
	ListPrompts(ctx context.Context) ([]*core.Prompt, error)
}

// PromptRepository provides the full prompt-library surface: the corpus
// snapshot plus the management and browsing operations used by the CLI
// and the ingestion pipeline.
type PromptRepository interface {
	PromptSource

	// AddPrompts stores one or more prompts. Prompts with an empty Id get
	// a content-based ID. Returns ErrDuplicateID if an ID is already
	// stored. Returns the prompts with IDs populated.
	AddPrompts(ctx context.Context, prompts ...*core.Prompt) ([]*core.Prompt, error)

	// UpdatePrompts replaces existing prompts in place, keyed by Id.
	// Returns ErrNotFound if any prompt does not exist.
	UpdatePrompts(ctx context.Context, prompts ...*core.Prompt) error

	// DeletePrompts removes prompts by ID.
	// Returns ErrNotFound if any prompt does not exist.
	DeletePrompts(ctx context.Context, ids ...string) error

	// GetPrompt retrieves a single prompt by ID.
	// Returns ErrNotFound if it does not exist.
	GetPrompt(ctx context.Context, id string) (*core.Prompt, error)

	// CountPrompts returns the number of stored prompts.
	CountPrompts(ctx context.Context) (int, error)

	// ListCategories returns the distinct categories in use with the
	// number of prompts in each.
	ListCategories(ctx context.Context) (map[core.Category]int, error)

	// ListTags returns the distinct tags in use with the number of
	// prompts carrying each.
	ListTags(ctx context.Context) (map[string]int, error)

	// RandomPrompt returns a uniformly random prompt, optionally
	// restricted to a category ("" means any). Returns ErrEmptyLibrary
	// when nothing qualifies.
	RandomPrompt(ctx context.Context, category core.Category) (*core.Prompt, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
