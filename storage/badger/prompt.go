package badger

import (
	"context"
	"errors"
	"math/rand"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/promptsearch/core"
	"github.com/poiesic/promptsearch/storage"
)

// PromptRepository implements storage.PromptRepository for BadgerDB.
type PromptRepository struct {
	backend  *Backend
	orderSeq *badger.Sequence
}

var _ storage.PromptRepository = (*PromptRepository)(nil)

// NewPromptRepository creates a new PromptRepository.
func NewPromptRepository(backend *Backend) (*PromptRepository, error) {
	orderSeq, err := backend.GetSequence(promptOrderSeq)
	if err != nil {
		return nil, err
	}

	return &PromptRepository{
		backend:  backend,
		orderSeq: orderSeq,
	}, nil
}

// Close releases the order sequence.
func (r *PromptRepository) Close() error {
	return r.orderSeq.Release()
}

// AddPrompts stores one or more prompts. Prompts with an empty Id get a
// content-based ID derived from title and content.
func (r *PromptRepository) AddPrompts(ctx context.Context, prompts ...*core.Prompt) ([]*core.Prompt, error) {
	for _, prompt := range prompts {
		if err := core.ValidatePrompt(prompt); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, prompt := range prompts {
			if prompt.Id == "" {
				prompt.Id = core.IDFromContent(prompt.Title + "\n" + prompt.Content)
			}

			key := makePromptKey(prompt.Id)
			if _, err := tx.Get(key); err == nil {
				return storage.ErrDuplicateID
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			position, err := r.orderSeq.Next()
			if err != nil {
				return err
			}

			if err := tx.Set(key, storage.MarshalPrompt(prompt)); err != nil {
				return err
			}
			if err := tx.Set(makeOrderKey(position), []byte(prompt.Id)); err != nil {
				return err
			}
			if err := tx.Set(makeSeqKey(prompt.Id), encodePosition(position)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return prompts, nil
}

// UpdatePrompts replaces existing prompts in place, keeping their
// insertion position.
func (r *PromptRepository) UpdatePrompts(ctx context.Context, prompts ...*core.Prompt) error {
	for _, prompt := range prompts {
		if err := core.ValidatePrompt(prompt); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, prompt := range prompts {
			key := makePromptKey(prompt.Id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Set(key, storage.MarshalPrompt(prompt)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeletePrompts removes prompts and their order-index entries.
func (r *PromptRepository) DeletePrompts(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePromptKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}

			seqKey := makeSeqKey(id)
			item, err := tx.Get(seqKey)
			if err != nil {
				return err
			}
			var position uint64
			if err := item.Value(func(val []byte) error {
				position = decodePosition(val)
				return nil
			}); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := tx.Delete(makeOrderKey(position)); err != nil {
				return err
			}
			if err := tx.Delete(seqKey); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPrompt retrieves a single prompt by ID.
func (r *PromptRepository) GetPrompt(ctx context.Context, id string) (*core.Prompt, error) {
	var prompt *core.Prompt
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePromptKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			prompt, err = storage.UnmarshalPrompt(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return prompt, nil
}

// ListPrompts returns every stored prompt in insertion order, iterating
// the order index.
func (r *PromptRepository) ListPrompts(ctx context.Context) ([]*core.Prompt, error) {
	var prompts []*core.Prompt
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(promptOrderPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id string
			if err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			item, err := tx.Get(makePromptKey(id))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			if err := item.Value(func(val []byte) error {
				prompt, err := storage.UnmarshalPrompt(val)
				if err != nil {
					return err
				}
				prompts = append(prompts, prompt)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

// CountPrompts returns the number of stored prompts.
func (r *PromptRepository) CountPrompts(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(promptRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListCategories returns the distinct categories in use with prompt counts.
func (r *PromptRepository) ListCategories(ctx context.Context) (map[core.Category]int, error) {
	prompts, err := r.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}

	categories := make(map[core.Category]int)
	for _, prompt := range prompts {
		categories[prompt.Category]++
	}
	return categories, nil
}

// ListTags returns the distinct tags in use with prompt counts.
func (r *PromptRepository) ListTags(ctx context.Context) (map[string]int, error) {
	prompts, err := r.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}

	tags := make(map[string]int)
	for _, prompt := range prompts {
		for _, tag := range prompt.Tags {
			tags[tag]++
		}
	}
	return tags, nil
}

// RandomPrompt returns a uniformly random prompt, optionally restricted
// to a category.
func (r *PromptRepository) RandomPrompt(ctx context.Context, category core.Category) (*core.Prompt, error) {
	prompts, err := r.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}

	if category != "" {
		filtered := prompts[:0:0]
		for _, prompt := range prompts {
			if prompt.Category == category {
				filtered = append(filtered, prompt)
			}
		}
		prompts = filtered
	}

	if len(prompts) == 0 {
		return nil, storage.ErrEmptyLibrary
	}
	return prompts[rand.Intn(len(prompts))], nil
}
