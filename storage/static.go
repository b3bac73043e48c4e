package storage

import (
	"context"

	"github.com/poiesic/promptsearch/core"
)

// StaticSource is a fixed in-memory PromptSource for callers that already
// hold their corpus and don't need persistence.
type StaticSource struct {
	prompts []*core.Prompt
}

var _ PromptSource = (*StaticSource)(nil)

// NewStaticSource creates a source over the given prompts. The slice is
// copied; the prompts themselves are shared and must not be mutated.
func NewStaticSource(prompts ...*core.Prompt) *StaticSource {
	snapshot := make([]*core.Prompt, len(prompts))
	copy(snapshot, prompts)
	return &StaticSource{prompts: snapshot}
}

// ListPrompts returns the corpus in its original order.
func (s *StaticSource) ListPrompts(_ context.Context) ([]*core.Prompt, error) {
	out := make([]*core.Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out, nil
}
