package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("Explain this code step by step")
		id2 := IDFromContent("Explain this code step by step")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content produces different IDs", func(t *testing.T) {
		id1 := IDFromContent("Explain this code step by step")
		id2 := IDFromContent("Summarize this article")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("fixed width hex", func(t *testing.T) {
		id := IDFromContent("anything")
		assert.Len(t, id, 16)
	})
}

func TestPromptMUSRoundTrip(t *testing.T) {
	prompt := Prompt{
		Id:          IDFromContent("code-review"),
		Title:       "Code Review Assistant",
		Description: "Reviews a diff for bugs and style issues",
		Content:     "You are a senior engineer. Review the following diff.",
		Category:    CategoryCoding,
		Tags:        []string{"review", "quality"},
		Vector:      []float32{0.25, -0.5, 0.75},
	}

	buf := make([]byte, PromptMUS.Size(prompt))
	n := PromptMUS.Marshal(prompt, buf)
	require.Equal(t, len(buf), n)

	decoded, n, err := PromptMUS.Unmarshal(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	assert.Equal(t, prompt, decoded)
}

func TestPromptMUSEmptyOptionalFields(t *testing.T) {
	prompt := Prompt{
		Id:       "abc",
		Title:    "Minimal",
		Content:  "Do the thing.",
		Category: CategoryWriting,
	}

	buf := make([]byte, PromptMUS.Size(prompt))
	PromptMUS.Marshal(prompt, buf)

	decoded, _, err := PromptMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, prompt.Title, decoded.Title)
	assert.Empty(t, decoded.Tags)
	assert.Empty(t, decoded.Vector)
}
