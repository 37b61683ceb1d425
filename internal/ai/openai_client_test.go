package ai

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewOpenAIClient(t *testing.T) {
	t.Run("missing API key is an error", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")

		_, err := NewOpenAIClient(zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("model defaults when unset", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("OPENAI_MODEL", "")

		c, err := NewOpenAIClient(zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, openai.GPT4oMini, c.model)
	})

	t.Run("model override is respected", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("OPENAI_MODEL", "gpt-4o")

		c, err := NewOpenAIClient(zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", c.model)
	})
}
