package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("requires at least one key", func(t *testing.T) {
		_, err := NewClient(nil, "")
		assert.ErrorIs(t, err, ErrNoAPIKeys)
	})

	t.Run("defaults the model", func(t *testing.T) {
		c, err := NewClient([]string{"key-1"}, "")
		require.NoError(t, err)
		assert.Equal(t, defaultModel, c.model)
	})
}

func TestClientKeyRotation(t *testing.T) {
	ctx := context.Background()
	quotaErr := errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")

	t.Run("rotates to the next key on quota errors", func(t *testing.T) {
		c, err := NewClient([]string{"key-1", "key-2"}, "test-model")
		require.NoError(t, err)

		var usedKeys []string
		c.invoke = func(ctx context.Context, apiKey, prompt string, jsonMode bool) (string, error) {
			usedKeys = append(usedKeys, apiKey)
			if apiKey == "key-1" {
				return "", quotaErr
			}
			return "answer", nil
		}

		text, err := c.GenerateText(ctx, "hello")
		require.NoError(t, err)
		assert.Equal(t, "answer", text)
		assert.Equal(t, []string{"key-1", "key-2"}, usedKeys)
	})

	t.Run("sticks to the rotated key afterwards", func(t *testing.T) {
		c, err := NewClient([]string{"key-1", "key-2"}, "test-model")
		require.NoError(t, err)

		c.invoke = func(ctx context.Context, apiKey, prompt string, jsonMode bool) (string, error) {
			if apiKey == "key-1" {
				return "", quotaErr
			}
			return "answer", nil
		}
		_, err = c.GenerateText(ctx, "first")
		require.NoError(t, err)

		key, _ := c.currentKey()
		assert.Equal(t, "key-2", key)
	})

	t.Run("gives up after a full pass", func(t *testing.T) {
		c, err := NewClient([]string{"key-1", "key-2", "key-3"}, "test-model")
		require.NoError(t, err)

		calls := 0
		c.invoke = func(ctx context.Context, apiKey, prompt string, jsonMode bool) (string, error) {
			calls++
			return "", quotaErr
		}

		_, err = c.GenerateText(ctx, "hello")
		require.Error(t, err)
		assert.ErrorIs(t, err, quotaErr)
		assert.Equal(t, 3, calls)
	})

	t.Run("single key does not rotate", func(t *testing.T) {
		c, err := NewClient([]string{"key-1"}, "test-model")
		require.NoError(t, err)

		calls := 0
		c.invoke = func(ctx context.Context, apiKey, prompt string, jsonMode bool) (string, error) {
			calls++
			return "", quotaErr
		}

		_, err = c.GenerateText(ctx, "hello")
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("non-quota errors fail immediately", func(t *testing.T) {
		c, err := NewClient([]string{"key-1", "key-2"}, "test-model")
		require.NoError(t, err)

		badPrompt := errors.New("400 invalid argument")
		calls := 0
		c.invoke = func(ctx context.Context, apiKey, prompt string, jsonMode bool) (string, error) {
			calls++
			return "", badPrompt
		}

		_, err = c.GenerateText(ctx, "hello")
		assert.ErrorIs(t, err, badPrompt)
		assert.Equal(t, 1, calls)
	})
}

func TestGenerateJSONStripsFences(t *testing.T) {
	c, err := NewClient([]string{"key-1"}, "test-model")
	require.NoError(t, err)

	c.invoke = func(ctx context.Context, apiKey, prompt string, jsonMode bool) (string, error) {
		assert.True(t, jsonMode)
		return "```json\n{\"ok\": true}\n```", nil
	}

	text, err := c.GenerateJSON(context.Background(), "give me json")
	require.NoError(t, err)
	assert.Equal(t, "{\"ok\": true}", text)
}

func TestIsQuotaError(t *testing.T) {
	assert.True(t, isQuotaError(errors.New("googleapi: Error 429")))
	assert.True(t, isQuotaError(errors.New("quota exceeded for quota metric")))
	assert.True(t, isQuotaError(errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED")))
	assert.True(t, isQuotaError(errors.New("HTTP 503: Too Many Requests")))
	assert.False(t, isQuotaError(errors.New("context deadline exceeded")))
}
