package aiprovider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiview/internal/config"
)

func TestFactoryUnsupportedProvider(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.AIConfig{Provider: "mystery"}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported ai provider")
}

func TestFactoryMissingGeminiKey(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.AIConfig{Provider: config.ProviderGemini}, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestFactoryMissingOpenAIKey(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.AIConfig{Provider: config.ProviderOpenAI}, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestFactorySelectsOpenAI(t *testing.T) {
	t.Parallel()

	provider, err := New(context.Background(), config.AIConfig{
		Provider: "OpenAI", // case-insensitive
		OpenAI: config.OpenAIConfig{
			APIKey:  "key",
			Model:   "gpt-4o",
			BaseURL: "https://api.openai.com/v1",
		},
	}, testLogger())

	require.NoError(t, err)
	assert.IsType(t, (*OpenAIProvider)(nil), provider)
}
