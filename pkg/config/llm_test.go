package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMProviderTypeIsValid(t *testing.T) {
	assert.True(t, LLMProviderTypeAnthropic.IsValid())
	assert.True(t, LLMProviderTypeMock.IsValid())
	assert.False(t, LLMProviderType("vertexai").IsValid())
	assert.False(t, LLMProviderType("").IsValid())
}

func TestLLMProviderRegistry_GetAndHas(t *testing.T) {
	providers := map[string]*LLMProviderConfig{
		"anthropic": {Type: LLMProviderTypeAnthropic, Model: "claude-sonnet-4-5", MaxTokens: 8192},
	}
	registry := NewLLMProviderRegistry(providers)

	require.True(t, registry.Has("anthropic"))
	assert.False(t, registry.Has("missing"))

	provider, err := registry.Get("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5", provider.Model)

	_, err = registry.Get("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLLMProviderNotFound)

	assert.Equal(t, 1, registry.Len())
}

func TestLLMProviderRegistry_GetAllReturnsCopy(t *testing.T) {
	providers := map[string]*LLMProviderConfig{
		"anthropic": {Type: LLMProviderTypeAnthropic, Model: "claude-sonnet-4-5", MaxTokens: 8192},
	}
	registry := NewLLMProviderRegistry(providers)

	all := registry.GetAll()
	delete(all, "anthropic")

	assert.True(t, registry.Has("anthropic"), "mutating the returned map must not affect the registry")
}
