package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLLMProviders_UserOverridesBuiltin(t *testing.T) {
	builtin := map[string]LLMProviderConfig{
		"anthropic": {Type: LLMProviderTypeAnthropic, Model: "claude-sonnet-4-5", MaxTokens: 8192},
	}
	user := map[string]LLMProviderConfig{
		"anthropic": {Type: LLMProviderTypeAnthropic, Model: "claude-opus-4-5", MaxTokens: 4096},
		"staging":   {Type: LLMProviderTypeMock, Model: "mock-model", MaxTokens: 1024},
	}

	merged := mergeLLMProviders(builtin, user)

	assert.Len(t, merged, 2)
	assert.Equal(t, "claude-opus-4-5", merged["anthropic"].Model)
	assert.Equal(t, "mock-model", merged["staging"].Model)
}

func TestMergeLLMProviders_BuiltinOnlyWhenNoUserOverride(t *testing.T) {
	builtin := map[string]LLMProviderConfig{
		"anthropic": {Type: LLMProviderTypeAnthropic, Model: "claude-sonnet-4-5", MaxTokens: 8192},
	}

	merged := mergeLLMProviders(builtin, nil)

	assert.Len(t, merged, 1)
	assert.Equal(t, "claude-sonnet-4-5", merged["anthropic"].Model)
}
