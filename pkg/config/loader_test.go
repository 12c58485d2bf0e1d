package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFiles(t *testing.T, dir string, screenforgeYAML, llmProvidersYAML string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "screenforge.yaml"), []byte(screenforgeYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "llm-providers.yaml"), []byte(llmProvidersYAML), 0o644))
}

func TestInitialize_LoadsAndMergesWithBuiltinDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	writeConfigFiles(t, dir, `
server:
  port: 9090
queue:
  worker_count: 3
defaults:
  llm_provider: mock
  mode: strict
`, `
llm_providers:
  mock:
    type: mock
    model: mock-model
    max_tokens: 2048
`)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Queue.WorkerCount)
	// Unset queue fields still take the built-in default.
	assert.Equal(t, DefaultQueueConfig().JobTimeout, cfg.Queue.JobTimeout)
	assert.Equal(t, "strict", cfg.Defaults.Mode)

	provider, err := cfg.GetLLMProvider("mock")
	require.NoError(t, err)
	assert.Equal(t, "mock-model", provider.Model)

	// Built-in anthropic provider is still present alongside the user-defined one.
	assert.True(t, cfg.LLMProviderRegistry.Has("anthropic"))
}

func TestInitialize_FailsValidationWithoutAnyProviderAPIKey(t *testing.T) {
	dir := t.TempDir()
	writeConfigFiles(t, dir, `{}`, `{}`)

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
}

func TestInitialize_MissingConfigFileFails(t *testing.T) {
	dir := t.TempDir()
	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}
