package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Queue:     DefaultQueueConfig(),
		Server:    DefaultServerConfig(),
		Retention: DefaultRetentionConfig(),
		Defaults:  &Defaults{LLMProvider: "anthropic", Mode: "relaxed"},
		LLMProviderRegistry: NewLLMProviderRegistry(map[string]*LLMProviderConfig{
			"anthropic": {Type: LLMProviderTypeMock, Model: "mock-model", MaxTokens: 4096},
		}),
	}
}

func TestValidateAll_ValidConfigPasses(t *testing.T) {
	v := NewValidator(validConfig())
	require.NoError(t, v.ValidateAll())
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name    string
		server  *ServerConfig
		wantErr string
	}{
		{name: "nil server", server: nil, wantErr: "server configuration is nil"},
		{name: "port zero", server: &ServerConfig{Port: 0}, wantErr: "port must be between"},
		{name: "port too high", server: &ServerConfig{Port: 70000}, wantErr: "port must be between"},
		{name: "invalid base url", server: &ServerConfig{Port: 8080, BaseURL: "://bad"}, wantErr: "not a valid URL"},
		{name: "valid", server: &ServerConfig{Port: 8080, BaseURL: "http://localhost:8080"}, wantErr: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: tt.server}
			err := NewValidator(cfg).validateServer()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateRetention(t *testing.T) {
	tests := []struct {
		name      string
		retention *RetentionConfig
		wantErr   string
	}{
		{name: "nil retention", retention: nil, wantErr: "retention configuration is nil"},
		{name: "record retention zero", retention: &RetentionConfig{RecordRetentionDays: 0, JobRetentionDays: 1, CleanupInterval: time.Hour}, wantErr: "record_retention_days"},
		{name: "job retention zero", retention: &RetentionConfig{RecordRetentionDays: 1, JobRetentionDays: 0, CleanupInterval: time.Hour}, wantErr: "job_retention_days"},
		{name: "cleanup interval zero", retention: &RetentionConfig{RecordRetentionDays: 1, JobRetentionDays: 1, CleanupInterval: 0}, wantErr: "cleanup_interval"},
		{name: "valid", retention: DefaultRetentionConfig(), wantErr: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Retention: tt.retention}
			err := NewValidator(cfg).validateRetention()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateLLMProviders(t *testing.T) {
	t.Run("empty registry errors", func(t *testing.T) {
		cfg := &Config{LLMProviderRegistry: NewLLMProviderRegistry(nil)}
		err := NewValidator(cfg).validateLLMProviders()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one provider is required")
	})

	t.Run("missing model errors", func(t *testing.T) {
		cfg := &Config{LLMProviderRegistry: NewLLMProviderRegistry(map[string]*LLMProviderConfig{
			"anthropic": {Type: LLMProviderTypeMock, MaxTokens: 1024},
		})}
		err := NewValidator(cfg).validateLLMProviders()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model required")
	})

	t.Run("missing api key env errors for non-mock provider", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY_TEST_UNSET", "")
		cfg := &Config{LLMProviderRegistry: NewLLMProviderRegistry(map[string]*LLMProviderConfig{
			"anthropic": {Type: LLMProviderTypeAnthropic, Model: "claude-sonnet-4-5", APIKeyEnv: "ANTHROPIC_API_KEY_TEST_UNSET", MaxTokens: 1024},
		})}
		err := NewValidator(cfg).validateLLMProviders()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not set")
	})

	t.Run("mock provider does not require api key env", func(t *testing.T) {
		cfg := &Config{LLMProviderRegistry: NewLLMProviderRegistry(map[string]*LLMProviderConfig{
			"mock": {Type: LLMProviderTypeMock, Model: "mock-model", APIKeyEnv: "SOME_UNSET_VAR", MaxTokens: 1024},
		})}
		err := NewValidator(cfg).validateLLMProviders()
		require.NoError(t, err)
	})
}

func TestValidateDefaults(t *testing.T) {
	registry := NewLLMProviderRegistry(map[string]*LLMProviderConfig{
		"anthropic": {Type: LLMProviderTypeMock, Model: "mock-model", MaxTokens: 1024},
	})

	t.Run("unknown provider errors", func(t *testing.T) {
		cfg := &Config{Defaults: &Defaults{LLMProvider: "missing"}, LLMProviderRegistry: registry}
		err := NewValidator(cfg).validateDefaults()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("invalid mode errors", func(t *testing.T) {
		cfg := &Config{Defaults: &Defaults{LLMProvider: "anthropic", Mode: "bogus"}, LLMProviderRegistry: registry}
		err := NewValidator(cfg).validateDefaults()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid mode")
	})

	t.Run("valid defaults pass", func(t *testing.T) {
		cfg := &Config{Defaults: &Defaults{LLMProvider: "anthropic", Mode: "strict"}, LLMProviderRegistry: registry}
		require.NoError(t, NewValidator(cfg).validateDefaults())
	})

	t.Run("nil defaults pass", func(t *testing.T) {
		cfg := &Config{Defaults: nil, LLMProviderRegistry: registry}
		require.NoError(t, NewValidator(cfg).validateDefaults())
	})
}
