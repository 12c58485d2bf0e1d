package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://api.anthropic.com/v1/messages"
	defaultAPIVersion = "2023-06-01"
	defaultModel      = "claude-sonnet-4-5"
	defaultMaxTokens  = 8192
)

// AnthropicBackend talks to a hosted completion API over plain
// HTTP+JSON and applies client-side rate limiting so a burst of
// concurrent generation jobs can't trip the provider's own limits.
type AnthropicBackend struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures an AnthropicBackend.
type Option func(*AnthropicBackend)

// WithBaseURL overrides the default API endpoint, e.g. for a proxy.
func WithBaseURL(url string) Option {
	return func(b *AnthropicBackend) { b.baseURL = url }
}

// WithModel overrides the default model identifier.
func WithModel(model string) Option {
	return func(b *AnthropicBackend) { b.model = model }
}

// WithRateLimit overrides the default requests-per-second ceiling and
// burst size.
func WithRateLimit(rps float64, burst int) Option {
	return func(b *AnthropicBackend) { b.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithHTTPClient overrides the default HTTP client, e.g. for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(b *AnthropicBackend) { b.httpClient = c }
}

// NewAnthropicBackend builds a Backend against the hosted completion
// API using apiKey, applying any Options afterward.
func NewAnthropicBackend(apiKey string, opts ...Option) *AnthropicBackend {
	b := &AnthropicBackend{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		maxTokens:  defaultMaxTokens,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
	Error   *anthropicError         `json:"error,omitempty"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Generate submits a single-turn completion request, waiting on the
// rate limiter before dispatching so concurrent callers serialize
// against the configured budget rather than each firing independently.
func (b *AnthropicBackend) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm: rate limiter wait: %w", err)
	}

	body := anthropicRequest{
		Model:     b.model,
		MaxTokens: b.maxTokens,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userPrompt}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("llm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", defaultAPIVersion)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("llm: decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("llm: API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("llm: unexpected status %d", resp.StatusCode)
	}

	var out string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	if out == "" {
		return "", fmt.Errorf("llm: response contained no text content")
	}
	return out, nil
}

// HealthCheck issues a minimal completion request and reports whether
// the backend is reachable and authorized.
func (b *AnthropicBackend) HealthCheck(ctx context.Context) error {
	_, err := b.Generate(ctx, "", "ping")
	return err
}
