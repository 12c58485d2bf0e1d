// Package llm defines the narrow LLM backend abstraction the
// generation pipeline depends on, plus an HTTP-backed implementation
// and a deterministic mock for tests.
package llm

import "context"

// Backend is the only surface the rest of the system depends on: a
// health probe and a single-shot text completion call. Swapping
// providers means implementing this interface, nothing more.
type Backend interface {
	HealthCheck(ctx context.Context) error
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
