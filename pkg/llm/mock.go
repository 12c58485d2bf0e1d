package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockBackend is a deterministic, in-memory Backend for tests: it
// cycles through a fixed list of canned responses, counts calls, and
// can be configured to fail a fixed number of times before succeeding
// or to report itself unhealthy.
type MockBackend struct {
	mu sync.Mutex

	responses []string
	callCount int

	failUntilCall int
	failErr       error

	healthy bool
}

// NewMockBackend returns a MockBackend that always succeeds, cycling
// through responses in order and wrapping around to the first one once
// exhausted.
func NewMockBackend(responses ...string) *MockBackend {
	if len(responses) == 0 {
		responses = []string{defaultMockResponse}
	}
	return &MockBackend{responses: responses, healthy: true}
}

const defaultMockResponse = `{--- XML ---}
<screen><dataset id="ds_main"></dataset></screen>
{--- JS ---}
this.on_load = function() {
};
`

// FailThenSucceed configures the backend to return failErr for the
// first n calls, then fall back to its normal cycling behavior.
func (m *MockBackend) FailThenSucceed(n int, failErr error) *MockBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failUntilCall = n
	m.failErr = failErr
	return m
}

// SetHealthy controls what HealthCheck reports.
func (m *MockBackend) SetHealthy(healthy bool) *MockBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthy = healthy
	return m
}

// CallCount returns how many times Generate has been invoked.
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *MockBackend) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	if m.callCount <= m.failUntilCall {
		if m.failErr != nil {
			return "", m.failErr
		}
		return "", fmt.Errorf("llm: mock backend configured to fail on call %d", m.callCount)
	}

	idx := (m.callCount - 1) % len(m.responses)
	return m.responses[idx], nil
}

func (m *MockBackend) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.healthy {
		return fmt.Errorf("llm: mock backend marked unhealthy")
	}
	return nil
}

var _ Backend = (*MockBackend)(nil)
var _ Backend = (*AnthropicBackend)(nil)
