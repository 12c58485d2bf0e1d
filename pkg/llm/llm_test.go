package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockBackend_CyclesResponses(t *testing.T) {
	b := NewMockBackend("first", "second")
	ctx := context.Background()

	r1, err := b.Generate(ctx, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "first", r1)

	r2, err := b.Generate(ctx, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "second", r2)

	r3, err := b.Generate(ctx, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "first", r3)

	assert.Equal(t, 3, b.CallCount())
}

func TestMockBackend_FailThenSucceed(t *testing.T) {
	b := NewMockBackend("ok").FailThenSucceed(2, errors.New("boom"))
	ctx := context.Background()

	_, err := b.Generate(ctx, "", "")
	assert.Error(t, err)
	_, err = b.Generate(ctx, "", "")
	assert.Error(t, err)

	out, err := b.Generate(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestMockBackend_HealthCheck(t *testing.T) {
	b := NewMockBackend()
	assert.NoError(t, b.HealthCheck(context.Background()))

	b.SetHealthy(false)
	assert.Error(t, b.HealthCheck(context.Background()))
}
