package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenforge/screenforge/pkg/config"
)

func newTestPool() *WorkerPool {
	cfg := config.DefaultQueueConfig()
	cfg.WorkerCount = 2
	return NewWorkerPool("pod-1", nil, cfg, nil)
}

func TestWorkerPool_RegisterAndUnregisterJob(t *testing.T) {
	p := newTestPool()

	var cancelled bool
	_, cancel := context.WithCancel(context.Background())
	wrapped := func() { cancelled = true; cancel() }

	p.RegisterJob("job-1", wrapped)
	assert.Equal(t, []string{"job-1"}, p.getActiveJobIDs())

	ok := p.CancelJob("job-1")
	require.True(t, ok)
	assert.True(t, cancelled)

	p.UnregisterJob("job-1")
	assert.Empty(t, p.getActiveJobIDs())
}

func TestWorkerPool_CancelJobReturnsFalseWhenUnknown(t *testing.T) {
	p := newTestPool()
	assert.False(t, p.CancelJob("does-not-exist"))
}

func TestWorkerPool_GetActiveJobIDsReflectsRegistrations(t *testing.T) {
	p := newTestPool()

	for i := 0; i < 5; i++ {
		p.RegisterJob(string(rune('a'+i)), func() {})
	}
	assert.Len(t, p.getActiveJobIDs(), 5)

	p.UnregisterJob("a")
	assert.Len(t, p.getActiveJobIDs(), 4)
}
