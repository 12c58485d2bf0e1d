package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/screenforge/screenforge/pkg/config"
)

func newTestWorker() *Worker {
	cfg := config.DefaultQueueConfig()
	cfg.PollInterval = 100 * time.Millisecond
	cfg.PollIntervalJitter = 20 * time.Millisecond
	return NewWorker("worker-0", "pod-1", nil, cfg, nil, nil)
}

func TestWorker_PollIntervalStaysWithinJitterRange(t *testing.T) {
	w := newTestWorker()

	for i := 0; i < 50; i++ {
		d := w.pollInterval()
		assert.GreaterOrEqual(t, d, w.config.PollInterval-w.config.PollIntervalJitter)
		assert.LessOrEqual(t, d, w.config.PollInterval+w.config.PollIntervalJitter)
	}
}

func TestWorker_PollIntervalWithoutJitterReturnsBase(t *testing.T) {
	w := newTestWorker()
	w.config.PollIntervalJitter = 0

	assert.Equal(t, w.config.PollInterval, w.pollInterval())
}

func TestWorker_SetStatusUpdatesHealth(t *testing.T) {
	w := newTestWorker()

	health := w.Health()
	assert.Equal(t, string(WorkerStatusIdle), health.Status)
	assert.Equal(t, "worker-0", health.ID)

	w.setStatus(WorkerStatusWorking, "job-123")
	health = w.Health()
	assert.Equal(t, string(WorkerStatusWorking), health.Status)
	assert.Equal(t, "job-123", health.CurrentJobID)

	w.setStatus(WorkerStatusIdle, "")
	health = w.Health()
	assert.Equal(t, string(WorkerStatusIdle), health.Status)
	assert.Empty(t, health.CurrentJobID)
}

func TestWorker_StopWithoutStartReturnsImmediately(t *testing.T) {
	w := newTestWorker()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return for a worker that was never started")
	}
}
