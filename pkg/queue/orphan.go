package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/screenforge/screenforge/ent"
	"github.com/screenforge/screenforge/ent/generationjob"
)

// orphanState tracks orphan detection metrics (thread-safe).
type orphanState struct {
	mu               sync.Mutex
	lastOrphanScan   time.Time
	orphansRecovered int
}

// runOrphanDetection periodically scans for orphaned jobs.
// All pods run this independently — operations are idempotent.
func (p *WorkerPool) runOrphanDetection(ctx context.Context) {
	ticker := time.NewTicker(p.config.OrphanDetectionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			if err := p.detectAndRecoverOrphans(ctx); err != nil {
				slog.Error("Orphan detection failed", "error", err)
			}
		}
	}
}

// detectAndRecoverOrphans finds in_progress jobs with stale heartbeats and
// marks them failed (terminal state, eligible for resubmission by a caller).
func (p *WorkerPool) detectAndRecoverOrphans(ctx context.Context) error {
	threshold := time.Now().Add(-p.config.OrphanThreshold)

	orphans, err := p.client.GenerationJob.Query().
		Where(
			generationjob.StatusEQ(generationjob.StatusInProgress),
			generationjob.LastInteractionAtNotNil(),
			generationjob.LastInteractionAtLT(threshold),
		).
		All(ctx)
	if err != nil {
		return fmt.Errorf("failed to query orphaned jobs: %w", err)
	}

	if len(orphans) == 0 {
		p.orphans.mu.Lock()
		p.orphans.lastOrphanScan = time.Now()
		p.orphans.mu.Unlock()
		return nil
	}

	slog.Warn("Detected orphaned jobs", "count", len(orphans))

	recovered := 0
	failed := 0
	for _, job := range orphans {
		if err := p.recoverOrphanedJob(ctx, job); err != nil {
			slog.Error("Failed to recover orphaned job",
				"job_id", job.ID,
				"error", err)
			failed++
			continue
		}
		recovered++
	}

	p.orphans.mu.Lock()
	p.orphans.lastOrphanScan = time.Now()
	p.orphans.orphansRecovered += recovered
	p.orphans.mu.Unlock()

	if failed > 0 {
		slog.Warn("Orphan recovery completed with failures",
			"total_orphans", len(orphans),
			"recovered", recovered,
			"failed", failed)
	}

	return nil
}

// recoverOrphanedJob marks a single orphaned job as failed.
func (p *WorkerPool) recoverOrphanedJob(ctx context.Context, job *ent.GenerationJob) error {
	log := slog.With("job_id", job.ID, "old_pod_id", job.PodID)

	lastHeartbeat := "unknown"
	if job.LastInteractionAt != nil {
		lastHeartbeat = job.LastInteractionAt.Format(time.RFC3339)
	}

	podID := "unknown"
	if job.PodID != nil {
		podID = *job.PodID
	}

	errorMsg := fmt.Sprintf("orphaned: no heartbeat from pod %s since %s", podID, lastHeartbeat)
	if err := markJobFailed(ctx, p.client, job.ID, errorMsg); err != nil {
		return err
	}

	log.Warn("Orphaned job marked as failed", "last_heartbeat", lastHeartbeat)
	return nil
}

// CleanupStartupOrphans performs a one-time cleanup of jobs owned by this pod
// that were in-progress when the pod previously crashed.
// Called once during startup, before the worker pool begins processing.
func CleanupStartupOrphans(ctx context.Context, client *ent.Client, podID string) error {
	orphans, err := client.GenerationJob.Query().
		Where(
			generationjob.StatusEQ(generationjob.StatusInProgress),
			generationjob.PodIDEQ(podID),
		).
		All(ctx)
	if err != nil {
		return fmt.Errorf("failed to query startup orphans: %w", err)
	}

	if len(orphans) == 0 {
		return nil
	}

	slog.Warn("Found startup orphans from previous run",
		"pod_id", podID,
		"count", len(orphans))

	for _, job := range orphans {
		errorMsg := fmt.Sprintf("orphaned: pod %s restarted while job was in progress", podID)
		if err := markJobFailed(ctx, client, job.ID, errorMsg); err != nil {
			slog.Error("Failed to mark startup orphan",
				"job_id", job.ID,
				"error", err)
			continue
		}

		slog.Info("Startup orphan recovered", "job_id", job.ID)
	}

	return nil
}

// markJobFailed is a shared helper that marks a job as failed.
func markJobFailed(ctx context.Context, client *ent.Client, jobID, errorMsg string) error {
	now := time.Now()
	err := client.GenerationJob.UpdateOneID(jobID).
		SetStatus(generationjob.StatusFailed).
		SetCompletedAt(now).
		SetErrorMessage(errorMsg).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark job as failed: %w", err)
	}
	return nil
}
