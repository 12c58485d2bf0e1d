// Package queue provides generation job queue management and processing
// infrastructure.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/screenforge/screenforge/ent"
	"github.com/screenforge/screenforge/ent/generationjob"
)

// Sentinel errors for queue operations.
var (
	// ErrNoJobsAvailable indicates no pending jobs are in the queue.
	ErrNoJobsAvailable = errors.New("no jobs available")

	// ErrAtCapacity indicates the global concurrent job limit has been reached.
	ErrAtCapacity = errors.New("at capacity")
)

// JobExecutor is the interface for generation job processing.
//
// The executor runs the full deterministic pipeline (parse, canonicalize,
// link, allowlist-filter, validate, minimalism) against the job's intent,
// including the single structural-failure retry, and returns the terminal
// outcome. The worker only handles: claiming, heartbeat, and terminal status
// update.
type JobExecutor interface {
	Execute(ctx context.Context, job *ent.GenerationJob) *ExecutionResult
}

// ExecutionResult is the terminal outcome of running a job through the
// generation pipeline.
type ExecutionResult struct {
	Status   generationjob.Status // completed or failed
	XML      string               // rendered screen/CRUD XML (if completed)
	JS       string               // rendered JS (if completed)
	Warnings []string             // non-fatal warnings accumulated by the pipeline
	Retried  bool                 // whether the single structural-failure retry was used
	Error    error                // error details (if failed)
}

// PoolHealth contains health information for the entire worker pool.
type PoolHealth struct {
	IsHealthy        bool           `json:"is_healthy"`
	DBReachable      bool           `json:"db_reachable"`
	DBError          string         `json:"db_error,omitempty"`
	PodID            string         `json:"pod_id"`
	ActiveWorkers    int            `json:"active_workers"`
	TotalWorkers     int            `json:"total_workers"`
	ActiveJobs       int            `json:"active_jobs"`
	MaxConcurrent    int            `json:"max_concurrent"`
	QueueDepth       int            `json:"queue_depth"`
	WorkerStats      []WorkerHealth `json:"worker_stats"`
	LastOrphanScan   time.Time      `json:"last_orphan_scan"`
	OrphansRecovered int            `json:"orphans_recovered"`
}

// WorkerHealth contains health information for a single worker.
type WorkerHealth struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"` // "idle" or "working"
	CurrentJobID  string    `json:"current_job_id,omitempty"`
	JobsProcessed int       `json:"jobs_processed"`
	LastActivity  time.Time `json:"last_activity"`
}
