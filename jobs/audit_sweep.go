package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/arosadoclud/Sotware-iglesias-sub002/internal/jobs"
)

// Sweeper removes records older than retention.
type Sweeper interface {
	Sweep(ctx context.Context, retention time.Duration) (int64, error)
}

// AuditSweepJob enforces the audit retention window.
type AuditSweepJob struct {
	sweeper    Sweeper
	retention  time.Duration
	logger     *slog.Logger
	jobMetrics *jobmetrics.Metrics
}

// NewAuditSweepJob constructs the job.
func NewAuditSweepJob(sweeper Sweeper, retention time.Duration, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditSweepJob {
	return &AuditSweepJob{sweeper: sweeper, retention: retention, logger: logger, jobMetrics: metrics}
}

// Handle processes TaskAuditSweep tasks.
func (j *AuditSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics().Track("audit_sweep")
	removed, err := j.sweeper.Sweep(ctx, j.retention)
	if err != nil {
		return tracker.End(err)
	}
	j.logger.Info("audit sweep complete", slog.Int64("removed", removed))
	return tracker.End(nil)
}

func (j *AuditSweepJob) metrics() *jobmetrics.Metrics {
	if j.jobMetrics != nil {
		return j.jobMetrics
	}
	return defaultJobMetrics
}
