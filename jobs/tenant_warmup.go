package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/arosadoclud/Sotware-iglesias-sub002/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Warmer re-primes one tenant's validity snapshot.
type Warmer interface {
	Warm(ctx context.Context, tenantID string) error
}

// TenantLister returns ids of active tenants, most recently active first.
type TenantLister interface {
	ActiveIDs(ctx context.Context) ([]string, error)
}

// TenantWarmupJob keeps validity snapshots hot so the first request
// after a quiet period does not pay for an authoritative fetch.
type TenantWarmupJob struct {
	warmer     Warmer
	lister     TenantLister
	logger     *slog.Logger
	jobMetrics *jobmetrics.Metrics
}

// NewTenantWarmupJob constructs the job.
func NewTenantWarmupJob(warmer Warmer, lister TenantLister, logger *slog.Logger, metrics *jobmetrics.Metrics) *TenantWarmupJob {
	return &TenantWarmupJob{warmer: warmer, lister: lister, logger: logger, jobMetrics: metrics}
}

// Handle processes TaskTenantWarmup tasks.
func (j *TenantWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics().Track("tenant_warmup")

	var payload TenantWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		_ = tracker.End(err)
		return asynq.SkipRetry
	}

	ids, err := j.lister.ActiveIDs(ctx)
	if err != nil {
		return tracker.End(err)
	}
	if payload.MaxTenants > 0 && len(ids) > payload.MaxTenants {
		ids = ids[:payload.MaxTenants]
	}

	warmed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return tracker.End(err)
		}
		if err := j.warmer.Warm(ctx, id); err != nil {
			j.logger.Warn("tenant warmup", slog.String("tenant_id", id), slog.Any("error", err))
			continue
		}
		warmed++
	}
	j.metrics().AddWarmed(warmed)
	j.logger.Info("tenant warmup complete", slog.Int("warmed", warmed), slog.Int("total", len(ids)))
	return tracker.End(nil)
}

func (j *TenantWarmupJob) metrics() *jobmetrics.Metrics {
	if j.jobMetrics != nil {
		return j.jobMetrics
	}
	return defaultJobMetrics
}
