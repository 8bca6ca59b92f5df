package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTenantWarmup re-primes tenant validity snapshots.
	TaskTenantWarmup = "tenant:warmup"
	// TaskAuditSweep removes expired access denial records.
	TaskAuditSweep = "audit:sweep"
)

// TenantWarmupPayload bounds how many tenants one warmup run touches.
type TenantWarmupPayload struct {
	MaxTenants int `json:"max_tenants"`
}

// NewTenantWarmupTask constructs a warmup task.
func NewTenantWarmupTask(maxTenants int) (*asynq.Task, error) {
	data, err := json.Marshal(TenantWarmupPayload{MaxTenants: maxTenants})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTenantWarmup, data), nil
}

// NewAuditSweepTask constructs a retention sweep task.
func NewAuditSweepTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskAuditSweep, nil), nil
}
