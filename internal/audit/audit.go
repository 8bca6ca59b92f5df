// Package audit persists access-control decisions for later review.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
)

// Trail writes denial records into access_denials. Recording is best
// effort: a failure is logged and never surfaces to the request.
type Trail struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTrail returns a new Trail.
func NewTrail(pool *pgxpool.Pool, logger *slog.Logger) *Trail {
	return &Trail{pool: pool, logger: logger}
}

// RecordDenial implements access.Recorder.
func (t *Trail) RecordDenial(ctx context.Context, d access.Denial) {
	if t == nil || t.pool == nil {
		return
	}
	_, err := t.pool.Exec(ctx,
		`INSERT INTO access_denials (principal_id, tenant_id, resource, action, code, detail, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		d.PrincipalID, d.TenantID, d.Resource, d.Action, d.Code, d.Detail,
	)
	if err != nil && t.logger != nil {
		t.logger.Warn("record denial", slog.String("code", d.Code), slog.Any("error", err))
	}
}

// Sweep removes denial records older than retention. Run by the
// background worker.
func (t *Trail) Sweep(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	tag, err := t.pool.Exec(ctx, `DELETE FROM access_denials WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
