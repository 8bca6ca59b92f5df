package tenants

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/httpx"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

// Repository provides PostgreSQL backed persistence for tenants. It is
// the authoritative tenant store the guard falls back to on cache miss.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindTenant implements access.TenantStore.
func (r *Repository) FindTenant(ctx context.Context, tenantID string) (access.TenantRecord, error) {
	var record access.TenantRecord
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, is_active, plan FROM tenants WHERE id = $1`,
		tenantID,
	).Scan(&record.ID, &record.Name, &record.IsActive, &record.Plan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return access.TenantRecord{}, shared.ErrNotFound
		}
		return access.TenantRecord{}, fmt.Errorf("tenants: find: %w", err)
	}
	return record, nil
}

// Get fetches the full tenant row.
func (r *Repository) Get(ctx context.Context, tenantID string) (Tenant, error) {
	var t Tenant
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, plan, is_active, created_at, updated_at FROM tenants WHERE id = $1`,
		tenantID,
	).Scan(&t.ID, &t.Name, &t.Plan, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tenant{}, shared.ErrNotFound
		}
		return Tenant{}, fmt.Errorf("tenants: get: %w", err)
	}
	return t, nil
}

// Create inserts a new tenant.
func (r *Repository) Create(ctx context.Context, t Tenant) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenants (id, name, plan, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())`,
		t.ID, t.Name, t.Plan, t.IsActive,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.ErrDuplicate
		}
		return fmt.Errorf("tenants: create: %w", err)
	}
	return nil
}

// SetActive flips the activation flag.
func (r *Repository) SetActive(ctx context.Context, tenantID string, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tenants SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		tenantID, active,
	)
	if err != nil {
		return fmt.Errorf("tenants: set active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetPlan changes the subscription tier.
func (r *Repository) SetPlan(ctx context.Context, tenantID string, plan access.Plan) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tenants SET plan = $2, updated_at = NOW() WHERE id = $1`,
		tenantID, plan,
	)
	if err != nil {
		return fmt.Errorf("tenants: set plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ActiveIDs lists ids of active tenants, newest activity first. Used by
// the cache warmup job.
func (r *Repository) ActiveIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM tenants WHERE is_active ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("tenants: active ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
