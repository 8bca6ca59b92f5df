package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

// Repository provides PostgreSQL backed persistence. Every query is
// scoped by tenant id; there is no unscoped read path.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const memberColumns = `id, tenant_id, first_name, last_name, email, phone, is_active, created_at, updated_at, deleted_at`

// List returns all live members of the tenant.
func (r *Repository) List(ctx context.Context, tenantID string) ([]Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+memberColumns+` FROM members
		 WHERE tenant_id = $1 AND deleted_at IS NULL
		 ORDER BY last_name, first_name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("members: list: %w", err)
	}
	defer rows.Close()
	var out []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one live member of the tenant.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (Member, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members
		 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, id,
	)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, shared.ErrNotFound
		}
		return Member{}, fmt.Errorf("members: get: %w", err)
	}
	return m, nil
}

// Create inserts a member.
func (r *Repository) Create(ctx context.Context, m Member) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO members (id, tenant_id, first_name, last_name, email, phone, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
		m.ID, m.TenantID, m.FirstName, m.LastName, m.Email, m.Phone, m.IsActive,
	)
	if err != nil {
		return fmt.Errorf("members: create: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a member.
func (r *Repository) Update(ctx context.Context, m Member) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE members SET first_name = $3, last_name = $4, email = $5, phone = $6, is_active = $7, updated_at = NOW()
		 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		m.TenantID, m.ID, m.FirstName, m.LastName, m.Email, m.Phone, m.IsActive,
	)
	if err != nil {
		return fmt.Errorf("members: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a member; soft-deleted rows no longer count
// against the plan quota.
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE members SET deleted_at = NOW(), updated_at = NOW()
		 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("members: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountLive implements access.Counter: members not soft-deleted.
func (r *Repository) CountLive(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM members WHERE tenant_id = $1 AND deleted_at IS NULL`,
		tenantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("members: count live: %w", err)
	}
	return count, nil
}

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.TenantID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.IsActive, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt)
	return m, err
}
