package programs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const programColumns = `id, tenant_id, name, description, leader_id, is_active, created_at, updated_at, deleted_at`

// List returns all live programs of the tenant.
func (r *Repository) List(ctx context.Context, tenantID string) ([]Program, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+programColumns+` FROM programs
		 WHERE tenant_id = $1 AND deleted_at IS NULL
		 ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("programs: list: %w", err)
	}
	defer rows.Close()
	var out []Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one live program of the tenant.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (Program, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+programColumns+` FROM programs
		 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, id,
	)
	p, err := scanProgram(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Program{}, shared.ErrNotFound
		}
		return Program{}, fmt.Errorf("programs: get: %w", err)
	}
	return p, nil
}

// Create inserts a program.
func (r *Repository) Create(ctx context.Context, p Program) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO programs (id, tenant_id, name, description, leader_id, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		p.ID, p.TenantID, p.Name, p.Description, nullable(p.LeaderID), p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("programs: create: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a program.
func (r *Repository) Update(ctx context.Context, p Program) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE programs SET name = $3, description = $4, leader_id = $5, is_active = $6, updated_at = NOW()
		 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		p.TenantID, p.ID, p.Name, p.Description, nullable(p.LeaderID), p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("programs: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a program.
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE programs SET deleted_at = NOW(), updated_at = NOW()
		 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("programs: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountLive implements access.Counter: programs not soft-deleted.
func (r *Repository) CountLive(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM programs WHERE tenant_id = $1 AND deleted_at IS NULL`,
		tenantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("programs: count live: %w", err)
	}
	return count, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanProgram(row pgx.Row) (Program, error) {
	var p Program
	var leaderID *string
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &leaderID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if leaderID != nil {
		p.LeaderID = *leaderID
	}
	return p, err
}
