package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/httpx"
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

const userColumns = `id, tenant_id, email, name, role, is_superuser, use_custom_permissions, custom_permissions, is_active, created_at, updated_at`

// List returns all users of the tenant.
func (r *Repository) List(ctx context.Context, tenantID string) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = $1 ORDER BY email`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one user of the tenant.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, fmt.Errorf("users: get: %w", err)
	}
	return u, nil
}

// Create inserts a user.
func (r *Repository) Create(ctx context.Context, u User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, tenant_id, email, name, role, is_superuser, use_custom_permissions, custom_permissions, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
		u.ID, u.TenantID, u.Email, u.Name, u.Role, u.Superuser, u.UseCustomPermissions, u.CustomPermissions, u.IsActive,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.ErrDuplicate
		}
		return fmt.Errorf("users: create: %w", err)
	}
	return nil
}

// SetRole changes a user's role.
func (r *Repository) SetRole(ctx context.Context, tenantID, id string, role string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $3, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, role,
	)
	if err != nil {
		return fmt.Errorf("users: set role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetOverride replaces a user's custom permission configuration.
func (r *Repository) SetOverride(ctx context.Context, tenantID, id string, enabled bool, permissions []string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET use_custom_permissions = $3, custom_permissions = $4, updated_at = NOW()
		 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, enabled, permissions,
	)
	if err != nil {
		return fmt.Errorf("users: set override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByToken resolves an opaque API token to its user. Token issuance
// and verification live outside this service; the tokens table only maps
// already-issued credentials to accounts.
func (r *Repository) FindByToken(ctx context.Context, token string) (User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE is_active AND id = (
		   SELECT user_id FROM api_tokens WHERE token = $1 AND revoked_at IS NULL
		 )`,
		token,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrUnauthenticated
		}
		return User{}, fmt.Errorf("users: find by token: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.Name, &u.Role, &u.Superuser, &u.UseCustomPermissions, &u.CustomPermissions, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
