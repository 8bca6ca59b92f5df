package users

import (
	"fmt"
	"time"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/httpx"
)

// ErrInvalidInput flags caller mistakes (unknown role, malformed
// permission key) so they surface as 400, not 500.
var ErrInvalidInput = fmt.Errorf("users: invalid input: %w", httpx.ErrValidation)

// User is a tenant-scoped account for the administrative application.
type User struct {
	ID       string
	TenantID string
	Email    string
	Name     string
	Role     access.Role

	// Superuser bypasses the permission engine within the user's own
	// tenant. It is never settable through the HTTP surface.
	Superuser bool

	// UseCustomPermissions switches the account from role-based
	// permissions to the explicit override list below.
	UseCustomPermissions bool
	CustomPermissions    []string

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Principal projects the user into the access pipeline's value type.
func (u User) Principal() access.Principal {
	return access.Principal{
		ID:                   u.ID,
		TenantID:             u.TenantID,
		Role:                 u.Role,
		Superuser:            u.Superuser,
		UseCustomPermissions: u.UseCustomPermissions,
		CustomPermissions:    u.CustomPermissions,
	}
}

// CreateInput carries the fields for a new user.
type CreateInput struct {
	TenantID string `json:"tenant_id"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// WithTenant returns a copy of the input scoped to the given tenant.
func (in CreateInput) WithTenant(tenantID string) CreateInput {
	in.TenantID = tenantID
	return in
}

// OverrideInput configures the custom permission override of a user.
type OverrideInput struct {
	Enabled     bool     `json:"enabled"`
	Permissions []string `json:"permissions" validate:"dive,required"`
}
