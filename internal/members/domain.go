package members

import "time"

// Member is one person registered in a congregation.
type Member struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"-"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// CreateInput carries the fields for a new member. TenantID may arrive
// from the client but is always overwritten with the guard-resolved
// value before persistence.
type CreateInput struct {
	TenantID  string `json:"tenant_id"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
}

// WithTenant returns a copy of the input scoped to the given tenant.
func (in CreateInput) WithTenant(tenantID string) CreateInput {
	in.TenantID = tenantID
	return in
}

// UpdateInput carries the mutable fields of a member.
type UpdateInput struct {
	TenantID  string `json:"tenant_id"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	IsActive  bool   `json:"is_active"`
}

// WithTenant returns a copy of the input scoped to the given tenant.
func (in UpdateInput) WithTenant(tenantID string) UpdateInput {
	in.TenantID = tenantID
	return in
}
